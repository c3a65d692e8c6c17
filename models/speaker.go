package models

import (
	"fmt"
	"sort"
	"strconv"
)

// Edition identifies one yearly congress by year and sequential number.
type Edition struct {
	Year   int
	Number int
}

// Code renders the short form used by the CCC, e.g. "33C3".
func (e Edition) Code() string {
	return fmt.Sprintf("%dC3", e.Number)
}

func (e Edition) String() string {
	return fmt.Sprintf("%d: %s", e.Year, e.Code())
}

// Speaker is one participant as observed in the Fahrplan.
// Handle stays empty until the speaker's profile page has been parsed.
type Speaker struct {
	ID     string
	Name   string
	Handle string
}

// Attribute is a per-speaker value tracked in the snapshot store.
type Attribute int

const (
	AttrName Attribute = iota
	AttrHandle
)

// Column returns the storage column holding the attribute.
func (a Attribute) Column() string {
	switch a {
	case AttrHandle:
		return "handle"
	default:
		return "name"
	}
}

func (a Attribute) String() string {
	return a.Column()
}

// Candidate is one guess at where the speakers listing lives.
type Candidate struct {
	Base   string
	Suffix string
}

// ListingURL is the address of the speakers overview page.
func (c Candidate) ListingURL() string {
	return c.Base + "speakers" + c.Suffix
}

// ProfileURL is the address of one speaker's profile page.
func (c Candidate) ProfileURL(id string) string {
	return c.Base + "speakers/" + id + c.Suffix
}

// Diff holds the differences between a stored mapping and a freshly
// extracted one. Changed maps id -> new value, Removed maps id -> old value.
type Diff struct {
	Changed map[string]string
	Removed map[string]string
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Changed) == 0 && len(d.Removed) == 0
}

// ChangedIDs returns the changed ids in ascending numeric order.
func (d Diff) ChangedIDs() []string {
	return SortedIDs(d.Changed)
}

// RemovedIDs returns the removed ids in ascending numeric order.
func (d Diff) RemovedIDs() []string {
	return SortedIDs(d.Removed)
}

// SortedIDs returns the keys of m in ascending numeric order. Keys that are
// not numbers sort after numeric ones, lexically.
func SortedIDs(m map[string]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}

// Summary is everything the final run report needs.
type Summary struct {
	Edition Edition
	Source  string

	Discovered int

	NamesBefore int
	NamesAfter  int
	NameDiff    Diff
	// StoredNames is the persisted name per id, used to render changes.
	StoredNames map[string]string

	HandlesDetected int
	HandlesBefore   int
	HandlesAfter    int
	HandleDiff      Diff
	StoredHandles   map[string]string

	SkippedProfiles []string

	Degraded bool
	StoreErr error
}

// NewNames is the number of speakers written during this run.
func (s *Summary) NewNames() int {
	return s.NamesAfter - s.NamesBefore
}

// NewHandles is the number of handles written during this run.
func (s *Summary) NewHandles() int {
	return s.HandlesAfter - s.HandlesBefore
}
