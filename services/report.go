package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"c3speakers/models"
)

// Reporter renders the end-of-run summary.
type Reporter struct {
	// Color enables ANSI styling of the headings.
	Color bool
}

// NewReporter creates a Reporter.
func NewReporter(color bool) *Reporter {
	return &Reporter{Color: color}
}

// Print writes the summary of a run to w.
func (r *Reporter) Print(w io.Writer, s *models.Summary) {
	sep := strings.Repeat("═", 54)

	fmt.Fprintf(w, "\n%s\n", r.style("1;35", sep))
	fmt.Fprintf(w, "%s\n", r.style("1;35", fmt.Sprintf("  C3 SPEAKERS %s (%d)", s.Edition.Code(), s.Edition.Year)))
	fmt.Fprintf(w, "%s\n", r.style("1;35", sep))
	if s.Source != "" {
		fmt.Fprintf(w, "  Fahrplan : %s\n", s.Source)
	}
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"", "Count"})
	t.AppendRow(table.Row{"Speakers found in Fahrplan", s.Discovered})
	t.AppendRow(table.Row{"Speakers saved before", s.NamesBefore})
	t.AppendRow(table.Row{"New speakers saved", s.NewNames()})
	t.AppendRow(table.Row{"Twitter handles found", s.HandlesDetected})
	t.AppendRow(table.Row{"New Twitter handles saved", s.NewHandles()})
	if len(s.SkippedProfiles) > 0 {
		t.AppendRow(table.Row{"Profiles skipped", len(s.SkippedProfiles)})
	}
	t.SetStyle(table.StyleRounded)
	fmt.Fprintln(w, t.Render())

	if len(s.SkippedProfiles) > 0 {
		fmt.Fprintf(w, "\nProfiles that could not be read: %s\n", strings.Join(s.SkippedProfiles, ", "))
	}

	if s.Degraded {
		fmt.Fprintf(w, "\n%s\n", r.style("1;31", "✗ The snapshot store failed, this run's changes were not saved."))
		if s.StoreErr != nil {
			fmt.Fprintf(w, "  %v\n", s.StoreErr)
		}
	}

	lines := attentionLines(s)
	if len(lines) == 0 {
		return
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintln(w, r.style("1;33", "ATTENTION:"))
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, "You might want to look into these changes and fix them manually.")
}

func attentionLines(s *models.Summary) []string {
	var lines []string

	for _, id := range s.NameDiff.RemovedIDs() {
		lines = append(lines, fmt.Sprintf("✗ Speaker %s (id %s) is not listed in the Fahrplan anymore.",
			clean(s.NameDiff.Removed[id]), id))
	}
	for _, id := range s.NameDiff.ChangedIDs() {
		lines = append(lines, fmt.Sprintf("✗ Speaker %s (id %s) has changed to %s in the current Fahrplan.",
			clean(s.StoredNames[id]), id, clean(s.NameDiff.Changed[id])))
	}

	skipped := make(map[string]bool, len(s.SkippedProfiles))
	for _, id := range s.SkippedProfiles {
		skipped[id] = true
	}
	for _, id := range s.HandleDiff.RemovedIDs() {
		// A speaker who left takes their handle along; an unread profile
		// says nothing about the handle.
		if _, gone := s.NameDiff.Removed[id]; gone || skipped[id] {
			continue
		}
		lines = append(lines, fmt.Sprintf("✗ Twitter @%s (id %s) is not listed in the Fahrplan anymore.",
			s.HandleDiff.Removed[id], id))
	}
	for _, id := range s.HandleDiff.ChangedIDs() {
		lines = append(lines, fmt.Sprintf("✗ Twitter @%s (id %s) has changed to @%s in the current Fahrplan.",
			s.StoredHandles[id], id, s.HandleDiff.Changed[id]))
	}

	return lines
}

// clean collapses the whitespace Fahrplan markup leaves around names.
func clean(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (r *Reporter) style(code, s string) string {
	if !r.Color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}
