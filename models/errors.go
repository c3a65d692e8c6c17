package models

import (
	"errors"
	"fmt"
)

// Sentinel errors, usable with errors.Is.
var (
	ErrFormat        = errors.New("invalid format")
	ErrRange         = errors.New("out of range")
	ErrNotFound      = errors.New("not found")
	ErrTransport     = errors.New("transport failure")
	ErrMalformedLink = errors.New("malformed link")
	ErrStore         = errors.New("store failure")
	ErrNoListing     = errors.New("no speakers listing found")
)

// FormatError reports a malformed year, congress code or address.
type FormatError struct {
	Field   string
	Value   string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// RangeError reports a well-formed value outside the allowed bounds.
// Bound describes the allowed range in words.
type RangeError struct {
	Field string
	Value string
	Bound string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s is not valid: %s", e.Field, e.Value, e.Bound)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}

// Reason classifies a failed fetch.
type Reason string

const (
	ReasonTimeout        Reason = "timeout"
	ReasonConnection     Reason = "connection failed"
	ReasonStatus         Reason = "unexpected status"
	ReasonInvalidAddress Reason = "not a valid file"
)

// TransportError reports a failed fetch that is not a plain 404.
type TransportError struct {
	Address    string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Reason, e.StatusCode, e.Address)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Address, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Address)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Transient reports whether retrying the same request might succeed.
func (e *TransportError) Transient() bool {
	return e.Reason == ReasonTimeout || e.Reason == ReasonConnection
}

// MalformedLinkError reports a link that passed the coarse filter but not
// the fine-grained pattern.
type MalformedLinkError struct {
	Kind string
	Href string
}

func (e *MalformedLinkError) Error() string {
	return fmt.Sprintf("faulty URL for %s: %s", e.Kind, e.Href)
}

func (e *MalformedLinkError) Is(target error) bool {
	return target == ErrMalformedLink
}

// StoreError reports a failed snapshot store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
