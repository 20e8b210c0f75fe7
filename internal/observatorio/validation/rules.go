// Package validation checks path parameters, query parameters and JSON bodies
// against declared rules before a handler runs. Syntactic violations are
// collected, not reported one at a time; existence of path-addressed records
// is checked only when the request is otherwise well formed.
package validation

import (
	"context"
	"fmt"
	"strings"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
)

const (
	LocationPath  = "path"
	LocationQuery = "query"
	LocationBody  = "body"
)

// Format is the syntax a path parameter must have.
type Format int

const (
	// FormatID is a positive integer.
	FormatID Format = iota
	// FormatCountryCode is three uppercase ASCII letters.
	FormatCountryCode
)

// ExistsFunc reports whether the record addressed by a path value exists.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

type PathRule struct {
	Name string
	// Label names the addressed record in not-found messages.
	Label  string
	Format Format
	Exists ExistsFunc
}

type QueryRule struct {
	Name      string
	MinLength int
}

// Rules is the full rule set of one route. Body returns a fresh pointer to
// the DTO the request body decodes into.
type Rules struct {
	Path  []PathRule
	Query []QueryRule
	Body  func() any
}

// Violation is one failed check.
type Violation struct {
	Location string `json:"location"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Value    any    `json:"value"`
}

// Errors carries every syntactic violation of a request.
type Errors []Violation

func (v Errors) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, fmt.Sprintf("%s %s: %s", violation.Location, violation.Field, violation.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v Errors) Unwrap() error {
	return e.ErrInvalidInput
}

// NotFoundError reports a path parameter addressing a missing record.
type NotFoundError struct {
	Label string
}

func (n *NotFoundError) Error() string {
	return n.Label + " not found"
}

func (n *NotFoundError) Unwrap() error {
	return e.ErrNotFound
}
