package dog

import (
	"context"
	"strings"
)

// Page size bounds applied to every paginated read.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a normalized 1-based page selection.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to [1, MaxPageSize], using
// DefaultPageSize when limit is unset.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SearchFilter narrows a page of dogs. Each non-blank field is a
// case-insensitive substring match; fields combine with AND.
type SearchFilter struct {
	Name     string
	Breed    string
	Supplier string
}

// Normalize trims whitespace so a blank filter imposes no constraint.
func (f SearchFilter) Normalize() SearchFilter {
	return SearchFilter{
		Name:     strings.TrimSpace(f.Name),
		Breed:    strings.TrimSpace(f.Breed),
		Supplier: strings.TrimSpace(f.Supplier),
	}
}

// IsEmpty reports whether no filter is set.
func (f SearchFilter) IsEmpty() bool {
	n := f.Normalize()
	return n.Name == "" && n.Breed == "" && n.Supplier == ""
}

// Matches reports whether d satisfies every set field of the filter.
func (f SearchFilter) Matches(d *Dog) bool {
	n := f.Normalize()
	return containsFold(d.Name(), n.Name) &&
		containsFold(d.Breed(), n.Breed) &&
		containsFold(d.Supplier(), n.Supplier)
}

func containsFold(value, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}

// DogRepository is the persistence contract for dog records. Every read
// excludes soft-deleted rows; MarkDeleted is the only writer of the flag.
type DogRepository interface {
	// Save inserts a new dog and assigns its identifier.
	Save(ctx context.Context, d *Dog) error

	// FindActiveByID returns a NotFound error for unknown or deleted ids.
	FindActiveByID(ctx context.Context, id int64) (*Dog, error)

	// FindActivePage returns one page of matching dogs ordered by id
	// ascending, plus the total number of matches.
	FindActivePage(ctx context.Context, filter SearchFilter, page PageRequest) ([]*Dog, int64, error)

	// Update persists a replaced dog with optimistic locking on version.
	Update(ctx context.Context, d *Dog) error

	// MarkDeleted soft-deletes an active dog, returning NotFound otherwise.
	MarkDeleted(ctx context.Context, id int64) error
}

// ReferenceRepository gives read-only access to statuses and leaving reasons.
type ReferenceRepository interface {
	FindStatusByID(ctx context.Context, id int64) (*Status, error)
	FindLeavingReasonByID(ctx context.Context, id int64) (*LeavingReason, error)
	ListStatuses(ctx context.Context) ([]*Status, error)
	ListLeavingReasons(ctx context.Context) ([]*LeavingReason, error)
}
