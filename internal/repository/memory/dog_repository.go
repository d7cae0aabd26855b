// Package memory provides map-backed stores for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
)

// DogRepository implements dog.DogRepository in memory.
type DogRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*dogDomain.Dog
}

// NewDogRepository creates an empty DogRepository.
func NewDogRepository() *DogRepository {
	return &DogRepository{byID: make(map[int64]*dogDomain.Dog)}
}

func (r *DogRepository) Save(ctx context.Context, d *dogDomain.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	d.AssignID(r.nextID)
	r.byID[d.ID()] = clone(d)
	return nil
}

func (r *DogRepository) FindActiveByID(ctx context.Context, id int64) (*dogDomain.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok || stored.IsDeleted() {
		return nil, dogDomain.NewDogNotFound(id)
	}
	return clone(stored), nil
}

func (r *DogRepository) FindActivePage(ctx context.Context, filter dogDomain.SearchFilter, page dogDomain.PageRequest) ([]*dogDomain.Dog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*dogDomain.Dog, 0)
	for _, d := range r.byID {
		if !d.IsDeleted() && filter.Matches(d) {
			matches = append(matches, d)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ID() < matches[j].ID()
	})

	total := int64(len(matches))
	start := page.Offset()
	if start >= len(matches) {
		return []*dogDomain.Dog{}, total, nil
	}
	end := start + page.Limit
	if end > len(matches) {
		end = len(matches)
	}

	out := make([]*dogDomain.Dog, 0, end-start)
	for _, d := range matches[start:end] {
		out = append(out, clone(d))
	}
	return out, total, nil
}

// Update applies the same checks as the SQL store: a missing or deleted row
// is NotFound and a stored row that is not one version behind d is a conflict.
func (r *DogRepository) Update(ctx context.Context, d *dogDomain.Dog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[d.ID()]
	if !ok || stored.IsDeleted() {
		return dogDomain.NewDogNotFound(d.ID())
	}
	if stored.Version() != d.Version()-1 {
		return apperror.NewConflictError("dog was modified by another transaction")
	}
	r.byID[d.ID()] = clone(d)
	return nil
}

func (r *DogRepository) MarkDeleted(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.IsDeleted() {
		return dogDomain.NewDogNotFound(id)
	}
	r.byID[id] = dogDomain.Reconstruct(
		stored.ID(), stored.Details(), stored.StatusID(),
		stored.LeavingDate(), stored.LeavingReasonID(),
		true, stored.Version()+1,
		stored.CreatedAt(), time.Now().UTC(),
	)
	return nil
}

// FindByIDIncludingDeleted returns a dog regardless of the deleted flag. It
// backs audit lookups and tests.
func (r *DogRepository) FindByIDIncludingDeleted(ctx context.Context, id int64) (*dogDomain.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, dogDomain.NewDogNotFound(id)
	}
	return clone(stored), nil
}

func clone(d *dogDomain.Dog) *dogDomain.Dog {
	return dogDomain.Reconstruct(
		d.ID(), d.Details(), d.StatusID(),
		d.LeavingDate(), d.LeavingReasonID(),
		d.IsDeleted(), d.Version(),
		d.CreatedAt(), d.UpdatedAt(),
	)
}
