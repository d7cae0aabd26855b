package memory

import (
	"context"
	"sort"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
)

// ReferenceRepository implements dog.ReferenceRepository over fixed tables.
// The tables are never written after construction, so no locking is needed.
type ReferenceRepository struct {
	statuses map[int64]dogDomain.Status
	reasons  map[int64]dogDomain.LeavingReason
}

// NewReferenceRepository indexes the given rows by id.
func NewReferenceRepository(statuses []dogDomain.Status, reasons []dogDomain.LeavingReason) *ReferenceRepository {
	r := &ReferenceRepository{
		statuses: make(map[int64]dogDomain.Status, len(statuses)),
		reasons:  make(map[int64]dogDomain.LeavingReason, len(reasons)),
	}
	for _, s := range statuses {
		r.statuses[s.ID] = s
	}
	for _, lr := range reasons {
		r.reasons[lr.ID] = lr
	}
	return r
}

// NewSeededReferenceRepository returns a repository holding the default seed rows.
func NewSeededReferenceRepository() *ReferenceRepository {
	return NewReferenceRepository(dogDomain.DefaultStatuses(), dogDomain.DefaultLeavingReasons())
}

func (r *ReferenceRepository) FindStatusByID(ctx context.Context, id int64) (*dogDomain.Status, error) {
	s, ok := r.statuses[id]
	if !ok {
		return nil, dogDomain.NewStatusNotFound(id)
	}
	return &s, nil
}

func (r *ReferenceRepository) FindLeavingReasonByID(ctx context.Context, id int64) (*dogDomain.LeavingReason, error) {
	lr, ok := r.reasons[id]
	if !ok {
		return nil, dogDomain.NewLeavingReasonNotFound(id)
	}
	return &lr, nil
}

func (r *ReferenceRepository) ListStatuses(ctx context.Context) ([]*dogDomain.Status, error) {
	out := make([]*dogDomain.Status, 0, len(r.statuses))
	for _, s := range r.statuses {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ReferenceRepository) ListLeavingReasons(ctx context.Context) ([]*dogDomain.LeavingReason, error) {
	out := make([]*dogDomain.LeavingReason, 0, len(r.reasons))
	for _, lr := range r.reasons {
		lr := lr
		out = append(out, &lr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
