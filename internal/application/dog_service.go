package application

import (
	"context"
	"fmt"
	"time"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
	"go.uber.org/zap"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DogInput carries every writable field of a dog record. It is used for both
// create and full-replace update. A nil LeavingReasonID means no reason.
type DogInput struct {
	Name                     string
	Breed                    string
	Supplier                 string
	BadgeID                  string
	Gender                   string
	BirthDate                time.Time
	DateAcquired             time.Time
	StatusID                 int64
	LeavingDate              *time.Time
	LeavingReasonID          *int64
	KennellingCharacteristic string
}

func (in DogInput) details() dogDomain.Details {
	return dogDomain.Details{
		Name:                     in.Name,
		Breed:                    in.Breed,
		Supplier:                 in.Supplier,
		BadgeID:                  in.BadgeID,
		Gender:                   in.Gender,
		BirthDate:                in.BirthDate,
		DateAcquired:             in.DateAcquired,
		KennellingCharacteristic: in.KennellingCharacteristic,
	}
}

// DogDTO is the response representation of a dog, with the status and
// leaving reason names resolved for display.
type DogDTO struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Breed                    string    `json:"breed"`
	Supplier                 string    `json:"supplier"`
	BadgeID                  string    `json:"badge_id,omitempty"`
	Gender                   string    `json:"gender"`
	BirthDate                string    `json:"birth_date"`
	DateAcquired             string    `json:"date_acquired"`
	StatusID                 int64     `json:"status_id"`
	StatusName               string    `json:"status_name"`
	LeavingDate              *string   `json:"leaving_date,omitempty"`
	LeavingReasonID          *int64    `json:"leaving_reason_id,omitempty"`
	LeavingReasonName        string    `json:"leaving_reason_name,omitempty"`
	KennellingCharacteristic string    `json:"kennelling_characteristic,omitempty"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DogService orchestrates the dog record lifecycle: reference resolution,
// soft deletion and filtered, paginated reads.
type DogService struct {
	dogs   dogDomain.DogRepository
	refs   dogDomain.ReferenceRepository
	logger *zap.Logger
}

// NewDogService creates a new DogService.
func NewDogService(dogs dogDomain.DogRepository, refs dogDomain.ReferenceRepository, logger *zap.Logger) *DogService {
	return &DogService{dogs: dogs, refs: refs, logger: logger}
}

// Create resolves the references in the input and persists a new dog.
// Nothing is written when a reference does not resolve.
func (s *DogService) Create(ctx context.Context, in DogInput) (*DogDTO, error) {
	status, reason, err := s.resolveReferences(ctx, in.StatusID, in.LeavingReasonID)
	if err != nil {
		return nil, err
	}

	d := dogDomain.NewDog(in.details(), status.ID, in.LeavingDate, in.LeavingReasonID)
	if err := s.dogs.Save(ctx, d); err != nil {
		s.logger.Error("failed to create dog", zap.Error(err))
		return nil, fmt.Errorf("failed to create dog: %w", err)
	}

	s.logger.Info("dog record created",
		zap.Int64("dog_id", d.ID()),
		zap.Int64("status_id", status.ID),
	)
	result := toDogDTO(d, status, reason)
	return &result, nil
}

// GetDog returns an active dog by id.
func (s *DogService) GetDog(ctx context.Context, id int64) (*DogDTO, error) {
	d, err := s.dogs.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, reason, err := s.describe(ctx, d)
	if err != nil {
		return nil, err
	}
	result := toDogDTO(d, status, reason)
	return &result, nil
}

// ListDogs returns a page of active dogs ordered by id, with the total count.
func (s *DogService) ListDogs(ctx context.Context, page, limit int) ([]DogDTO, int64, error) {
	return s.findPage(ctx, dogDomain.SearchFilter{}, page, limit)
}

// SearchDogs returns a page of active dogs matching every non-blank filter
// field, with the total count of matches.
func (s *DogService) SearchDogs(ctx context.Context, filter dogDomain.SearchFilter, page, limit int) ([]DogDTO, int64, error) {
	return s.findPage(ctx, filter.Normalize(), page, limit)
}

// UpdateDog replaces every field of an active dog. Omitting the leaving
// reason clears it.
func (s *DogService) UpdateDog(ctx context.Context, id int64, in DogInput) (*DogDTO, error) {
	d, err := s.dogs.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, reason, err := s.resolveReferences(ctx, in.StatusID, in.LeavingReasonID)
	if err != nil {
		return nil, err
	}

	d.Replace(in.details(), status.ID, in.LeavingDate, in.LeavingReasonID)
	if err := s.dogs.Update(ctx, d); err != nil {
		s.logger.Error("failed to update dog", zap.Int64("dog_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update dog: %w", err)
	}

	s.logger.Info("dog record updated", zap.Int64("dog_id", id), zap.Int64("version", d.Version()))
	result := toDogDTO(d, status, reason)
	return &result, nil
}

// DeleteDog soft-deletes an active dog. Deleting an unknown or already
// deleted dog reports NotFound.
func (s *DogService) DeleteDog(ctx context.Context, id int64) error {
	if err := s.dogs.MarkDeleted(ctx, id); err != nil {
		if apperror.IsNotFound(err) {
			return err
		}
		s.logger.Error("failed to delete dog", zap.Int64("dog_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete dog: %w", err)
	}

	s.logger.Info("dog record deleted", zap.Int64("dog_id", id))
	return nil
}

func (s *DogService) findPage(ctx context.Context, filter dogDomain.SearchFilter, page, limit int) ([]DogDTO, int64, error) {
	dogs, total, err := s.dogs.FindActivePage(ctx, filter, dogDomain.NewPageRequest(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list dogs: %w", err)
	}
	if len(dogs) == 0 {
		return []DogDTO{}, total, nil
	}

	lookup, err := s.loadLookup(ctx)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]DogDTO, len(dogs))
	for i, d := range dogs {
		dtos[i] = toDogDTO(d, lookup.status(d.StatusID()), lookup.reason(d.LeavingReasonID()))
	}
	return dtos, total, nil
}

// resolveReferences looks up the status and, when present, the leaving
// reason. NotFound errors are returned unchanged.
func (s *DogService) resolveReferences(ctx context.Context, statusID int64, reasonID *int64) (*dogDomain.Status, *dogDomain.LeavingReason, error) {
	status, err := s.refs.FindStatusByID(ctx, statusID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to resolve status: %w", err)
	}

	if reasonID == nil {
		return status, nil, nil
	}
	reason, err := s.refs.FindLeavingReasonByID(ctx, *reasonID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to resolve leaving reason: %w", err)
	}
	return status, reason, nil
}

// describe resolves the display names of an already persisted dog. A
// dangling reference yields an empty name rather than failing the read.
func (s *DogService) describe(ctx context.Context, d *dogDomain.Dog) (*dogDomain.Status, *dogDomain.LeavingReason, error) {
	status, err := s.refs.FindStatusByID(ctx, d.StatusID())
	if err != nil && !apperror.IsNotFound(err) {
		return nil, nil, fmt.Errorf("failed to resolve status: %w", err)
	}

	var reason *dogDomain.LeavingReason
	if id := d.LeavingReasonID(); id != nil {
		reason, err = s.refs.FindLeavingReasonByID(ctx, *id)
		if err != nil && !apperror.IsNotFound(err) {
			return nil, nil, fmt.Errorf("failed to resolve leaving reason: %w", err)
		}
	}
	return status, reason, nil
}

// referenceLookup indexes the reference tables by id for page assembly.
type referenceLookup struct {
	statuses map[int64]*dogDomain.Status
	reasons  map[int64]*dogDomain.LeavingReason
}

func (l referenceLookup) status(id int64) *dogDomain.Status {
	return l.statuses[id]
}

func (l referenceLookup) reason(id *int64) *dogDomain.LeavingReason {
	if id == nil {
		return nil
	}
	return l.reasons[*id]
}

func (s *DogService) loadLookup(ctx context.Context) (referenceLookup, error) {
	statuses, err := s.refs.ListStatuses(ctx)
	if err != nil {
		return referenceLookup{}, fmt.Errorf("failed to load statuses: %w", err)
	}
	reasons, err := s.refs.ListLeavingReasons(ctx)
	if err != nil {
		return referenceLookup{}, fmt.Errorf("failed to load leaving reasons: %w", err)
	}

	lookup := referenceLookup{
		statuses: make(map[int64]*dogDomain.Status, len(statuses)),
		reasons:  make(map[int64]*dogDomain.LeavingReason, len(reasons)),
	}
	for _, st := range statuses {
		lookup.statuses[st.ID] = st
	}
	for _, r := range reasons {
		lookup.reasons[r.ID] = r
	}
	return lookup, nil
}

func toDogDTO(d *dogDomain.Dog, status *dogDomain.Status, reason *dogDomain.LeavingReason) DogDTO {
	dto := DogDTO{
		ID:                       d.ID(),
		Name:                     d.Name(),
		Breed:                    d.Breed(),
		Supplier:                 d.Supplier(),
		BadgeID:                  d.BadgeID(),
		Gender:                   d.Gender(),
		BirthDate:                d.BirthDate().Format(DateLayout),
		DateAcquired:             d.DateAcquired().Format(DateLayout),
		StatusID:                 d.StatusID(),
		LeavingReasonID:          d.LeavingReasonID(),
		KennellingCharacteristic: d.KennellingCharacteristic(),
		CreatedAt:                d.CreatedAt(),
		UpdatedAt:                d.UpdatedAt(),
	}
	if status != nil {
		dto.StatusName = status.Name
	}
	if reason != nil {
		dto.LeavingReasonName = reason.Name
	}
	if ld := d.LeavingDate(); ld != nil {
		formatted := ld.Format(DateLayout)
		dto.LeavingDate = &formatted
	}
	return dto
}
