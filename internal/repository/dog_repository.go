package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"github.com/Kilat-Pet-Delivery/service-kennel/internal/platform/apperror"
	"gorm.io/gorm"
)

// DogModel is the GORM model for the dogs table.
type DogModel struct {
	ID                       int64      `gorm:"primaryKey;autoIncrement"`
	Name                     string     `gorm:"not null;size:100"`
	Breed                    string     `gorm:"not null;size:100"`
	Supplier                 string     `gorm:"not null;size:150"`
	BadgeID                  *string    `gorm:"size:50"`
	Gender                   string     `gorm:"not null;size:20"`
	BirthDate                time.Time  `gorm:"type:date;not null"`
	DateAcquired             time.Time  `gorm:"type:date;not null"`
	StatusID                 int64      `gorm:"not null;index"`
	LeavingDate              *time.Time `gorm:"type:date"`
	LeavingReasonID          *int64     `gorm:""`
	KennellingCharacteristic *string    `gorm:"type:text"`
	Deleted                  bool       `gorm:"not null;default:false;index"`
	Version                  int64      `gorm:"not null;default:1"`
	CreatedAt                time.Time  `gorm:"not null"`
	UpdatedAt                time.Time  `gorm:"not null"`

	Status        *DogStatusModel     `gorm:"foreignKey:StatusID"`
	LeavingReason *LeavingReasonModel `gorm:"foreignKey:LeavingReasonID"`
}

// TableName returns the table name for the GORM model.
func (DogModel) TableName() string {
	return "dogs"
}

// GormDogRepository is the GORM-based implementation of DogRepository.
type GormDogRepository struct {
	db *gorm.DB
}

// NewGormDogRepository creates a new GormDogRepository.
func NewGormDogRepository(db *gorm.DB) *GormDogRepository {
	return &GormDogRepository{db: db}
}

// Save inserts a new dog and assigns the generated id back to it.
func (r *GormDogRepository) Save(ctx context.Context, d *dogDomain.Dog) error {
	model := toDogModel(d)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save dog: %w", err)
	}
	d.AssignID(model.ID)
	return nil
}

// FindActiveByID retrieves a dog that has not been soft-deleted.
func (r *GormDogRepository) FindActiveByID(ctx context.Context, id int64) (*dogDomain.Dog, error) {
	var model DogModel
	if err := r.db.WithContext(ctx).Where("id = ? AND deleted = ?", id, false).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dogDomain.NewDogNotFound(id)
		}
		return nil, fmt.Errorf("failed to find dog by ID: %w", err)
	}
	return toDomainDog(&model), nil
}

// FindByIDIncludingDeleted retrieves a dog regardless of the deleted flag.
func (r *GormDogRepository) FindByIDIncludingDeleted(ctx context.Context, id int64) (*dogDomain.Dog, error) {
	var model DogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dogDomain.NewDogNotFound(id)
		}
		return nil, fmt.Errorf("failed to find dog by ID: %w", err)
	}
	return toDomainDog(&model), nil
}

// FindActivePage retrieves active dogs matching the filter, ordered by id.
func (r *GormDogRepository) FindActivePage(ctx context.Context, filter dogDomain.SearchFilter, page dogDomain.PageRequest) ([]*dogDomain.Dog, int64, error) {
	var total int64
	if err := r.activeScope(ctx, filter).Model(&DogModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count dogs: %w", err)
	}

	var models []DogModel
	if err := r.activeScope(ctx, filter).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list dogs: %w", err)
	}

	dogs := make([]*dogDomain.Dog, len(models))
	for i := range models {
		dogs[i] = toDomainDog(&models[i])
	}
	return dogs, total, nil
}

func (r *GormDogRepository) activeScope(ctx context.Context, filter dogDomain.SearchFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("deleted = ?", false)
	f := filter.Normalize()
	if f.Name != "" {
		q = q.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, likePattern(f.Name))
	}
	if f.Breed != "" {
		q = q.Where(`LOWER(breed) LIKE LOWER(?) ESCAPE '\'`, likePattern(f.Breed))
	}
	if f.Supplier != "" {
		q = q.Where(`LOWER(supplier) LIKE LOWER(?) ESCAPE '\'`, likePattern(f.Supplier))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a substring pattern in which %, _ and \ match literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// Update persists a full replacement of an active dog with optimistic locking.
func (r *GormDogRepository) Update(ctx context.Context, d *dogDomain.Dog) error {
	model := toDogModel(d)

	// Replace has already bumped the version.
	expectedVersion := d.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&DogModel{}).
		Where("id = ? AND version = ? AND deleted = ?", model.ID, expectedVersion, false).
		Updates(map[string]interface{}{
			"name":                      model.Name,
			"breed":                     model.Breed,
			"supplier":                  model.Supplier,
			"badge_id":                  model.BadgeID,
			"gender":                    model.Gender,
			"birth_date":                model.BirthDate,
			"date_acquired":             model.DateAcquired,
			"status_id":                 model.StatusID,
			"leaving_date":              model.LeavingDate,
			"leaving_reason_id":         model.LeavingReasonID,
			"kennelling_characteristic": model.KennellingCharacteristic,
			"version":                   model.Version,
			"updated_at":                model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update dog: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var active int64
		if err := r.db.WithContext(ctx).Model(&DogModel{}).
			Where("id = ? AND deleted = ?", model.ID, false).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to check dog: %w", err)
		}
		if active == 0 {
			return dogDomain.NewDogNotFound(model.ID)
		}
		return apperror.NewConflictError("dog was modified by another transaction")
	}

	return nil
}

// MarkDeleted flips the deleted flag in a single conditional statement, so
// concurrent deletes of the same dog cannot both succeed.
func (r *GormDogRepository) MarkDeleted(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&DogModel{}).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to delete dog: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return dogDomain.NewDogNotFound(id)
	}

	return nil
}

// --- Conversion Helpers ---

func toDogModel(d *dogDomain.Dog) *DogModel {
	return &DogModel{
		ID:                       d.ID(),
		Name:                     d.Name(),
		Breed:                    d.Breed(),
		Supplier:                 d.Supplier(),
		BadgeID:                  optionalString(d.BadgeID()),
		Gender:                   d.Gender(),
		BirthDate:                d.BirthDate(),
		DateAcquired:             d.DateAcquired(),
		StatusID:                 d.StatusID(),
		LeavingDate:              d.LeavingDate(),
		LeavingReasonID:          d.LeavingReasonID(),
		KennellingCharacteristic: optionalString(d.KennellingCharacteristic()),
		Deleted:                  d.IsDeleted(),
		Version:                  d.Version(),
		CreatedAt:                d.CreatedAt(),
		UpdatedAt:                d.UpdatedAt(),
	}
}

func toDomainDog(m *DogModel) *dogDomain.Dog {
	return dogDomain.Reconstruct(
		m.ID,
		dogDomain.Details{
			Name:                     m.Name,
			Breed:                    m.Breed,
			Supplier:                 m.Supplier,
			BadgeID:                  derefString(m.BadgeID),
			Gender:                   m.Gender,
			BirthDate:                m.BirthDate,
			DateAcquired:             m.DateAcquired,
			KennellingCharacteristic: derefString(m.KennellingCharacteristic),
		},
		m.StatusID,
		m.LeavingDate,
		m.LeavingReasonID,
		m.Deleted,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
