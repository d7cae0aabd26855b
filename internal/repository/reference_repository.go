package repository

import (
	"context"
	"errors"
	"fmt"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DogStatusModel is the GORM model for the dog_statuses table.
type DogStatusModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	StatusName string `gorm:"not null;size:100;uniqueIndex"`
}

// TableName returns the table name for the GORM model.
func (DogStatusModel) TableName() string {
	return "dog_statuses"
}

// LeavingReasonModel is the GORM model for the leaving_reasons table.
type LeavingReasonModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ReasonName string `gorm:"not null;size:100;uniqueIndex"`
}

// TableName returns the table name for the GORM model.
func (LeavingReasonModel) TableName() string {
	return "leaving_reasons"
}

// GormReferenceRepository reads the status and leaving reason tables.
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository.
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// FindStatusByID retrieves a status by id.
func (r *GormReferenceRepository) FindStatusByID(ctx context.Context, id int64) (*dogDomain.Status, error) {
	var model DogStatusModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dogDomain.NewStatusNotFound(id)
		}
		return nil, fmt.Errorf("failed to find status by ID: %w", err)
	}
	return &dogDomain.Status{ID: model.ID, Name: model.StatusName}, nil
}

// FindLeavingReasonByID retrieves a leaving reason by id.
func (r *GormReferenceRepository) FindLeavingReasonByID(ctx context.Context, id int64) (*dogDomain.LeavingReason, error) {
	var model LeavingReasonModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dogDomain.NewLeavingReasonNotFound(id)
		}
		return nil, fmt.Errorf("failed to find leaving reason by ID: %w", err)
	}
	return &dogDomain.LeavingReason{ID: model.ID, Name: model.ReasonName}, nil
}

// ListStatuses returns every status ordered by id.
func (r *GormReferenceRepository) ListStatuses(ctx context.Context) ([]*dogDomain.Status, error) {
	var models []DogStatusModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	out := make([]*dogDomain.Status, len(models))
	for i, m := range models {
		out[i] = &dogDomain.Status{ID: m.ID, Name: m.StatusName}
	}
	return out, nil
}

// ListLeavingReasons returns every leaving reason ordered by id.
func (r *GormReferenceRepository) ListLeavingReasons(ctx context.Context) ([]*dogDomain.LeavingReason, error) {
	var models []LeavingReasonModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list leaving reasons: %w", err)
	}
	out := make([]*dogDomain.LeavingReason, len(models))
	for i, m := range models {
		out[i] = &dogDomain.LeavingReason{ID: m.ID, Name: m.ReasonName}
	}
	return out, nil
}

// AutoMigrate creates or updates the schema from the GORM models. Used in
// development and tests; other environments run the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&DogStatusModel{}, &LeavingReasonModel{}, &DogModel{})
}

// SeedReferenceData inserts the default statuses and leaving reasons.
// Existing rows are left untouched.
func SeedReferenceData(db *gorm.DB) error {
	statuses := dogDomain.DefaultStatuses()
	statusModels := make([]DogStatusModel, len(statuses))
	for i, s := range statuses {
		statusModels[i] = DogStatusModel{ID: s.ID, StatusName: s.Name}
	}

	reasons := dogDomain.DefaultLeavingReasons()
	reasonModels := make([]LeavingReasonModel, len(reasons))
	for i, lr := range reasons {
		reasonModels[i] = LeavingReasonModel{ID: lr.ID, ReasonName: lr.Name}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&statusModels).Error; err != nil {
			return fmt.Errorf("failed to seed statuses: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reasonModels).Error; err != nil {
			return fmt.Errorf("failed to seed leaving reasons: %w", err)
		}
		return nil
	})
}
