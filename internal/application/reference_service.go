package application

import (
	"context"
	"fmt"

	dogDomain "github.com/Kilat-Pet-Delivery/service-kennel/internal/domain/dog"
	"go.uber.org/zap"
)

// StatusDTO is the response representation of a dog status.
type StatusDTO struct {
	ID         int64  `json:"id"`
	StatusName string `json:"status_name"`
}

// LeavingReasonDTO is the response representation of a leaving reason.
type LeavingReasonDTO struct {
	ID         int64  `json:"id"`
	ReasonName string `json:"reason_name"`
}

// ReferenceService exposes the read-only reference tables.
type ReferenceService struct {
	repo   dogDomain.ReferenceRepository
	logger *zap.Logger
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(repo dogDomain.ReferenceRepository, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{repo: repo, logger: logger}
}

// ListStatuses returns every status.
func (s *ReferenceService) ListStatuses(ctx context.Context) ([]StatusDTO, error) {
	statuses, err := s.repo.ListStatuses(ctx)
	if err != nil {
		s.logger.Error("failed to list statuses", zap.Error(err))
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	dtos := make([]StatusDTO, len(statuses))
	for i, st := range statuses {
		dtos[i] = StatusDTO{ID: st.ID, StatusName: st.Name}
	}
	return dtos, nil
}

// ListLeavingReasons returns every leaving reason.
func (s *ReferenceService) ListLeavingReasons(ctx context.Context) ([]LeavingReasonDTO, error) {
	reasons, err := s.repo.ListLeavingReasons(ctx)
	if err != nil {
		s.logger.Error("failed to list leaving reasons", zap.Error(err))
		return nil, fmt.Errorf("failed to list leaving reasons: %w", err)
	}
	dtos := make([]LeavingReasonDTO, len(reasons))
	for i, r := range reasons {
		dtos[i] = LeavingReasonDTO{ID: r.ID, ReasonName: r.Name}
	}
	return dtos, nil
}
