package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type stageRepository interface {
	FindByID(ctx context.Context, id int64) (*models.RegistrationStage, error)
	TypeExists(ctx context.Context, typeID int64) (bool, error)
	Create(ctx context.Context, stage *models.RegistrationStage) error
	Update(ctx context.Context, stage *models.RegistrationStage) error
	Close(ctx context.Context, id int64, endAt time.Time) error
	List(ctx context.Context, filter models.StageFilter, now time.Time) ([]models.RegistrationStage, int, error)
}

type careerChecker interface {
	CareerExists(ctx context.Context, careerID int64) (bool, error)
}

// CreateStageRequest describes a new registration campaign.
type CreateStageRequest struct {
	CareerID    int64     `json:"career_id" validate:"required"`
	TypeID      int64     `json:"type_id" validate:"required"`
	PeriodLabel string    `json:"period_label"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	CreatedBy   string    `json:"created_by" validate:"required,uuid"`
	MinOrderNo  *int      `json:"min_order_no" validate:"omitempty,min=1,max=100"`
	MaxOrderNo  *int      `json:"max_order_no" validate:"omitempty,min=1,max=100"`
}

// EditStageRequest carries partial stage updates.
type EditStageRequest struct {
	PeriodLabel *string    `json:"period_label"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	MinOrderNo  *int       `json:"min_order_no" validate:"omitempty,min=1,max=100"`
	MaxOrderNo  *int       `json:"max_order_no" validate:"omitempty,min=1,max=100"`
}

// StageService manages registration campaigns. Stage state is never stored;
// it is derived from the time window on every read.
type StageService struct {
	repo      stageRepository
	careers   careerChecker
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStageService constructs StageService.
func NewStageService(repo stageRepository, careers careerChecker, validate *validator.Validate, logger *zap.Logger) *StageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StageService{repo: repo, careers: careers, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates references and the time window, then persists the stage.
func (s *StageService) Create(ctx context.Context, req CreateStageRequest) (*models.StageDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stage payload")
	}
	exists, err := s.careers.CareerExists(ctx, req.CareerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check career")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
	}
	typeOK, err := s.repo.TypeExists(ctx, req.TypeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check stage type")
	}
	if !typeOK {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "stage type not found")
	}
	if req.StartAt.After(req.EndAt) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "")
	}

	stage := &models.RegistrationStage{
		CareerID:    req.CareerID,
		TypeID:      req.TypeID,
		PeriodLabel: req.PeriodLabel,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		CreatedBy:   req.CreatedBy,
		MinOrderNo:  req.MinOrderNo,
		MaxOrderNo:  req.MaxOrderNo,
	}
	if err := s.repo.Create(ctx, stage); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create stage")
	}
	return &models.StageDetail{RegistrationStage: *stage, State: stage.State(s.now())}, nil
}

// Edit applies a partial update, revalidating the merged time window.
func (s *StageService) Edit(ctx context.Context, id int64, req EditStageRequest) (*models.StageDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stage payload")
	}
	stage, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stage")
	}

	if req.PeriodLabel != nil {
		stage.PeriodLabel = *req.PeriodLabel
	}
	if req.StartAt != nil {
		stage.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		stage.EndAt = *req.EndAt
	}
	if req.MinOrderNo != nil {
		stage.MinOrderNo = req.MinOrderNo
	}
	if req.MaxOrderNo != nil {
		stage.MaxOrderNo = req.MaxOrderNo
	}
	if stage.StartAt.After(stage.EndAt) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "")
	}

	if err := s.repo.Update(ctx, stage); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update stage")
	}
	return &models.StageDetail{RegistrationStage: *stage, State: stage.State(s.now())}, nil
}

// Close sets the stage end to now. Closing an already-closed stage is a
// no-op in effect.
func (s *StageService) Close(ctx context.Context, id int64) (*models.StageDetail, error) {
	stage, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stage not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stage")
	}
	now := s.now()
	if err := s.repo.Close(ctx, id, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close stage")
	}
	stage.EndAt = now
	return &models.StageDetail{RegistrationStage: *stage, State: stage.State(now)}, nil
}

// List returns stages with derived state, most recent first.
func (s *StageService) List(ctx context.Context, filter models.StageFilter) ([]models.StageDetail, *models.Pagination, error) {
	now := s.now()
	stages, total, err := s.repo.List(ctx, filter, now)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stages")
	}
	details := make([]models.StageDetail, 0, len(stages))
	for _, stage := range stages {
		details = append(details, models.StageDetail{RegistrationStage: stage, State: stage.State(now)})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return details, pagination, nil
}
