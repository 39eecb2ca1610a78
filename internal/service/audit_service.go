package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/federicowoodward/siaade-api/internal/models"
	appErrors "github.com/federicowoodward/siaade-api/pkg/errors"
)

type auditReader interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.InscriptionAudit, int, error)
}

// AuditService exposes the read side of the enrollment audit trail.
type AuditService struct {
	repo   auditReader
	logger *zap.Logger
}

// NewAuditService constructs AuditService.
func NewAuditService(repo auditReader, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit rows newest first.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.InscriptionAudit, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	audits, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit trail")
	}
	return audits, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}
