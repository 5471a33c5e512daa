package repository

import (
	"context"
	"time"

	"findtogether/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportRepository defines data operations for the global reports view.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListAll(ctx context.Context) ([]*models.Report, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create persists a standalone report (no parent post).
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(report).Error
}

// ListAll returns every report regardless of parent, newest first.
// Feeds the heat-map style aggregate view.
func (r *reportRepository) ListAll(ctx context.Context) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	return reports, nil
}
