package repository

import (
	"context"
	"time"

	"github.com/brahdyssey/itimeline-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormReports struct{ db *gorm.DB }

func (r *gormReports) Create(ctx context.Context, t *models.ReportTicket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *gormReports) Get(ctx context.Context, id uuid.UUID) (*models.ReportTicket, error) {
	var t models.ReportTicket
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *gormReports) Update(ctx context.Context, t *models.ReportTicket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// AssignIfUnassigned implements first-acceptor-wins without locking: the
// UPDATE only matches while the ticket is still unassigned and acceptable.
func (r *gormReports) AssignIfUnassigned(ctx context.Context, id, moderator uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ReportTicket{}).
		Where("id = ? AND assigned_to IS NULL AND status IN ?", id,
			[]string{models.ReportStatusPending, models.ReportStatusEscalated}).
		Updates(map[string]interface{}{
			"status":      models.ReportStatusReviewing,
			"assigned_to": moderator,
			"updated_at":  now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// scope applies the filter's scope (one timeline, or the site queue union)
// to a report_tickets query.
func (r *gormReports) scope(q *gorm.DB, f ReportFilter) *gorm.DB {
	if f.SiteQueue {
		publicTimelines := r.db.Model(&models.Timeline{}).
			Select("id").
			Where("visibility = ?", models.VisibilityPublic)
		return q.Where("status = ? OR report_type IN ? OR timeline_id IN (?)",
			models.ReportStatusEscalated,
			[]string{models.ReportTypeUser, models.ReportTypeTimeline},
			publicTimelines)
	}
	if f.TimelineID != nil {
		return q.Where("timeline_id = ?", *f.TimelineID)
	}
	return q
}

func (r *gormReports) List(ctx context.Context, f ReportFilter) ([]models.ReportTicket, int64, error) {
	q := r.scope(r.db.WithContext(ctx).Model(&models.ReportTicket{}), f)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ReportType != "" {
		q = q.Where("report_type = ?", f.ReportType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var tickets []models.ReportTicket
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&tickets).Error
	return tickets, total, err
}

func (r *gormReports) CountByStatus(ctx context.Context, f ReportFilter) (map[string]int64, error) {
	counts := map[string]int64{
		models.ReportStatusPending:   0,
		models.ReportStatusReviewing: 0,
		models.ReportStatusResolved:  0,
	}
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.scope(r.db.WithContext(ctx).Model(&models.ReportTicket{}), f).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		if _, ok := counts[rw.Status]; ok {
			counts[rw.Status] = rw.N
		}
	}
	return counts, nil
}
