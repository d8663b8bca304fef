package submissions

import (
	"context"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"gorm.io/gorm"
)

// Filter narrows a submission listing. Empty fields match everything.
type Filter struct {
	UserID string
	Status models.SubmissionStatus
	Page   int
	Limit  int
}

// Get loads one submission with its author
func (s *Service) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := loadSubmission(ctx, s.db.Preload("User"), id)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// List returns a page of submissions, newest first, and the total matching count
func (s *Service) List(ctx context.Context, f Filter) ([]models.Submission, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Submission{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var subs []models.Submission
	err := q.Preload("User").Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&subs).Error
	return subs, total, err
}

// CountByStatus returns how many submissions are in each status, optionally for one user
func (s *Service) CountByStatus(ctx context.Context, userID string) (map[models.SubmissionStatus]int64, error) {
	var rows []struct {
		Status models.SubmissionStatus
		Count  int64
	}
	q := s.db.WithContext(ctx).Model(&models.Submission{}).Select("status, COUNT(*) AS count").Group("status")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[models.SubmissionStatus]int64{
		models.SubmissionPending:  0,
		models.SubmissionAccepted: 0,
		models.SubmissionRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
