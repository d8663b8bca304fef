// Package jobs runs the periodic housekeeping of the service.
package jobs

import (
	"context"
	"time"

	"github.com/Hunteraulo1/f95-france/internal/auth"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler owns the cron runner and the jobs registered on it
type Scheduler struct {
	cron          *cron.Cron
	db            *gorm.DB
	sessions      *auth.Sessions
	retentionDays int
	log           *zap.Logger
}

// New registers the housekeeping jobs; call Start to run them
func New(db *gorm.DB, sessions *auth.Sessions, retentionDays int, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		db:            db,
		sessions:      sessions,
		retentionDays: retentionDays,
		log:           log,
	}

	if _, err := s.cron.AddFunc("@hourly", func() {
		if _, err := s.PurgeSessions(context.Background()); err != nil {
			s.log.Error("session purge failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}

	// api log retention at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		if _, err := s.PurgeAPILogs(context.Background(), time.Now()); err != nil {
			s.log.Error("api log purge failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PurgeSessions deletes expired login sessions
func (s *Scheduler) PurgeSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.PurgeExpired(ctx)
	if err == nil && n > 0 {
		s.log.Info("expired sessions purged", zap.Int64("sessions_deleted", n))
	}
	return n, err
}

// PurgeAPILogs deletes api logs older than the retention window. A
// non-positive retention keeps everything.
func (s *Scheduler) PurgeAPILogs(ctx context.Context, now time.Time) (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -s.retentionDays)
	res := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.APILog{})
	if res.Error != nil {
		return 0, res.Error
	}
	s.log.Info("api logs purged", zap.Int64("logs_deleted", res.RowsAffected), zap.Time("cutoff", cutoff))
	return res.RowsAffected, nil
}
