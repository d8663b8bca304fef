package submissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ValidateStatusChange checks a moderation request before UpdateStatus runs it
func ValidateStatusChange(to models.SubmissionStatus, notes string) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if to == models.SubmissionRejected && strings.TrimSpace(notes) == "" {
		return ErrNoteRequired
	}
	return nil
}

// UpdateStatus moves a submission to status to, running the applier or the
// reverter when the transition requires it. The status write is a compare-and-swap
// on the status read at the start, and it shares one transaction with the data
// mutation, so a failed apply or revert leaves the submission where it was.
func (s *Service) UpdateStatus(ctx context.Context, submissionID string, to models.SubmissionStatus, notes string) (*models.Submission, error) {
	var (
		sub  *models.Submission
		from models.SubmissionStatus
	)
	var notesVal *string
	if n := strings.TrimSpace(notes); n != "" {
		notesVal = &n
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sub, err = loadSubmission(ctx, tx, submissionID); err != nil {
			return err
		}
		from = sub.Status

		if from == to {
			if notesVal == nil {
				return nil
			}
			sub.AdminNotes = notesVal
			return tx.Model(&models.Submission{}).Where("id = ?", sub.ID).Update("admin_notes", notesVal).Error
		}
		if to == models.SubmissionPending {
			return fmt.Errorf("%w: %s submissions cannot go back to pending", ErrInvalidTransition, from)
		}

		if err := swapStatus(tx, sub.ID, from, to, notesVal); err != nil {
			return err
		}
		sub.Status, sub.AdminNotes = to, notesVal

		switch {
		case to == models.SubmissionAccepted:
			if err := apply(ctx, tx, sub); err != nil {
				return err
			}
			return adjustAuthorCounters(tx, sub, 1)
		case from == models.SubmissionAccepted:
			if err := revert(ctx, tx, sub); err != nil {
				return err
			}
			return adjustAuthorCounters(tx, sub, -1)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("submission status change failed",
			zap.String("submission_id", submissionID),
			zap.String("to", string(to)),
			zap.Error(err))
		return nil, err
	}

	if from != to {
		s.log.Info("submission status changed",
			zap.String("submission_id", sub.ID),
			zap.String("type", string(sub.Kind)),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		if s.notifier != nil {
			s.notifier.SubmissionStatusChanged(ctx, sub, from)
		}
	}
	return sub, nil
}

// swapStatus writes the new status only if the row still holds the expected one
func swapStatus(tx *gorm.DB, id string, from, to models.SubmissionStatus, notes *string) error {
	res := tx.Model(&models.Submission{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "admin_notes": notes})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

// adjustAuthorCounters keeps the submitter's added/edited game counters in step
// with accepted game creations and updates
func adjustAuthorCounters(tx *gorm.DB, sub *models.Submission, delta int) error {
	var column string
	switch sub.Kind {
	case models.SubmissionGame:
		column = "game_add"
	case models.SubmissionUpdate:
		column = "game_edit"
	default:
		return nil
	}
	expr := gorm.Expr(column + " + 1")
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
	}
	return tx.Model(&models.User{}).Where("id = ?", sub.UserID).Update(column, expr).Error
}
