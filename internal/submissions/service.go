// Package submissions implements the moderation workflow for proposed changes to
// games and translations: building pending submissions, applying them against the
// catalog, reverting them, and moving them through their status lifecycle.
package submissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier is told about status changes once they are committed
type Notifier interface {
	SubmissionStatusChanged(ctx context.Context, sub *models.Submission, from models.SubmissionStatus)
}

// Service runs submission operations against an explicit database handle
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	notifier Notifier
}

// NewService creates a Service; notifier may be nil
func NewService(db *gorm.DB, log *zap.Logger, notifier Notifier) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log, notifier: notifier}
}

func loadSubmission(ctx context.Context, tx *gorm.DB, id string) (*models.Submission, error) {
	var sub models.Submission
	if err := tx.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: submission %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &sub, nil
}

// saveData persists the merged payload on the submission row
func saveData(ctx context.Context, tx *gorm.DB, sub *models.Submission, doc *document) error {
	data, err := doc.bytes()
	if err != nil {
		return err
	}
	sub.Data = datatypes.JSON(data)
	return tx.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", sub.ID).Update("data", sub.Data).Error
}

func setReference(ctx context.Context, tx *gorm.DB, sub *models.Submission, column, value string) error {
	switch column {
	case "game_id":
		sub.GameID = &value
	case "translation_id":
		sub.TranslationID = &value
	}
	return tx.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", sub.ID).Update(column, value).Error
}
