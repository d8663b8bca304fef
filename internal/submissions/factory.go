package submissions

import (
	"context"
	"encoding/json"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"gorm.io/datatypes"
)

// CreateGameSubmission proposes a new game, optionally with its first translation
func (s *Service) CreateGameSubmission(ctx context.Context, actorID string, game models.GameFields, translation *models.TranslationFields) (*models.Submission, error) {
	doc := map[string]any{"game": game, "translation": translation}
	return s.insert(ctx, actorID, models.SubmissionGame, nil, nil, doc)
}

// CreateGameUpdateSubmission proposes new values for an existing game
func (s *Service) CreateGameUpdateSubmission(ctx context.Context, actorID, gameID string, game models.GameFields) (*models.Submission, error) {
	doc := map[string]any{"gameId": gameID, "game": game}
	return s.insert(ctx, actorID, models.SubmissionUpdate, &gameID, nil, doc)
}

// CreateTranslationSubmission proposes a new translation for a game
func (s *Service) CreateTranslationSubmission(ctx context.Context, actorID, gameID string, translation models.TranslationFields) (*models.Submission, error) {
	doc := map[string]any{"gameId": gameID, "translation": translation}
	return s.insert(ctx, actorID, models.SubmissionTranslation, &gameID, nil, doc)
}

// CreateTranslationUpdateSubmission proposes new values for an existing translation
func (s *Service) CreateTranslationUpdateSubmission(ctx context.Context, actorID, gameID, translationID string, translation models.TranslationFields) (*models.Submission, error) {
	doc := map[string]any{"gameId": gameID, "translationId": translationID, "translation": translation}
	return s.insert(ctx, actorID, models.SubmissionTranslation, &gameID, &translationID, doc)
}

// CreateGameDeleteSubmission proposes removing a game and all of its translations
func (s *Service) CreateGameDeleteSubmission(ctx context.Context, actorID, gameID string) (*models.Submission, error) {
	doc := map[string]any{"gameId": gameID}
	return s.insert(ctx, actorID, models.SubmissionDelete, &gameID, nil, doc)
}

// CreateTranslationDeleteSubmission proposes removing one translation
func (s *Service) CreateTranslationDeleteSubmission(ctx context.Context, actorID, gameID, translationID string) (*models.Submission, error) {
	doc := map[string]any{"gameId": gameID, "translationId": translationID}
	return s.insert(ctx, actorID, models.SubmissionDelete, &gameID, &translationID, doc)
}

func (s *Service) insert(ctx context.Context, actorID string, kind models.SubmissionKind, gameID, translationID *string, doc map[string]any) (*models.Submission, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := ValidatePayload(kind, data); err != nil {
		return nil, err
	}

	sub := &models.Submission{
		UserID:        actorID,
		Status:        models.SubmissionPending,
		Kind:          kind,
		GameID:        gameID,
		TranslationID: translationID,
		Data:          datatypes.JSON(data),
	}
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}
