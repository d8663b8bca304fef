package submissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"gorm.io/gorm"
)

// Revert undoes a previously applied submission in a single transaction, using
// the snapshot written by Apply. It does not touch the submission status.
func (s *Service) Revert(ctx context.Context, submissionID string) (*models.Submission, error) {
	var sub *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sub, err = loadSubmission(ctx, tx, submissionID); err != nil {
			return err
		}
		return revert(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func revert(ctx context.Context, tx *gorm.DB, sub *models.Submission) error {
	doc, err := decode(sub.Data)
	if err != nil {
		return err
	}
	repo := catalog.NewRepo(tx)

	switch sub.Kind {
	case models.SubmissionGame:
		return revertGameCreate(ctx, repo, sub)
	case models.SubmissionUpdate:
		return revertGameUpdate(ctx, repo, sub, doc)
	case models.SubmissionTranslation:
		return revertTranslation(ctx, repo, sub, doc)
	case models.SubmissionDelete:
		return revertDelete(ctx, repo, sub, doc)
	}
	return fmt.Errorf("%w: unknown submission type %q", ErrInvalidPayload, sub.Kind)
}

// revertGameCreate discards the created game and its translations. A game that
// is already gone is not an error.
func revertGameCreate(ctx context.Context, repo *catalog.Repo, sub *models.Submission) error {
	if sub.GameID == nil {
		return fmt.Errorf("%w: game creation was never applied", ErrMissingSnapshot)
	}
	err := repo.DeleteGame(ctx, *sub.GameID)
	if errors.Is(err, catalog.ErrGameNotFound) {
		return nil
	}
	return err
}

func revertGameUpdate(ctx context.Context, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	if doc.OriginalGame == nil {
		return ErrMissingSnapshot
	}
	if sub.GameID == nil {
		return fmt.Errorf("%w: game update without a target game", ErrInvalidRequest)
	}
	return fromCatalog(repo.ReplaceGame(ctx, *sub.GameID, *doc.OriginalGame))
}

func revertTranslation(ctx context.Context, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	if doc.TranslationID != "" {
		if doc.OriginalTranslation == nil {
			return ErrMissingSnapshot
		}
		return fromCatalog(repo.UpdateTranslation(ctx, doc.TranslationID, doc.OriginalTranslation.Columns()))
	}

	// created translation: delete it, tolerating rows already removed by someone else
	var err error
	switch {
	case sub.TranslationID != nil:
		err = repo.DeleteTranslation(ctx, *sub.TranslationID)
	case sub.GameID != nil && doc.Translation != nil:
		var found *models.Translation
		found, err = repo.FindTranslation(ctx, *sub.GameID, doc.Translation.Version, doc.Translation.TVersion)
		if err == nil {
			err = repo.DeleteTranslation(ctx, found.ID)
		}
	default:
		return fmt.Errorf("%w: translation values missing", ErrInvalidPayload)
	}
	if errors.Is(err, catalog.ErrTranslationNotFound) {
		return nil
	}
	return err
}

func revertDelete(ctx context.Context, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	switch {
	case sub.TranslationID != nil:
		if doc.OriginalTranslation == nil {
			return ErrMissingSnapshot
		}
		if sub.GameID == nil {
			return fmt.Errorf("%w: translation delete without a target game", ErrInvalidRequest)
		}
		tr := doc.OriginalTranslation.Translation(*sub.GameID)
		if tr.ID == "" {
			tr.ID = *sub.TranslationID
		}
		return fromCatalog(repo.CreateTranslation(ctx, &tr))

	case sub.GameID != nil:
		if doc.OriginalGame == nil {
			return ErrMissingSnapshot
		}
		game := doc.OriginalGame.Game()
		game.ID = *sub.GameID
		if err := repo.CreateGame(ctx, &game); err != nil {
			return fromCatalog(err)
		}
		for _, snap := range doc.OriginalTranslations {
			tr := snap.Translation(game.ID)
			if err := repo.CreateTranslation(ctx, &tr); err != nil {
				return fromCatalog(err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: delete without a game or translation reference", ErrInvalidRequest)
}
