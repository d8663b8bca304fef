package submissions

import (
	"context"
	"fmt"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
	"github.com/Hunteraulo1/f95-france/internal/models"

	"gorm.io/gorm"
)

// Apply performs the change proposed by a submission in a single transaction.
// It does not touch the submission status; see UpdateStatus.
func (s *Service) Apply(ctx context.Context, submissionID string) (*models.Submission, error) {
	var sub *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if sub, err = loadSubmission(ctx, tx, submissionID); err != nil {
			return err
		}
		return apply(ctx, tx, sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// apply dispatches on the submission kind. Every branch that overwrites or
// deletes rows writes its snapshot into the payload first.
func apply(ctx context.Context, tx *gorm.DB, sub *models.Submission) error {
	doc, err := decode(sub.Data)
	if err != nil {
		return err
	}
	if err := ValidatePayload(sub.Kind, sub.Data); err != nil {
		return err
	}
	repo := catalog.NewRepo(tx)

	switch sub.Kind {
	case models.SubmissionGame:
		return applyGameCreate(ctx, tx, repo, sub, doc)
	case models.SubmissionUpdate:
		return applyGameUpdate(ctx, tx, repo, sub, doc)
	case models.SubmissionTranslation:
		return applyTranslation(ctx, tx, repo, sub, doc)
	case models.SubmissionDelete:
		return applyDelete(ctx, tx, repo, sub, doc)
	}
	return fmt.Errorf("%w: unknown submission type %q", ErrInvalidPayload, sub.Kind)
}

func applyGameCreate(ctx context.Context, tx *gorm.DB, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	if doc.Game == nil {
		return fmt.Errorf("%w: game values missing", ErrInvalidPayload)
	}
	fields := doc.Game.Proposed()

	taken, err := repo.NameTaken(ctx, fields.Name, "")
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: a game named %q already exists", ErrConflict, fields.Name)
	}

	game := fields.Game()
	if err := repo.CreateGame(ctx, &game); err != nil {
		return fromCatalog(err)
	}

	if t := doc.Translation; t != nil && t.TranslationName != nil && *t.TranslationName != "" {
		tr := t.Proposed().Translation(game.ID)
		tr.TranslatorID = &sub.UserID
		if err := repo.CreateTranslation(ctx, &tr); err != nil {
			return fromCatalog(err)
		}
	}

	return setReference(ctx, tx, sub, "game_id", game.ID)
}

func applyGameUpdate(ctx context.Context, tx *gorm.DB, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	if sub.GameID == nil {
		return fmt.Errorf("%w: game update without a target game", ErrInvalidRequest)
	}
	if doc.Game == nil {
		return fmt.Errorf("%w: game values missing", ErrInvalidPayload)
	}

	current, err := repo.GetGame(ctx, *sub.GameID)
	if err != nil {
		return fromCatalog(err)
	}
	if err := doc.set("originalGame", current.Snapshot()); err != nil {
		return err
	}
	if err := saveData(ctx, tx, sub, doc); err != nil {
		return err
	}

	return fromCatalog(repo.ReplaceGame(ctx, current.ID, doc.Game.Proposed()))
}

// applyTranslation creates or updates a translation. The payload's translationId
// marks an update; the submission's translation reference is also filled in
// after a create, so it cannot serve that purpose.
func applyTranslation(ctx context.Context, tx *gorm.DB, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	if sub.GameID == nil {
		return fmt.Errorf("%w: translation without a target game", ErrInvalidRequest)
	}
	if doc.Translation == nil {
		return fmt.Errorf("%w: translation values missing", ErrInvalidPayload)
	}
	fields := doc.Translation.Proposed()

	if doc.TranslationID != "" {
		current, err := repo.GetTranslation(ctx, doc.TranslationID)
		if err != nil {
			return fromCatalog(err)
		}
		if err := doc.set("originalTranslation", current.Snapshot()); err != nil {
			return err
		}
		if err := saveData(ctx, tx, sub, doc); err != nil {
			return err
		}
		return fromCatalog(repo.UpdateTranslation(ctx, current.ID, fields.UpdateColumns(current.TName)))
	}

	tr := fields.Translation(*sub.GameID)
	tr.TranslatorID = &sub.UserID
	if err := repo.CreateTranslation(ctx, &tr); err != nil {
		return fromCatalog(err)
	}
	return setReference(ctx, tx, sub, "translation_id", tr.ID)
}

func applyDelete(ctx context.Context, tx *gorm.DB, repo *catalog.Repo, sub *models.Submission, doc *document) error {
	switch {
	case sub.TranslationID != nil:
		if sub.GameID == nil {
			return fmt.Errorf("%w: translation delete without a target game", ErrInvalidRequest)
		}
		current, err := repo.GetGameTranslation(ctx, *sub.GameID, *sub.TranslationID)
		if err != nil {
			return fromCatalog(err)
		}
		if err := doc.set("originalTranslation", current.Snapshot()); err != nil {
			return err
		}
		if err := saveData(ctx, tx, sub, doc); err != nil {
			return err
		}
		return fromCatalog(repo.DeleteTranslation(ctx, current.ID))

	case sub.GameID != nil:
		game, err := repo.GetGame(ctx, *sub.GameID)
		if err != nil {
			return fromCatalog(err)
		}
		translations, err := repo.ListTranslations(ctx, game.ID)
		if err != nil {
			return err
		}
		snapshots := make([]models.TranslationFields, 0, len(translations))
		for _, t := range translations {
			snapshots = append(snapshots, t.Snapshot())
		}
		if err := doc.set("originalGame", game.Snapshot()); err != nil {
			return err
		}
		if err := doc.set("originalTranslations", snapshots); err != nil {
			return err
		}
		if err := saveData(ctx, tx, sub, doc); err != nil {
			return err
		}
		return fromCatalog(repo.DeleteGame(ctx, game.ID))
	}
	return fmt.Errorf("%w: delete without a game or translation reference", ErrInvalidRequest)
}
