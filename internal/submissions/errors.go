package submissions

import (
	"errors"
	"fmt"

	"github.com/Hunteraulo1/f95-france/internal/catalog"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrMissingSnapshot   = errors.New("missing snapshot, the submission was never applied")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoteRequired      = errors.New("a moderator note is required to reject a submission")
	ErrStatusChanged     = errors.New("submission status was changed by someone else")
)

// fromCatalog maps persistence errors onto the submission error taxonomy
func fromCatalog(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrGameNotFound), errors.Is(err, catalog.ErrTranslationNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, catalog.ErrDuplicateName):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
