// Package catalog is the persistence accessor for games and their translations.
// A Repo bound to a transaction (see Transaction) scopes every call to that transaction.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"gorm.io/gorm"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrTranslationNotFound = errors.New("translation not found")
	ErrDuplicateName       = errors.New("a game with this name already exists")
)

// Repo provides GORM-based persistence for games and translations
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying handle, the transaction when the repo is tx-bound
func (r *Repo) DB() *gorm.DB { return r.db }

// Transaction runs fn with a repo bound to a single transaction
func (r *Repo) Transaction(ctx context.Context, fn func(tx *Repo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepo(tx))
	})
}

// Games

func (r *Repo) GetGame(ctx context.Context, id string) (*models.Game, error) {
	var g models.Game
	if err := r.db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrGameNotFound)
	}
	return &g, nil
}

// GetGameWithTranslations loads a game and its translations, newest first
func (r *Repo) GetGameWithTranslations(ctx context.Context, id string) (*models.Game, error) {
	var g models.Game
	err := r.db.WithContext(ctx).
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("updated_at DESC") }).
		First(&g, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrGameNotFound)
	}
	return &g, nil
}

// NameTaken reports whether another game already uses name
func (r *Repo) NameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Game{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateGame inserts g; g.ID holds the generated id afterwards
func (r *Repo) CreateGame(ctx context.Context, g *models.Game) error {
	taken, err := r.NameTaken(ctx, g.Name, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// ReplaceGame overwrites every writable column of game id
func (r *Repo) ReplaceGame(ctx context.Context, id string, f models.GameFields) error {
	taken, err := r.NameTaken(ctx, f.Name, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}
	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Updates(f.Columns())
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateName
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// DeleteGame removes every translation of the game, then the game itself
func (r *Repo) DeleteGame(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("game_id = ?", id).Delete(&models.Translation{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Game{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// ListGames returns a page of games, most recently updated first
func (r *Repo) ListGames(ctx context.Context, page, limit int) ([]models.Game, int64, error) {
	var (
		games []models.Game
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.Game{})
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("updated_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&games).Error
	return games, total, err
}

// SearchGames matches q against game names, or the thread id when q is numeric
func (r *Repo) SearchGames(ctx context.Context, q string, limit int) ([]models.Game, error) {
	q = strings.TrimSpace(q)
	var games []models.Game
	if q == "" {
		return games, nil
	}
	query := r.db.WithContext(ctx).Model(&models.Game{})
	pattern := "%" + strings.ToLower(q) + "%"
	if n, err := strconv.Atoi(q); err == nil {
		query = query.Where("LOWER(name) LIKE ? OR thread_id = ?", pattern, n)
	} else {
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	err := query.Order("name ASC").Limit(limit).Find(&games).Error
	return games, err
}

// Translations

func (r *Repo) ListTranslations(ctx context.Context, gameID string) ([]models.Translation, error) {
	var ts []models.Translation
	err := r.db.WithContext(ctx).Where("game_id = ?", gameID).Order("created_at ASC").Find(&ts).Error
	return ts, err
}

func (r *Repo) GetTranslation(ctx context.Context, id string) (*models.Translation, error) {
	var t models.Translation
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrTranslationNotFound)
	}
	return &t, nil
}

// GetGameTranslation loads translation id only if it belongs to gameID
func (r *Repo) GetGameTranslation(ctx context.Context, gameID, id string) (*models.Translation, error) {
	var t models.Translation
	if err := r.db.WithContext(ctx).First(&t, "id = ? AND game_id = ?", id, gameID).Error; err != nil {
		return nil, notFound(err, ErrTranslationNotFound)
	}
	return &t, nil
}

// FindTranslation looks a translation up by its (game, version, tversion) tuple
func (r *Repo) FindTranslation(ctx context.Context, gameID, version, tversion string) (*models.Translation, error) {
	var t models.Translation
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND version = ? AND tversion = ?", gameID, version, tversion).
		Order("created_at DESC").
		First(&t).Error
	if err != nil {
		return nil, notFound(err, ErrTranslationNotFound)
	}
	return &t, nil
}

// CreateTranslation inserts t after checking its game exists; t.ID holds the generated id afterwards
func (r *Repo) CreateTranslation(ctx context.Context, t *models.Translation) error {
	if _, err := r.GetGame(ctx, t.GameID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

// UpdateTranslation writes cols onto translation id
func (r *Repo) UpdateTranslation(ctx context.Context, id string, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Translation{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

func (r *Repo) DeleteTranslation(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Translation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
