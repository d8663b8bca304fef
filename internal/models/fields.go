package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// ThreadNumber is a forum thread id that decodes from a JSON number or a numeric string
type ThreadNumber int

// UnmarshalJSON accepts 123, "123" and "" (treated as zero)
func (n *ThreadNumber) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid thread id %q", raw)
	}
	*n = ThreadNumber(v)
	return nil
}

// GameFields holds the writable values of a game as carried in submission payloads.
// ID and the timestamps are only set on snapshots.
type GameFields struct {
	ID          string        `json:"id,omitempty"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Type        GameType      `json:"type"`
	Website     Website       `json:"website"`
	ThreadID    *ThreadNumber `json:"threadId,omitempty"`
	Tags        *string       `json:"tags,omitempty"`
	Link        *string       `json:"link,omitempty"`
	Image       string        `json:"image"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

// Normalized fills in the defaults applied to newly proposed games
func (f GameFields) Normalized() GameFields {
	if f.Type == "" {
		f.Type = GameTypeOther
	}
	if f.Website == "" {
		f.Website = WebsiteF95z
	}
	if f.ThreadID != nil && *f.ThreadID == 0 {
		f.ThreadID = nil
	}
	return f
}

// Proposed normalizes values coming from a submitter, dropping snapshot-only fields
func (f GameFields) Proposed() GameFields {
	f = f.Normalized()
	f.ID, f.CreatedAt, f.UpdatedAt = "", nil, nil
	return f
}

// Columns returns every writable game column, so an update overwrites the whole row
func (f GameFields) Columns() map[string]any {
	cols := map[string]any{
		"name":        f.Name,
		"description": f.Description,
		"type":        f.Type,
		"website":     f.Website,
		"thread_id":   nil,
		"tags":        deref(f.Tags),
		"link":        deref(f.Link),
		"image":       f.Image,
	}
	if f.ThreadID != nil && *f.ThreadID != 0 {
		cols["thread_id"] = int(*f.ThreadID)
	}
	if f.UpdatedAt != nil {
		cols["updated_at"] = *f.UpdatedAt
	}
	return cols
}

// Game builds a new row from the fields
func (f GameFields) Game() Game {
	g := Game{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Type:        f.Type,
		Website:     f.Website,
		Tags:        deref(f.Tags),
		Link:        deref(f.Link),
		Image:       f.Image,
	}
	if f.ThreadID != nil && *f.ThreadID != 0 {
		id := int(*f.ThreadID)
		g.ThreadID = &id
	}
	if f.CreatedAt != nil {
		g.CreatedAt = *f.CreatedAt
	}
	if f.UpdatedAt != nil {
		g.UpdatedAt = *f.UpdatedAt
	}
	return g
}

// Snapshot captures every field of the game, id and creation time included
func (g Game) Snapshot() GameFields {
	f := GameFields{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Type:        g.Type,
		Website:     g.Website,
		Tags:        ptr(g.Tags),
		Link:        ptr(g.Link),
		Image:       g.Image,
		CreatedAt:   ptr(g.CreatedAt),
		UpdatedAt:   ptr(g.UpdatedAt),
	}
	if g.ThreadID != nil {
		n := ThreadNumber(*g.ThreadID)
		f.ThreadID = &n
	}
	return f
}

// TranslationFields holds the writable values of a translation as carried in submission payloads
type TranslationFields struct {
	ID              string            `json:"id,omitempty"`
	TranslationName *string           `json:"translationName,omitempty"`
	Version         string            `json:"version"`
	TVersion        string            `json:"tversion"`
	Status          TranslationStatus `json:"status"`
	TType           TranslationType   `json:"ttype"`
	TName           TranslationKind   `json:"tname,omitempty"`
	TLink           string            `json:"tlink"`
	TranslatorID    *string           `json:"translatorId,omitempty"`
	ProofreaderID   *string           `json:"proofreaderId,omitempty"`
	AC              *bool             `json:"ac,omitempty"`
	CreatedAt       *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
}

// Normalized clears the link of a kind that has none. An absent kind stays absent:
// new rows default it in Translation, updates keep the row's current kind.
func (f TranslationFields) Normalized() TranslationFields {
	if f.TName != "" && !f.TName.HasLink() {
		f.TLink = ""
	}
	if f.TranslationName != nil && *f.TranslationName == "" {
		f.TranslationName = nil
	}
	return f
}

// Proposed normalizes values coming from a submitter, dropping snapshot-only fields
func (f TranslationFields) Proposed() TranslationFields {
	f = f.Normalized()
	f.ID, f.CreatedAt, f.UpdatedAt = "", nil, nil
	return f
}

// UpdateColumns returns the columns a translation update overwrites. current is the
// kind stored on the row; it decides whether the link is kept when no kind is proposed.
// Kind, translator, proofreader and the auto-check flag are only written when provided.
func (f TranslationFields) UpdateColumns(current TranslationKind) map[string]any {
	kind := f.TName
	if kind == "" {
		kind = current
	}
	link := f.TLink
	if !kind.HasLink() {
		link = ""
	}
	cols := map[string]any{
		"translation_name": f.TranslationName,
		"version":          f.Version,
		"tversion":         f.TVersion,
		"status":           f.Status,
		"ttype":            f.TType,
		"tlink":            link,
	}
	if f.TName != "" {
		cols["tname"] = f.TName
	}
	if f.TranslatorID != nil {
		cols["translator_id"] = f.TranslatorID
	}
	if f.ProofreaderID != nil {
		cols["proofreader_id"] = f.ProofreaderID
	}
	if f.AC != nil {
		cols["ac"] = *f.AC
	}
	return cols
}

// Columns returns every writable translation column, used to restore a snapshot
func (f TranslationFields) Columns() map[string]any {
	cols := map[string]any{
		"translation_name": f.TranslationName,
		"version":          f.Version,
		"tversion":         f.TVersion,
		"status":           f.Status,
		"ttype":            f.TType,
		"tname":            f.TName,
		"tlink":            f.TLink,
		"translator_id":    f.TranslatorID,
		"proofreader_id":   f.ProofreaderID,
		"ac":               f.AC != nil && *f.AC,
	}
	if f.UpdatedAt != nil {
		cols["updated_at"] = *f.UpdatedAt
	}
	return cols
}

// Translation builds a new row for the given game
func (f TranslationFields) Translation(gameID string) Translation {
	t := Translation{
		ID:              f.ID,
		GameID:          gameID,
		TranslationName: f.TranslationName,
		Status:          f.Status,
		Version:         f.Version,
		TVersion:        f.TVersion,
		TLink:           f.TLink,
		TName:           f.TName,
		TranslatorID:    f.TranslatorID,
		ProofreaderID:   f.ProofreaderID,
		TType:           f.TType,
		AC:              f.AC != nil && *f.AC,
	}
	if t.TName == "" {
		t.TName = KindNoTranslation
	}
	if !t.TName.HasLink() {
		t.TLink = ""
	}
	if f.CreatedAt != nil {
		t.CreatedAt = *f.CreatedAt
	}
	if f.UpdatedAt != nil {
		t.UpdatedAt = *f.UpdatedAt
	}
	return t
}

// Snapshot captures every field of the translation, id and creation time included
func (t Translation) Snapshot() TranslationFields {
	return TranslationFields{
		ID:              t.ID,
		TranslationName: t.TranslationName,
		Version:         t.Version,
		TVersion:        t.TVersion,
		Status:          t.Status,
		TType:           t.TType,
		TName:           t.TName,
		TLink:           t.TLink,
		TranslatorID:    t.TranslatorID,
		ProofreaderID:   t.ProofreaderID,
		AC:              ptr(t.AC),
		CreatedAt:       ptr(t.CreatedAt),
		UpdatedAt:       ptr(t.UpdatedAt),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr[T any](v T) *T {
	return &v
}
