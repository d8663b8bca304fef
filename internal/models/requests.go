package models

import "strings"

// GameRequest represents the request body for creating or editing a game
type GameRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description *string             `json:"description"`
	Type        GameType            `json:"type" binding:"omitempty,oneof=renpy rpgm unity unreal flash html qsp other"`
	Website     Website             `json:"website" binding:"omitempty,oneof=f95z lc other"`
	ThreadID    *ThreadNumber       `json:"thread_id"`
	Tags        *string             `json:"tags"`
	Link        *string             `json:"link"`
	Image       string              `json:"image" binding:"required"`
	Translation *TranslationRequest `json:"translation"` // create only
	DirectMode  *bool               `json:"direct_mode"`
}

// Fields converts the request into payload fields
func (r GameRequest) Fields() GameFields {
	f := GameFields{
		Name:        strings.TrimSpace(r.Name),
		Description: trimmed(r.Description),
		Type:        r.Type,
		Website:     r.Website,
		ThreadID:    r.ThreadID,
		Tags:        trimmed(r.Tags),
		Link:        trimmed(r.Link),
		Image:       strings.TrimSpace(r.Image),
	}
	return f.Normalized()
}

// TranslationRequest represents the request body for creating or editing a translation
type TranslationRequest struct {
	TranslationName *string           `json:"translation_name"`
	Version         string            `json:"version" binding:"required"`
	TVersion        string            `json:"tversion" binding:"required"`
	Status          TranslationStatus `json:"status" binding:"required,oneof=in_progress completed abandoned"`
	TType           TranslationType   `json:"ttype" binding:"required,oneof=auto vf manual semi-auto to_tested hs"`
	TName           TranslationKind   `json:"tname" binding:"omitempty,oneof=no_translation integrated translation translation_with_mods"`
	TLink           string            `json:"tlink"`
	TranslatorID    *string           `json:"translator_id"`
	ProofreaderID   *string           `json:"proofreader_id"`
	AC              *bool             `json:"ac"`
	DirectMode      *bool             `json:"direct_mode"`
}

// Fields converts the request into payload fields
func (r TranslationRequest) Fields() TranslationFields {
	f := TranslationFields{
		TranslationName: trimmed(r.TranslationName),
		Version:         strings.TrimSpace(r.Version),
		TVersion:        strings.TrimSpace(r.TVersion),
		Status:          r.Status,
		TType:           r.TType,
		TName:           r.TName,
		TLink:           strings.TrimSpace(r.TLink),
		TranslatorID:    r.TranslatorID,
		ProofreaderID:   r.ProofreaderID,
		AC:              r.AC,
	}
	return f.Normalized()
}

// StatusUpdateRequest represents a moderation decision on a submission
type StatusUpdateRequest struct {
	Status SubmissionStatus `json:"status" binding:"required,oneof=pending accepted rejected"`
	Notes  string           `json:"notes"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
