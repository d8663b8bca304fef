package submissions

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// Payload is the decoded submission data. Which fields are set depends on the submission kind.
type Payload struct {
	GameID               string                     `json:"gameId,omitempty"`
	TranslationID        string                     `json:"translationId,omitempty"`
	Game                 *models.GameFields         `json:"game,omitempty"`
	Translation          *models.TranslationFields  `json:"translation,omitempty"`
	OriginalGame         *models.GameFields         `json:"originalGame,omitempty"`
	OriginalTranslation  *models.TranslationFields  `json:"originalTranslation,omitempty"`
	OriginalTranslations []models.TranslationFields `json:"originalTranslations,omitempty"`
}

// document keeps the raw keys next to the decoded view so that merging a
// snapshot never drops keys this version does not know about
type document struct {
	Payload
	raw map[string]json.RawMessage
}

// DecodePayload parses submission data
func DecodePayload(data []byte) (*Payload, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &doc.Payload, nil
}

func decode(data []byte) (*document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrInvalidPayload)
	}
	doc := &document{raw: raw}
	if err := json.Unmarshal(data, &doc.Payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return doc, nil
}

func (d *document) set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	d.raw[key] = b
	return nil
}

func (d *document) bytes() ([]byte, error) {
	return json.Marshal(d.raw)
}

const definitions = `
"definitions": {
  "game": {
    "type": "object",
    "required": ["name", "type", "website", "image"],
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "description": {"type": ["string", "null"]},
      "type": {"enum": ["renpy", "rpgm", "unity", "unreal", "flash", "html", "qsp", "other"]},
      "website": {"enum": ["f95z", "lc", "other"]},
      "threadId": {"type": ["integer", "string", "null"]},
      "tags": {"type": ["string", "null"]},
      "link": {"type": ["string", "null"]},
      "image": {"type": "string"}
    }
  },
  "translation": {
    "type": "object",
    "required": ["version", "tversion", "status", "ttype"],
    "properties": {
      "translationName": {"type": ["string", "null"]},
      "version": {"type": "string"},
      "tversion": {"type": "string"},
      "status": {"enum": ["in_progress", "completed", "abandoned"]},
      "ttype": {"enum": ["auto", "vf", "manual", "semi-auto", "to_tested", "hs"]},
      "tname": {"enum": ["no_translation", "integrated", "translation", "translation_with_mods"]},
      "tlink": {"type": ["string", "null"]},
      "translatorId": {"type": ["string", "null"]},
      "proofreaderId": {"type": ["string", "null"]},
      "ac": {"type": ["boolean", "null"]}
    }
  }
}`

var kindSchemas = map[models.SubmissionKind]string{
	models.SubmissionGame: `{
  "type": "object",
  "required": ["game"],
  "properties": {
    "game": {"$ref": "#/definitions/game"},
    "translation": {"anyOf": [{"type": "null"}, {"$ref": "#/definitions/translation"}]}
  },` + definitions + `}`,
	models.SubmissionUpdate: `{
  "type": "object",
  "required": ["gameId", "game"],
  "properties": {
    "gameId": {"type": "string", "minLength": 1},
    "game": {"$ref": "#/definitions/game"}
  },` + definitions + `}`,
	models.SubmissionTranslation: `{
  "type": "object",
  "required": ["gameId", "translation"],
  "properties": {
    "gameId": {"type": "string", "minLength": 1},
    "translationId": {"type": "string", "minLength": 1},
    "translation": {"$ref": "#/definitions/translation"}
  },` + definitions + `}`,
	models.SubmissionDelete: `{
  "type": "object",
  "required": ["gameId"],
  "properties": {
    "gameId": {"type": "string", "minLength": 1},
    "translationId": {"type": "string", "minLength": 1}
  },` + definitions + `}`,
}

var (
	compileOnce sync.Once
	compiled    map[models.SubmissionKind]*gojsonschema.Schema
	compileErr  error
)

func schemas() (map[models.SubmissionKind]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[models.SubmissionKind]*gojsonschema.Schema, len(kindSchemas))
		for kind, src := range kindSchemas {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", kind, err)
				return
			}
			compiled[kind] = s
		}
	})
	return compiled, compileErr
}

// ValidatePayload checks that data has the shape required by kind
func ValidatePayload(kind models.SubmissionKind, data []byte) error {
	all, err := schemas()
	if err != nil {
		return err
	}
	schema, ok := all[kind]
	if !ok {
		return fmt.Errorf("%w: unknown submission type %q", ErrInvalidPayload, kind)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}
	return nil
}
