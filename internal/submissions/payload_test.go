package submissions

import (
	"testing"

	"github.com/Hunteraulo1/f95-france/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayloadThreadID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want *models.ThreadNumber
	}{
		{"number", `{"game":{"name":"A","threadId":1234}}`, threadPtr(1234)},
		{"string", `{"game":{"name":"A","threadId":"1234"}}`, threadPtr(1234)},
		{"empty string", `{"game":{"name":"A","threadId":""}}`, threadPtr(0)},
		{"absent", `{"game":{"name":"A"}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Game.ThreadID)
		})
	}

	_, err := DecodePayload([]byte(`{"game":{"threadId":"abc"}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func threadPtr(n int) *models.ThreadNumber {
	v := models.ThreadNumber(n)
	return &v
}

func TestDecodePayloadRejectsNonObjects(t *testing.T) {
	for _, data := range []string{`null`, `[]`, `"text"`, `{`} {
		_, err := DecodePayload([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidPayload, data)
	}
}

func TestDocumentKeepsUnknownKeys(t *testing.T) {
	doc, err := decode([]byte(`{"gameId":"g1","extra":{"a":1}}`))
	require.NoError(t, err)
	require.NoError(t, doc.set("originalGame", models.GameFields{Name: "A"}))

	out, err := doc.bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"extra":{"a":1}`)
	assert.Contains(t, string(out), `"gameId":"g1"`)

	p, err := DecodePayload(out)
	require.NoError(t, err)
	assert.Equal(t, "A", p.OriginalGame.Name)
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		kind  models.SubmissionKind
		data  string
		valid bool
	}{
		{models.SubmissionGame, `{"game":{"name":"A","type":"renpy","website":"f95z","image":""},"translation":null}`, true},
		{models.SubmissionGame, `{"translation":null}`, false},
		{models.SubmissionGame, `{"game":{"name":"A","type":"renpy","website":"steam","image":""}}`, false},
		{models.SubmissionUpdate, `{"game":{"name":"A","type":"other","website":"lc","image":""}}`, false},
		{models.SubmissionTranslation, `{"gameId":"g","translation":{"version":"1","tversion":"1","status":"completed","ttype":"vf"}}`, true},
		{models.SubmissionTranslation, `{"gameId":"g","translation":{"version":"1","tversion":"1","status":"done","ttype":"vf"}}`, false},
		{models.SubmissionDelete, `{"gameId":"g","translationId":"t"}`, true},
		{models.SubmissionDelete, `{}`, false},
		{"archive", `{}`, false},
	}
	for _, tt := range tests {
		err := ValidatePayload(tt.kind, []byte(tt.data))
		if tt.valid {
			assert.NoError(t, err, tt.data)
		} else {
			assert.ErrorIs(t, err, ErrInvalidPayload, tt.data)
		}
	}
}

func TestDecideRoutingMode(t *testing.T) {
	on, off := true, false
	tests := []struct {
		role       models.Role
		preference bool
		override   *bool
		want       RoutingMode
	}{
		{models.RoleUser, true, &on, ThroughSubmission},
		{models.RoleTranslator, true, nil, ThroughSubmission},
		{models.RoleAdmin, true, nil, Direct},
		{models.RoleAdmin, false, nil, ThroughSubmission},
		{models.RoleAdmin, false, &on, Direct},
		{models.RoleSuperadmin, true, &off, ThroughSubmission},
		{models.RoleSuperadmin, true, nil, Direct},
	}
	for _, tt := range tests {
		got := DecideRoutingMode(tt.role, tt.preference, tt.override)
		assert.Equal(t, tt.want, got, "%s pref=%v", tt.role, tt.preference)
	}
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "submission", ThroughSubmission.String())
}
