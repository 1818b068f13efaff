package dial_test

import (
	"testing"

	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"1", []string{"1"}},
		{"*920*1806#", []string{"920", "1806"}},
		{"*920*1806*2#", []string{"920", "1806", "2"}},
		{"920**1806*1*3#", []string{"920", "1806", "1", "3"}},
		{"*#", []string{}},
		{"***", []string{}},
		{"2#", []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, dial.Tokens(tt.input))
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	in := "*920*1806*1#"
	assert.Equal(t, dial.Tokens(in), dial.Tokens(in))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		firstContact bool
		wantMode     dial.Mode
		wantChoices  []string
	}{
		{"single choice", "2", false, dial.ModeContinue, []string{"2"}},
		{"single token on first contact", "2", true, dial.ModeFresh, nil},
		{"access code", "*920*1806#", false, dial.ModeFresh, nil},
		{"access code on first contact", "*920*1806#", true, dial.ModeFresh, nil},
		{"direct access", "*920*1806*2#", false, dial.ModeDirectAccess, []string{"2"}},
		{"direct access on first contact", "*920*1806*2#", true, dial.ModeDirectAccess, []string{"2"}},
		{"auto summary", "*920*1806*1*3#", false, dial.ModeAutoSummary, []string{"1", "3"}},
		{"empty", "", false, dial.ModeMalformed, nil},
		{"empty on first contact", "", true, dial.ModeMalformed, nil},
		{"five tokens", "*920*1806*1*3*2#", false, dial.ModeMalformed, nil},
		{"wrong access code", "*921*1806#", false, dial.ModeMalformed, nil},
		{"wrong prefix direct", "*111*1806*2#", false, dial.ModeMalformed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := dial.Parse(tt.text, tt.firstContact, nil)
			assert.Equal(t, tt.wantMode, entry.Mode, "mode for %q", tt.text)
			assert.Equal(t, tt.wantChoices, entry.Choices)
		})
	}
}

func TestClassify_CustomAccessCode(t *testing.T) {
	code := dial.ParseAccessCode("*384*57#")
	assert.Equal(t, []string{"384", "57"}, code)

	assert.Equal(t, dial.ModeFresh, dial.Parse("*384*57#", false, code).Mode)
	assert.Equal(t, dial.ModeMalformed, dial.Parse("*920*1806#", false, code).Mode)
	assert.Equal(t, dial.ModeDirectAccess, dial.Parse("*384*57*1#", false, code).Mode)
}

func TestValidateAccessCode(t *testing.T) {
	assert.NoError(t, dial.ValidateAccessCode(dial.DefaultAccessCode))
	assert.NoError(t, dial.ValidateAccessCode(dial.ParseAccessCode("*384*57#")))

	err := dial.ValidateAccessCode(dial.ParseAccessCode("*920#"))
	assert.ErrorIs(t, err, dial.ErrAccessCode)
	assert.ErrorContains(t, err, "at least 2 segments")

	assert.ErrorIs(t, dial.ValidateAccessCode(dial.ParseAccessCode("*#")), dial.ErrAccessCode)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "direct_access", dial.ModeDirectAccess.String())
	assert.Equal(t, "auto_summary", dial.ModeAutoSummary.String())
	assert.Equal(t, "unknown", dial.Mode(42).String())
}
