package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing session", domain.ErrMissingSessionID, domain.CodeMissingSessionID},
		{"wrapped malformed", fmt.Errorf("dial: %w", domain.ErrMalformedInput), domain.CodeMalformedInput},
		{"choice error", &domain.ChoiceError{Screen: 2, Choice: "9"}, domain.CodeInvalidChoice},
		{"rejected", fmt.Errorf("%w: too large", domain.ErrInputRejected), domain.CodeInputRejected},
		{"not found", domain.ErrSessionNotFound, domain.CodeSessionNotFound},
		{"other", errors.New("boom"), domain.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Code(tt.err))
		})
	}
}

func TestChoiceError(t *testing.T) {
	err := fmt.Errorf("direct access: %w", &domain.ChoiceError{Screen: 1, Choice: "7"})

	var ce *domain.ChoiceError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Screen)
	assert.Equal(t, "7", ce.Choice)
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
	assert.Contains(t, err.Error(), `invalid choice "7" on screen 1`)
}
