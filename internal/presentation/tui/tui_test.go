package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "USSD session simulator v1.2.3")
}

func TestScreenMarkdown(t *testing.T) {
	got := ScreenMarkdown("How are you feeling?\n\n1. Feeling fine\n2. Feeling frisky\n")
	assert.Equal(t, "How are you feeling?\n\n1. Feeling fine  \n2. Feeling frisky", got)
}

func TestScreenRenderer(t *testing.T) {
	render, err := NewScreenRenderer()
	require.NoError(t, err)

	out, err := render("Why are you Not well?\n1. Money")
	require.NoError(t, err)
	assert.Contains(t, out, "Money")
}
