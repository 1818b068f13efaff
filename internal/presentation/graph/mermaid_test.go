package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/dialcode/internal/presentation/graph"
	"github.com/aretw0/dialcode/pkg/dial"
	"github.com/aretw0/dialcode/pkg/menu"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(menu.Default(), dial.DefaultAccessCode, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	for _, want := range []string{
		`dial(("*920*1806#"))`,
		`screen1[/"How are you feeling?"/]`,
		`screen2[/"Why are you {feeling}?"/]`,
		`summary["You are {feeling} {reason}."]`,
		`dial --> screen1`,
		`screen1 -- "2: Feeling frisky" --> screen2`,
		`screen2 -- "3: A lot" --> summary`,
		`dial -. "*920*1806*N#" .-> screen2`,
		`dial -. "*920*1806*N*N#" .-> summary`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(menu.Default(), dial.DefaultAccessCode, &graph.GraphOverlay{
		CurrentScreen: 2,
		Answered:      []int{1, 1, 7},
	})

	assert.Contains(t, out, "class screen2 current;")
	assert.Equal(t, 1, strings.Count(out, "class screen1 visited;"))
	assert.NotContains(t, out, "screen7")
}

func TestGenerateMermaid_EscapesQuotes(t *testing.T) {
	m := &menu.Menu{
		Screens: []menu.Screen{{
			Field:    "pick",
			Question: `Say "hi"`,
			Options:  []menu.Option{{Key: "1", Label: "ok", Value: "ok"}},
		}},
		Summary: "{pick}",
	}
	out := graph.GenerateMermaid(m, []string{"1"}, nil)
	assert.Contains(t, out, `screen1[/"Say 'hi'"/]`)
	assert.Contains(t, out, `dial -. "*1*N#" .-> summary`)
}

func TestGenerateMarkdown(t *testing.T) {
	out := graph.GenerateMarkdown(menu.Default(), []string{"920", "1806"})

	assert.Contains(t, out, "Dial `*920*1806#` to start.")
	assert.Contains(t, out, "## Screen 1: How are you feeling?")
	assert.Contains(t, out, `| 1 | Money | reason = "because of money" |`)
	assert.Contains(t, out, "`You are {feeling} {reason}.`")
	assert.Contains(t, out, "- `*920*1806*N*N#` answers 2 screen(s) and shows the summary")
}
