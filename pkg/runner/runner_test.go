package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/dialcode"
	"github.com/aretw0/dialcode/internal/dto"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("sim-%d", n)
	}
}

func newEngine(t *testing.T) *dialcode.Engine {
	t.Helper()
	eng, err := dialcode.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestRunner_StepByStep(t *testing.T) {
	eng := newEngine(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("*920*1806#\n1\n2\nexit\n"), out)),
		runner.WithSubscriber("acme", "233240000000"),
		runner.WithSessionIDs(sequentialIDs()),
	)
	require.NoError(t, r.Run(context.Background(), eng))

	got := out.String()
	assert.Contains(t, got, "Welcome to acme USSD Application.")
	assert.Contains(t, got, "Why are you Feeling fine?")
	assert.Contains(t, got, "You are Feeling fine because of relationship.")
	assert.Contains(t, got, "[System] Session ended.")

	ids, err := eng.Sessions().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "completed session is removed")
}

func TestRunner_ErrorClosesSession(t *testing.T) {
	eng := newEngine(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("1*2*3*4*5*6\n*920*1806*3*1#\n"), out)),
		runner.WithSessionIDs(sequentialIDs()),
	)
	require.NoError(t, r.Run(context.Background(), eng))

	got := out.String()
	assert.Contains(t, got, "Session closed (malformed_input)")
	assert.Contains(t, got, "You are Not well because of money.")
}

func TestRunner_Renderer(t *testing.T) {
	eng := newEngine(t)
	out := &bytes.Buffer{}

	h := runner.NewTextHandler(strings.NewReader("*920*1806#\n"), out,
		runner.WithTextHandlerRenderer(func(s string) (string, error) { return "<<" + s + ">>", nil }),
		runner.WithTextHandlerPrompt("ussd> "),
	)
	r := runner.NewRunner(runner.WithInputHandler(h))
	require.NoError(t, r.Run(context.Background(), eng))

	assert.Contains(t, out.String(), "<<Welcome to dialcode USSD Application.")
	assert.True(t, strings.HasPrefix(out.String(), "ussd> "))
}

func TestRunner_RejectedInputIsReported(t *testing.T) {
	eng := newEngine(t)
	out := &bytes.Buffer{}

	long := strings.Repeat("1", 500)
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(long+"\n*920*1806#\n"), out)))
	require.NoError(t, r.Run(context.Background(), eng))

	got := out.String()
	assert.Contains(t, got, "Please try again.")
	assert.Contains(t, got, "How are you feeling?")
}

func TestRunner_CancelledContext(t *testing.T) {
	eng := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("*920*1806#\n"), &bytes.Buffer{})))
	assert.NoError(t, r.Run(ctx, eng))
}

func TestRunner_JSONHandler(t *testing.T) {
	eng := newEngine(t)
	out := &bytes.Buffer{}

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader("\"*920*1806*2#\"\n1\n"), out)),
		runner.WithSubscriber("acme", "233"),
	)
	require.NoError(t, r.Run(context.Background(), eng))

	var lines []map[string]any
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 3)

	var first dto.GatewayResponse
	raw, _ := json.Marshal(lines[0])
	require.NoError(t, json.Unmarshal(raw, &first))
	assert.True(t, first.MsgType)
	assert.Equal(t, "Why are you Feeling frisky?\n1. Money\n2. Relationship\n3. A lot", first.Message)
	assert.Equal(t, "acme", first.UserID)

	assert.Equal(t, "You are Feeling frisky because of money.", lines[1]["MSG"])
	assert.Equal(t, false, lines[1]["MSGTYPE"])
	assert.Contains(t, lines[2]["system"], "Session ended")
}

type failingEngine struct{}

func (failingEngine) Handle(ctx context.Context, req domain.Request) (domain.Response, error) {
	return domain.Response{}, fmt.Errorf("backend down")
}

func TestRunner_EngineFailureKeepsLooping(t *testing.T) {
	out := &bytes.Buffer{}
	r := runner.NewRunner(runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("1\n2\n"), out)))
	require.NoError(t, r.Run(context.Background(), failingEngine{}))

	assert.Equal(t, 2, strings.Count(out.String(), "Session closed (internal)"))
}
