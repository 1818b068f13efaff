package runtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/dialcode/internal/runtime"
	"github.com/aretw0/dialcode/pkg/adapters/memory"
	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/aretw0/dialcode/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	welcome = "Welcome to 920 USSD Application.\nHow are you feeling?\n\n1. Feeling fine\n2. Feeling frisky\n3. Not well"
	screen1 = "How are you feeling?\n\n1. Feeling fine\n2. Feeling frisky\n3. Not well"
)

func newEngine(t *testing.T, opts ...runtime.EngineOption) (*runtime.Engine, *session.Manager) {
	t.Helper()
	mgr := session.NewManager(memory.NewStore())
	return runtime.NewEngine(mgr, opts...), mgr
}

func req(sessionID, data string, first bool) domain.Request {
	return domain.Request{
		UserID:       "920",
		MSISDN:       "233200000000",
		UserData:     data,
		SessionID:    sessionID,
		FirstContact: first,
	}
}

func TestEngine_StepByStep(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	resp, err := eng.Handle(ctx, req("s1", "*920*1806#", true))
	require.NoError(t, err)
	assert.Equal(t, welcome, resp.Message)
	assert.True(t, resp.Continue)
	assert.Equal(t, "920", resp.UserID)
	assert.Equal(t, "233200000000", resp.MSISDN)

	s, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Screen)
	assert.Empty(t, s.Feeling)
	assert.Empty(t, s.Reason)

	resp, err = eng.Handle(ctx, req("s1", "3", false))
	require.NoError(t, err)
	assert.Equal(t, "Why are you Not well?\n1. Money\n2. Relationship\n3. A lot", resp.Message)
	assert.True(t, resp.Continue)

	s, err = mgr.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Screen)
	assert.Equal(t, "Not well", s.Feeling)

	resp, err = eng.Handle(ctx, req("s1", "2", false))
	require.NoError(t, err)
	assert.Equal(t, "You are Not well because of relationship.", resp.Message)
	assert.False(t, resp.Continue)

	_, err = mgr.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "session must be removed after the summary")
}

func TestEngine_Screen1Choices(t *testing.T) {
	for token, feeling := range map[string]string{"1": "Feeling fine", "2": "Feeling frisky", "3": "Not well"} {
		t.Run(token, func(t *testing.T) {
			eng, mgr := newEngine(t)
			ctx := context.Background()

			_, err := eng.Handle(ctx, req("s", "*920*1806#", true))
			require.NoError(t, err)

			resp, err := eng.Handle(ctx, req("s", token, false))
			require.NoError(t, err)
			assert.True(t, resp.Continue)
			assert.Contains(t, resp.Message, "Why are you "+feeling+"?")

			s, err := mgr.Load(ctx, "s")
			require.NoError(t, err)
			assert.Equal(t, 2, s.Screen)
			assert.Equal(t, feeling, s.Feeling)
		})
	}
}

func TestEngine_InvalidChoiceRepromptsScreen1(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("s", "*920*1806#", true))
	require.NoError(t, err)

	for _, bad := range []string{"0", "4", "yes", "11"} {
		resp, err := eng.Handle(ctx, req("s", bad, false))
		require.NoError(t, err, "invalid choice on the step path is not terminal")
		assert.Equal(t, "Invalid choice. "+screen1, resp.Message)
		assert.True(t, resp.Continue)
	}

	s, err := mgr.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Screen)
	assert.Empty(t, s.Feeling)
}

func TestEngine_InvalidChoiceRepromptsScreen2(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("s", "*920*1806*1#", true))
	require.NoError(t, err)

	resp, err := eng.Handle(ctx, req("s", "9", false))
	require.NoError(t, err)
	assert.Equal(t, "Invalid choice. Why are you Feeling fine?\n1. Money\n2. Relationship\n3. A lot", resp.Message)
	assert.True(t, resp.Continue)

	s, err := mgr.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Screen)
	assert.Equal(t, "Feeling fine", s.Feeling)
	assert.Empty(t, s.Reason)

	resp, err = eng.Handle(ctx, req("s", "1", false))
	require.NoError(t, err)
	assert.Equal(t, "You are Feeling fine because of money.", resp.Message)
	assert.False(t, resp.Continue)
}

func TestEngine_DirectAccess(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	resp, err := eng.Handle(ctx, req("d", "*920*1806*2#", false))
	require.NoError(t, err)
	assert.Equal(t, "Why are you Feeling frisky?\n1. Money\n2. Relationship\n3. A lot", resp.Message)
	assert.True(t, resp.Continue)

	s, err := mgr.Load(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Screen)
	assert.Equal(t, "Feeling frisky", s.Feeling)
}

func TestEngine_DirectAccessInvalidIsTerminal(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("d", "*920*1806*7#", true))
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)

	var ce *domain.ChoiceError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Screen)
	assert.Equal(t, "7", ce.Choice)

	_, err = mgr.Load(ctx, "d")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "no session mutation on terminal errors")
}

func TestEngine_AutoSummary(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	resp, err := eng.Handle(ctx, req("a", "*920*1806*1*3#", true))
	require.NoError(t, err)
	assert.Equal(t, "You are Feeling fine because of a lot.", resp.Message)
	assert.False(t, resp.Continue)

	_, err = mgr.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_AutoSummaryInvalidIsTerminal(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	// An existing session must be left exactly as it was.
	_, err := eng.Handle(ctx, req("a", "*920*1806*3#", true))
	require.NoError(t, err)

	tests := []struct {
		name   string
		data   string
		screen int
	}{
		{"first choice", "*920*1806*5*1#", 1},
		{"second choice", "*920*1806*1*5#", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Handle(ctx, req("a", tt.data, false))
			var ce *domain.ChoiceError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.screen, ce.Screen)

			s, err := mgr.Load(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, 2, s.Screen)
			assert.Equal(t, "Not well", s.Feeling)
			assert.Empty(t, s.Reason)
		})
	}
}

func TestEngine_SessionRestartsAfterCompletion(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("r", "*920*1806*2*2#", true))
	require.NoError(t, err)

	resp, err := eng.Handle(ctx, req("r", "*920*1806#", true))
	require.NoError(t, err)
	assert.Equal(t, welcome, resp.Message)

	s, err := mgr.Load(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Screen)
	assert.Empty(t, s.Feeling)
	assert.Empty(t, s.Reason)
}

func TestEngine_FirstContactSingleToken(t *testing.T) {
	eng, _ := newEngine(t)

	resp, err := eng.Handle(context.Background(), req("f", "920", true))
	require.NoError(t, err)
	assert.Equal(t, welcome, resp.Message)
	assert.True(t, resp.Continue)
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		request domain.Request
		want    error
	}{
		{"missing session id", req("", "*920*1806#", true), domain.ErrMissingSessionID},
		{"no tokens", req("e", "", false), domain.ErrMalformedInput},
		{"only separators", req("e", "***#", true), domain.ErrMalformedInput},
		{"five tokens", req("e", "*920*1806*1*2*3#", false), domain.ErrMalformedInput},
		{"wrong access code", req("e", "*111*1806#", false), domain.ErrMalformedInput},
		{"choice without session", req("e", "1", false), domain.ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, mgr := newEngine(t)
			ctx := context.Background()

			resp, err := eng.Handle(ctx, tt.request)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.Response{}, resp)

			ids, err := mgr.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids, "terminal errors must not create sessions")
		})
	}
}

func TestEngine_Hooks(t *testing.T) {
	var (
		screens   []int
		rejected  []domain.ChoiceEvent
		completed []map[string]string
		failures  []string
	)
	hooks := domain.LifecycleHooks{
		OnScreenEnter: func(_ context.Context, e *domain.ScreenEvent) { screens = append(screens, e.Screen) },
		OnChoiceRejected: func(_ context.Context, e *domain.ChoiceEvent) {
			rejected = append(rejected, *e)
		},
		OnComplete: func(_ context.Context, e *domain.CompleteEvent) { completed = append(completed, e.Answers) },
		OnRequestFailed: func(_ context.Context, e *domain.FailureEvent) {
			failures = append(failures, e.Code)
		},
	}
	eng, _ := newEngine(t, runtime.WithLifecycleHooks(hooks))
	ctx := context.Background()

	_, _ = eng.Handle(ctx, req("h", "*920*1806#", true))
	_, _ = eng.Handle(ctx, req("h", "8", false))
	_, _ = eng.Handle(ctx, req("h", "1", false))
	_, _ = eng.Handle(ctx, req("h", "3", false))
	_, _ = eng.Handle(ctx, req("h2", "*920*1806*9#", false))
	_, _ = eng.Handle(ctx, req("", "1", false))

	assert.Equal(t, []int{1, 1, 2}, screens)
	require.Len(t, rejected, 2)
	assert.False(t, rejected[0].Terminal)
	assert.Equal(t, "8", rejected[0].Choice)
	assert.True(t, rejected[1].Terminal)
	assert.Equal(t, []map[string]string{{"feeling": "Feeling fine", "reason": "because of a lot"}}, completed)
	assert.Equal(t, []string{domain.CodeInvalidChoice, domain.CodeMissingSessionID}, failures)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRequest(mode, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, mode+"/"+outcome)
}

func TestEngine_Observer(t *testing.T) {
	obs := &recordingObserver{}
	eng, _ := newEngine(t, runtime.WithObserver(obs))
	ctx := context.Background()

	_, _ = eng.Handle(ctx, req("o", "*920*1806*1*1#", true))
	_, _ = eng.Handle(ctx, req("o", "", false))
	_, _ = eng.Handle(ctx, req("o", "2", false))

	assert.Equal(t, []string{
		"auto_summary/ok",
		"malformed/malformed_input",
		"continue/malformed_input",
	}, obs.outcomes)
}

func TestEngine_DuplicateDeliveryIsSerialized(t *testing.T) {
	eng, mgr := newEngine(t)
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("dup", "*920*1806*2#", true))
	require.NoError(t, err)

	// Two copies of the final answer: exactly one sees screen 2 and completes,
	// the other finds no session.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Handle(ctx, req("dup", "1", false))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, malformed int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
		malformed++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, malformed)

	_, err = mgr.Load(ctx, "dup")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEngine_CustomAccessCode(t *testing.T) {
	eng, _ := newEngine(t, runtime.WithAccessCode([]string{"384", "57"}))
	ctx := context.Background()

	_, err := eng.Handle(ctx, req("c", "*920*1806#", true))
	assert.ErrorIs(t, err, domain.ErrMalformedInput)

	resp, err := eng.Handle(ctx, req("c", "*384*57*3*1#", true))
	require.NoError(t, err)
	assert.Equal(t, "You are Not well because of money.", resp.Message)
	assert.Equal(t, 2, eng.Menu().Len())
}
