package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/luminary-backend/internal/realtime"
	"github.com/heartmarshall/luminary-backend/internal/service/coach"
	"github.com/heartmarshall/luminary-backend/pkg/ctxutil"
)

// fakeTurn replays deltas through the writer and then reports result/err.
type fakeTurn struct {
	id     uuid.UUID
	deltas []string
	result coach.TurnResult
	err    error
}

func (f *fakeTurn) ConversationID() uuid.UUID { return f.id }

func (f *fakeTurn) Relay(write func(delta string) error) (coach.TurnResult, error) {
	for _, d := range f.deltas {
		if err := write(d); err != nil {
			return coach.TurnResult{}, fmt.Errorf("%w: %v", coach.ErrClientGone, err)
		}
	}
	return f.result, f.err
}

type testEnv struct {
	svc    *coachServiceMock
	hub    *realtime.Hub
	h      *CoachHandler
	router chi.Router
	userID uuid.UUID
	inputs []coach.TurnInput
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		svc:    &coachServiceMock{},
		hub:    realtime.NewHub(8),
		userID: uuid.New(),
	}
	env.h = NewCoachHandler(env.svc, env.hub, slog.New(slog.DiscardHandler), []string{"*"})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxutil.WithUserID(r.Context(), env.userID)))
		})
	})
	env.h.Routes(r)
	env.router = r
	return env
}

// withTurn makes StartTurn return turn and records the inputs it saw.
func (env *testEnv) withTurn(turn chatTurn, err error) {
	env.h.start = func(ctx context.Context, input coach.TurnInput) (chatTurn, error) {
		env.inputs = append(env.inputs, input)
		if err != nil {
			return nil, err
		}
		return turn, nil
	}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
