package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uiforge/uiforge/internal/handlers/testutil"
)

// mutableStreamServer serves whatever frames were installed last, so a test
// can create records first and only then decide what the model should answer.
type mutableStreamServer struct {
	mu    sync.Mutex
	lines []string
	URL   string
}

func newMutableStreamServer(t *testing.T) *mutableStreamServer {
	t.Helper()
	s := &mutableStreamServer{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, line := range s.lines {
			fmt.Fprintln(w, line)
		}
	}))
	t.Cleanup(server.Close)
	s.URL = server.URL
	return s
}

func (s *mutableStreamServer) respondWithText(t *testing.T, text string) {
	t.Helper()
	encoded, err := json.Marshal(text)
	require.NoError(t, err)
	s.mu.Lock()
	s.lines = []string{"0:" + string(encoded), `d:{"finishReason":"stop"}`}
	s.mu.Unlock()
}

func createComponent(t *testing.T, env *testutil.Env, token, name, description string) string {
	t.Helper()
	resp := env.Request(http.MethodPost, "/api/components", map[string]any{
		"name":        name,
		"description": description,
		"code":        "export {}",
	}, token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var component componentPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &component)
	return component.ID
}

func TestSearchHandler_RanksWithModel(t *testing.T) {
	server := newMutableStreamServer(t)
	env := testutil.NewEnv(t, testutil.WithAIClient(newAIClient(t, server.URL)))
	login := env.Login("search@example.com")

	pricingID := createComponent(t, env, login.Token, "Pricing Card", "tiered pricing display")
	createComponent(t, env, login.Token, "Nav Bar", "site navigation")

	// The model wraps its JSON answer in a fence, as models tend to.
	server.respondWithText(t, fmt.Sprintf("```json\n{\"componentIds\": [%q]}\n```", pricingID))

	resp := env.Request(http.MethodPost, "/api/search", map[string]string{
		"query": "something for a pricing page",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var payload struct {
		ComponentIDs []string           `json:"component_ids"`
		Components   []componentPayload `json:"components"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &payload)
	require.Equal(t, []string{pricingID}, payload.ComponentIDs)
	require.Len(t, payload.Components, 1)
	require.Equal(t, "Pricing Card", payload.Components[0].Name)
}

func TestSearchHandler_EmptyQuery(t *testing.T) {
	env := testutil.NewEnv(t)

	resp := env.Request(http.MethodPost, "/api/search", map[string]string{"query": ""}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		ComponentIDs []string `json:"component_ids"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &payload)
	require.Nil(t, payload.ComponentIDs)
}

func TestSearchHandler_ModelFailureDegradesToEmpty(t *testing.T) {
	server := newStreamServer(t, http.StatusServiceUnavailable)
	env := testutil.NewEnv(t, testutil.WithAIClient(newAIClient(t, server.URL)))
	login := env.Login("search@example.com")
	createComponent(t, env, login.Token, "Pricing Card", "tiered pricing display")

	resp := env.Request(http.MethodPost, "/api/search", map[string]string{
		"query": "pricing",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var payload struct {
		ComponentIDs []string `json:"component_ids"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &payload)
	require.Empty(t, payload.ComponentIDs)
}

func TestSearchHandler_FallbackWithoutModel(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("search@example.com")

	pricingID := createComponent(t, env, login.Token, "Pricing Card", "tiered pricing display")
	createComponent(t, env, login.Token, "Nav Bar", "site navigation")

	resp := env.Request(http.MethodPost, "/api/search", map[string]string{
		"query": "pricing",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var payload struct {
		ComponentIDs []string `json:"component_ids"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, resp).Data, &payload)
	require.Equal(t, []string{pricingID}, payload.ComponentIDs)
}
