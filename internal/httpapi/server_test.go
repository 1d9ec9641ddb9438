package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/criteo/openapi-comparator/internal/testutil"
)

func newTestServer(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewServer(opts).Router()
}

func postCompare(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/compare", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	h := newTestServer(Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRules(t *testing.T) {
	h := newTestServer(Options{})

	tests := []struct {
		name   string
		query  string
		status int
		check  func(t *testing.T, rules []RuleResponse)
	}{
		{"all", "", http.StatusOK, func(t *testing.T, rules []RuleResponse) {
			assert.Greater(t, len(rules), 50)
			shared := 0
			for i := 1; i < len(rules); i++ {
				prev, cur := rules[i-1], rules[i]
				assert.LessOrEqual(t, prev.ID, cur.ID)
				if prev.ID == cur.ID {
					shared++
					assert.Less(t, prev.Code, cur.Code, "rules sharing id %d", cur.ID)
				}
			}
			assert.Positive(t, shared, "direction variants share an id")
		}},
		{"by code", "?code=RemovedOperation", http.StatusOK, func(t *testing.T, rules []RuleResponse) {
			require.Len(t, rules, 1)
			assert.Equal(t, "RemovedOperation", rules[0].Code)
			assert.Equal(t, "Removal", rules[0].Kind)
			assert.Equal(t, "breaking", rules[0].Severity)
			assert.True(t, strings.HasSuffix(rules[0].DocURL, ".md"))
		}},
		{"by kind", "?kind=specification", http.StatusOK, func(t *testing.T, rules []RuleResponse) {
			require.Len(t, rules, 2)
			for _, r := range rules {
				assert.Equal(t, "Specification", r.Kind)
			}
		}},
		{"unknown code", "?code=NoSuchRule", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/rules"+tt.query, nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.check == nil {
				assert.Contains(t, decodeError(t, w), "NoSuchRule")
				return
			}
			var rules []RuleResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rules))
			tt.check(t, rules)
		})
	}
}

type compareResponse struct {
	Messages []struct {
		Code string `json:"Code"`
		Type string `json:"Type"`
		Mode string `json:"Mode"`
	} `json:"Messages"`
	Level      string `json:"Level"`
	ErrorCount int    `json:"ErrorCount"`
}

func TestCompare(t *testing.T) {
	old := testutil.Fixture(t, "petstore-v1.yaml")
	new := testutil.Fixture(t, "petstore-v2.yaml")

	t.Run("default", func(t *testing.T) {
		w := postCompare(t, newTestServer(Options{}), CompareRequest{Old: old, New: new})
		require.Equal(t, http.StatusOK, w.Code)

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Messages, 11)
		assert.Equal(t, "MajorVersionChange", resp.Messages[0].Code)
		assert.Equal(t, "warning", resp.Level)
	})

	t.Run("strict from request", func(t *testing.T) {
		strict := true
		w := postCompare(t, newTestServer(Options{}), CompareRequest{Old: old, New: new, Strict: &strict})
		require.Equal(t, http.StatusOK, w.Code)

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Level)
		assert.Equal(t, 9, resp.ErrorCount)
	})

	t.Run("strict from options", func(t *testing.T) {
		w := postCompare(t, newTestServer(Options{Strict: true}), CompareRequest{Old: old, New: new})
		require.Equal(t, http.StatusOK, w.Code)

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Level)
	})

	t.Run("identical", func(t *testing.T) {
		w := postCompare(t, newTestServer(Options{}), CompareRequest{Old: old, New: old})
		require.Equal(t, http.StatusOK, w.Code)

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Messages)
		assert.Equal(t, "none", resp.Level)
	})
}

func TestCompareErrors(t *testing.T) {
	doc := testutil.MinimalDocument

	tests := []struct {
		name   string
		opts   Options
		body   string
		status int
		want   string
	}{
		{"malformed json", Options{}, `{"old":`, http.StatusBadRequest, "invalid request body"},
		{"missing new", Options{}, mustJSON(t, CompareRequest{Old: doc}), http.StatusBadRequest, "both old and new"},
		{"too large", Options{MaxBodySize: 16}, mustJSON(t, CompareRequest{Old: doc, New: doc}), http.StatusRequestEntityTooLarge, "exceeds 16 bytes"},
		{"malformed x-ms-paths", Options{}, mustJSON(t, CompareRequest{
			Old: testutil.Fixture(t, "xms-paths-invalid.yaml"),
			New: doc + "x-ms-paths: {}\n",
		}), http.StatusUnprocessableEntity, "Invalid parameter location: body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			newTestServer(tt.opts).ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeError(t, w), tt.want)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/compare", nil)
	w := httptest.NewRecorder()
	newTestServer(Options{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}

func TestShutdownBeforeListen(t *testing.T) {
	s := NewServer(Options{})
	assert.NoError(t, s.Shutdown(context.Background()))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
