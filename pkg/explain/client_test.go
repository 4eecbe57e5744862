package explain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRemoteExplainSuccess(t *testing.T) {
	var gotReq explainRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/explanations", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(explainResponse{
			Summary:              "remote summary",
			Mechanism:            "remote mechanism",
			ClinicalSignificance: "remote clinical",
		})
	}))
	defer ts.Close()

	e := NewRemoteExplainer(RemoteConfig{BaseURL: ts.URL, APIKey: "test-key"}, discardLogger())

	exp, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "remote summary", exp.Summary)
	assert.Equal(t, "CODEINE", gotReq.Drug)
	assert.Equal(t, "CYP2D6", gotReq.Gene)
	assert.Equal(t, []string{"rs3892097"}, gotReq.RSIDs)
}

func TestRemoteExplainFallsBackOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	e := NewRemoteExplainer(RemoteConfig{BaseURL: ts.URL, RetryCount: 1}, discardLogger())

	exp, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)

	// The template fallback still mentions the drug and guideline.
	assert.Contains(t, exp.Summary, "Codeine")
	assert.Contains(t, exp.ClinicalSignificance, "CPIC")
}

func TestRemoteExplainFallsBackOnEmptySummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(explainResponse{})
	}))
	defer ts.Close()

	e := NewRemoteExplainer(RemoteConfig{BaseURL: ts.URL}, discardLogger())

	exp, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Contains(t, exp.Summary, "Codeine")
}

func TestRemoteExplainFallsBackWhenUnreachable(t *testing.T) {
	e := NewRemoteExplainer(RemoteConfig{BaseURL: "http://127.0.0.1:1"}, discardLogger())

	exp, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.NotEmpty(t, exp.Summary)
}

func TestRemoteExplainRetriesThenSucceeds(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(explainResponse{Summary: "second try"})
	}))
	defer ts.Close()

	e := NewRemoteExplainer(RemoteConfig{BaseURL: ts.URL, RetryCount: 2}, discardLogger())

	exp, err := e.Explain(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "second try", exp.Summary)
	assert.Equal(t, 2, calls)
}
