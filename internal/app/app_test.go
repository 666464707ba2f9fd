package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

const testJobToken = "test-job-token"

func testConfig() config.Config {
	return config.Config{
		AppEnv:                        config.EnvDev,
		ServiceName:                   "scout-core-test",
		HTTPAddr:                      ":0",
		StorageDriver:                 config.StorageMemory,
		CacheEnabled:                  true,
		CacheTTL:                      time.Minute,
		InternalJobToken:              testJobToken,
		ResolverConfidenceThreshold:   0.92,
		ResolverMinLead:               0.10,
		ResolverTeamSimilarity:        0.80,
		ResolverCompetitionSimilarity: 0.85,
		SimilarityMaxLengthGap:        0.5,
		RatingMinMinutes:              0,
		RatingTopN:                    25,
		RatingWindowDays:              365,
		RatingLastN:                   5,
		RatingWriteChunkSize:          100,
		RatingWriteWorkers:            2,
	}
}

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code int `json:"code"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.NewNop()
	rt, err := NewRuntime(context.Background(), testConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	srv, err := NewHTTPServer(testConfig(), rt, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token, body string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Internal-Job-Token", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	rt, err := NewRuntime(context.Background(), testConfig(), logging.NewNop())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, rt, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestHTTPServer_ResolveThenMatch(t *testing.T) {
	ts := newTestServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/internal/identity/resolve", "",
		`{"provider":"api_football","provider_player_id":"276","name":"Bukayo Saka"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, created := doJSON(t, http.MethodPost, ts.URL+"/v1/internal/identity/resolve", testJobToken,
		`{"provider":"api_football","provider_player_id":"276","name":"Bukayo Saka","birth_date":"2001-09-05","team_id":"eng-ars"}`)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, true, created.Data["is_new"])
	playerID, _ := created.Data["player_id"].(string)
	require.True(t, strings.HasPrefix(playerID, "pl_"), "unexpected player id %q", playerID)

	status, matched := doJSON(t, http.MethodPost, ts.URL+"/v1/internal/identity/resolve", testJobToken,
		`{"provider":"fotmob","provider_player_id":"fm-1","name":"Bukayo Saka","birth_date":"2001-09-05"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, false, matched.Data["is_new"])
	require.Equal(t, playerID, matched.Data["player_id"])

	status, detail := doJSON(t, http.MethodGet, ts.URL+"/v1/players/"+playerID, "", "")
	require.Equal(t, http.StatusOK, status)
	links, _ := detail.Data["links"].([]any)
	require.Len(t, links, 2)
}

func TestHTTPServer_RecomputeDryRun(t *testing.T) {
	ts := newTestServer(t)

	status, out := doJSON(t, http.MethodPost, ts.URL+"/v1/internal/ratings/recompute", testJobToken, `{"dry_run":true}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, out.Data["dry_run"])

	status, out = doJSON(t, http.MethodPost, ts.URL+"/v1/internal/ratings/recompute", testJobToken,
		`{"competition_id":"x","country":"GB"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, out.Error)
}

func TestHTTPServer_MetricsExposed(t *testing.T) {
	ts := newTestServer(t)

	doJSON(t, http.MethodPost, ts.URL+"/v1/internal/identity/resolve", testJobToken,
		`{"provider":"sofascore","provider_player_id":"s-1","name":"Martin Odegaard"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "scout_identity_resolve_total")
}
