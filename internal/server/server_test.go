package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/report"
	pkgserver "github.com/DjordjeVuckovic/indexbench/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *corpus.Ledger) {
	t.Helper()

	data := t.TempDir()
	dir := filepath.Join(data, "baseline")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	l := corpus.NewLedger(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	l.Append(corpus.Result{Component: "pef", Stage: "queries", Outcome: corpus.Failed, ExitCode: 1})
	l.Append(corpus.Result{Component: "mg4j", Stage: "queries", Outcome: corpus.Succeeded})
	require.NoError(t, report.WriteLedger(l, filepath.Join(dir, report.LedgerFile)))

	cfg := &Config{Port: "0", DataFolder: data}
	return NewServer(echo.New(), cfg, pkgserver.NewFolderHealthChecker(data)), l
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := serve(s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	gone := NewServer(echo.New(), &Config{Port: "0"}, pkgserver.NewFolderHealthChecker(filepath.Join(t.TempDir(), "gone")))
	rec = serve(gone, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListLedgers(t *testing.T) {
	s, l := newTestServer(t)
	rec := serve(s, "/ledgers")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []LedgerEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, l.SessionID, entries[0].SessionID)
	assert.Equal(t, "baseline", entries[0].Experiment)
	assert.Equal(t, 2, entries[0].Results)
	assert.Equal(t, 1, entries[0].Failed)
}

func TestGetLedger(t *testing.T) {
	s, l := newTestServer(t)

	t.Run("found", func(t *testing.T) {
		rec := serve(s, "/ledgers/"+l.SessionID.String())
		require.Equal(t, http.StatusOK, rec.Code)

		var got corpus.Ledger
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, l.SessionID, got.SessionID)
		require.Len(t, got.Results, 2)
		assert.Equal(t, corpus.Failed, got.Results[0].Outcome)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(s, "/ledgers/6f1c1d8e-2a7b-4c35-9a51-0d8f3b3c7e11")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "ledger 6f1c1d8e-2a7b-4c35-9a51-0d8f3b3c7e11 not found")
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := serve(s, "/ledgers/not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid session id")
	})
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("8080"))
	assert.Error(t, validatePort("http"))
	assert.Error(t, validatePort("70000"))
}

func TestLoadConfig_IgnoresDotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("INDEXBENCH_PORT=9191\n"), 0o644))
	t.Setenv("INDEXBENCH_ENV_PATH", dotenv)
	t.Setenv("INDEXBENCH_PORT", "")
	t.Setenv("INDEXBENCH_DATA", "/env/data")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/env/data", cfg.DataFolder)

	t.Setenv("INDEXBENCH_PORT", "9292")
	cfg, err = LoadConfig("/flag/data")
	require.NoError(t, err)
	assert.Equal(t, "9292", cfg.Port)
	assert.Equal(t, "/flag/data", cfg.DataFolder)
}
