package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/scout-core/internal/config"
	"github.com/riskibarqy/scout-core/internal/platform/logging"
)

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected nil server when pprof disabled")
	}
	if err := StopPprofServer(srv, nil, time.Second); err != nil {
		t.Fatalf("stop nil pprof server: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestPprofMux_ServesProfiles(t *testing.T) {
	srv := httptest.NewServer(newPprofMux())
	defer srv.Close()

	for _, path := range []string{"/debug/pprof/", "/debug/pprof/cmdline", "/debug/pprof/goroutine?debug=1"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get %s: status %d", path, resp.StatusCode)
		}
	}
}

func TestPyroscopeConfig_TagsDeployment(t *testing.T) {
	cfg := pyroscopeConfig(config.Config{
		AppEnv:           "staging",
		ServiceName:      "scout-core",
		ServiceVersion:   "1.4.0",
		StorageDriver:    "postgres",
		PyroscopeAppName: "scout-core.api",
	})

	if cfg.ApplicationName != "scout-core.api" {
		t.Fatalf("unexpected application name %q", cfg.ApplicationName)
	}
	want := map[string]string{"env": "staging", "service": "scout-core", "storage": "postgres", "version": "1.4.0"}
	for key, value := range want {
		if cfg.Tags[key] != value {
			t.Fatalf("tag %s=%q want %q", key, cfg.Tags[key], value)
		}
	}
	if len(cfg.ProfileTypes) == 0 {
		t.Fatalf("expected profile types")
	}
}
