package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/fixturerun/internal/fixture"
)

// Fixture type names registered by DefaultRegistry.
var (
	TypeTempDir    = fixture.TypeName[TempDir]()
	TypeHTTPServer = fixture.TypeName[HTTPServer]()
	TypeService    = fixture.TypeName[Service]()
)

// DefaultRegistry returns the fixture types used by the demo plan.
func DefaultRegistry() *fixture.Registry {
	r := fixture.NewRegistry()
	fixture.RegisterDefault[TempDir](r)
	fixture.RegisterDefault[HTTPServer](r)
	fixture.RegisterDefault[Service](r)
	return r
}

// TempDir creates a scratch directory named after its first parameter.
type TempDir struct {
	dir string
}

func (f *TempDir) Setup(_ context.Context, params ...string) (any, error) {
	prefix := "dir"
	if len(params) > 0 {
		prefix = params[0]
	}
	dir, err := os.MkdirTemp("", "fixturerun-"+prefix+"-")
	if err != nil {
		return nil, err
	}
	f.dir = dir
	return dir, nil
}

func (f *TempDir) Teardown(context.Context) error {
	return os.RemoveAll(f.dir)
}

func (f *TempDir) FailedTeardown(context.Context) error {
	if f.dir == "" {
		return nil
	}
	return os.RemoveAll(f.dir)
}

// HTTPServer serves GET /health on a loopback port. Its value is the
// base URL.
type HTTPServer struct {
	srv *http.Server
	ln  net.Listener
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (f *HTTPServer) Setup(_ context.Context, params ...string) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("want 1 parameter (API version), got %d", len(params))
	}
	version := params[0]

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	f.ln = ln

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Version: version})
	})
	f.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = f.srv.Serve(ln) }()

	return "http://" + ln.Addr().String(), nil
}

func (f *HTTPServer) Teardown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := f.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (f *HTTPServer) FailedTeardown(context.Context) error {
	if f.ln == nil {
		return nil
	}
	return f.ln.Close()
}

// Service checks that an external TCP service is reachable. Params are
// the service name and its address.
type Service struct{}

func (Service) Setup(ctx context.Context, params ...string) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("want 2 parameters (name, address), got %d", len(params))
	}
	d := net.Dialer{Timeout: 500 * time.Millisecond}
	conn, err := d.DialContext(ctx, "tcp", params[1])
	if err != nil {
		return nil, fmt.Errorf("%s unreachable: %w", params[0], err)
	}
	_ = conn.Close()
	return params[1], nil
}

func (Service) Teardown(context.Context) error       { return nil }
func (Service) FailedTeardown(context.Context) error { return nil }

// PlanEntry is one work item of the demo run. Fixture is empty for items
// that need no fixture. Body receives the fixture value.
type PlanEntry struct {
	Name    string
	Fixture string
	Params  []string
	Body    func(ctx context.Context, value any) error
}

// DefaultPlan returns the demo work items: three HTTP checks sharing two
// server fixtures, a write and a read sharing one directory, and one item
// without a fixture.
func DefaultPlan() []PlanEntry {
	return []PlanEntry{
		{Name: "api/health-v1", Fixture: TypeHTTPServer, Params: []string{"v1"}, Body: checkHealth("v1")},
		{Name: "api/version-v1", Fixture: TypeHTTPServer, Params: []string{"v1"}, Body: checkHealth("v1")},
		{Name: "api/health-v0", Fixture: TypeHTTPServer, Params: []string{"v0"}, Body: checkHealth("v0")},
		{Name: "files/write", Fixture: TypeTempDir, Params: []string{"scratch"}, Body: writeMarker},
		{Name: "files/read", Fixture: TypeTempDir, Params: []string{"scratch"}, Body: readMarker},
		{Name: "unit/no-fixture", Body: func(context.Context, any) error { return nil }},
	}
}

func checkHealth(version string) func(context.Context, any) error {
	return func(ctx context.Context, value any) error {
		base, ok := value.(string)
		if !ok {
			return fmt.Errorf("unexpected fixture value %T", value)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", http.NoBody)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		var body healthResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode health: %w", err)
		}
		if resp.StatusCode != http.StatusOK || body.Version != version {
			return fmt.Errorf("health = %d %+v, want 200 with version %s", resp.StatusCode, body, version)
		}
		return nil
	}
}

const markerFile = "marker.txt"

func writeMarker(_ context.Context, value any) error {
	dir, ok := value.(string)
	if !ok {
		return fmt.Errorf("unexpected fixture value %T", value)
	}
	return os.WriteFile(filepath.Join(dir, markerFile), []byte("written by files/write\n"), 0o600)
}

func readMarker(_ context.Context, value any) error {
	dir, ok := value.(string)
	if !ok {
		return fmt.Errorf("unexpected fixture value %T", value)
	}
	_, err := os.ReadFile(filepath.Join(dir, markerFile))
	return err
}
