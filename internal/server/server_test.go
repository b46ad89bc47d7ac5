package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/silentbyte/quackhunt/internal/aim"
	"github.com/silentbyte/quackhunt/internal/app"
	"github.com/silentbyte/quackhunt/internal/calib"
	"github.com/silentbyte/quackhunt/internal/config"
)

// fakePipeline implements Pipeline without a camera.
type fakePipeline struct {
	pub      *aim.Publisher
	profiles *calib.Holder
	preview  *app.Preview
	watchers int
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		pub:      aim.NewPublisher(960, 540),
		profiles: calib.NewHolder(calib.DefaultProfile()),
	}
}

func (f *fakePipeline) Publisher() *aim.Publisher  { return f.pub }
func (f *fakePipeline) Profile() *calib.Profile    { return f.profiles.Load() }
func (f *fakePipeline) SetProfile(p calib.Profile) { f.profiles.Swap(p) }
func (f *fakePipeline) Preview() *app.Preview      { return f.preview }
func (f *fakePipeline) SetPreviewEnabled(on bool) {
	if on {
		f.watchers++
	} else {
		f.watchers--
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_Aim(t *testing.T) {
	pipeline := newFakePipeline()
	s := New(Config{Pipeline: pipeline})

	pipeline.pub.Publish(123, 456, true, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/api/aim", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var state aim.State
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if state.X != 123 || state.Y != 456 {
		t.Errorf("aim = (%f, %f), want (123, 456)", state.X, state.Y)
	}
	if !state.FirePending {
		t.Error("expected fire_pending while the event is queued")
	}

	// Reading over HTTP must not consume fire events.
	if got := len(pipeline.pub.DrainFireEvents()); got != 1 {
		t.Errorf("fire queue length = %d after GET /api/aim, want 1", got)
	}
}

func TestServer_ProfileGet(t *testing.T) {
	pipeline := newFakePipeline()
	s := New(Config{Pipeline: pipeline})

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var p calib.Profile
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if p != calib.DefaultProfile() {
		t.Errorf("profile = %+v, want the default profile", p)
	}
}

func TestServer_ProfilePutSwapsLiveProfile(t *testing.T) {
	pipeline := newFakePipeline()
	configPath := filepath.Join(t.TempDir(), "quackhunt.json")
	s := New(Config{
		Pipeline:   pipeline,
		ConfigPath: configPath,
		AppConfig:  config.Default(),
	})

	next := calib.DefaultProfile()
	next.Stretch = calib.Vec2{X: 8, Y: 9}
	body, _ := json.Marshal(next)

	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if got := pipeline.Profile(); got.Stretch != next.Stretch {
		t.Errorf("live profile stretch = %+v, want %+v", got.Stretch, next.Stretch)
	}

	// The profile is persisted so it survives a restart.
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("persisted config failed to load: %v", err)
	}
	if cfg.Profile.Stretch != next.Stretch {
		t.Errorf("persisted stretch = %+v, want %+v", cfg.Profile.Stretch, next.Stretch)
	}
}

func TestServer_ProfilePutRejectsGarbage(t *testing.T) {
	pipeline := newFakePipeline()
	s := New(Config{Pipeline: pipeline})

	req := httptest.NewRequest(http.MethodPut, "/api/profile", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		path       string
		wantID     string
		wantAction string
	}{
		{"/api/profiles", "", ""},
		{"/api/profiles/", "", ""},
		{"/api/profiles/abc", "abc", ""},
		{"/api/profiles/abc/activate", "abc", "activate"},
	}

	for _, tt := range tests {
		id, action := pathID(tt.path, "/api/profiles")
		if id != tt.wantID || action != tt.wantAction {
			t.Errorf("pathID(%q) = (%q, %q), want (%q, %q)",
				tt.path, id, action, tt.wantID, tt.wantAction)
		}
	}
}
