package server

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type stubPublisher struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (p *stubPublisher) PublishImage(ctx context.Context, name string, img image.Image) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.names = append(p.names, name)
	return "https://cdn.example.com/" + name, nil
}

// sseEvent is a parsed "event: / data:" block
type sseEvent struct {
	Type string
	Data string
}

func parseSSE(body string) []sseEvent {
	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				ev.Type = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev.Data = strings.TrimPrefix(line, "data: ")
			}
		}
		if ev.Type != "" {
			events = append(events, ev)
		}
	}
	return events
}

func eventsOfType(events []sseEvent, eventType string) []sseEvent {
	var result []sseEvent
	for _, ev := range events {
		if ev.Type == eventType {
			result = append(result, ev)
		}
	}
	return result
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := doGet(t, NewServer(0, nil), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	rec := doGet(t, NewServer(0, nil), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Scenes []struct {
			ID string `json:"id"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	ids := make(map[string]bool)
	for _, sc := range body.Scenes {
		ids[sc.ID] = true
	}
	for _, want := range []string{"default", "random", "empty"} {
		if !ids[want] {
			t.Errorf("Expected scene %q in listing, got %v", want, ids)
		}
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := NewServer(0, nil)

	t.Run("default scene", func(t *testing.T) {
		rec := doGet(t, s, "/api/scene-config?scene=default")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Defaults struct {
				Width           int `json:"width"`
				Height          int `json:"height"`
				SamplesPerPixel int `json:"samplesPerPixel"`
				PrimitiveCount  int `json:"primitiveCount"`
			} `json:"defaults"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if body.Defaults.Width != 400 || body.Defaults.Height != 225 {
			t.Errorf("Expected 400x225, got %dx%d", body.Defaults.Width, body.Defaults.Height)
		}
		if body.Defaults.PrimitiveCount != 4 {
			t.Errorf("Expected 4 spheres, got %d", body.Defaults.PrimitiveCount)
		}
	})

	t.Run("unknown scene", func(t *testing.T) {
		rec := doGet(t, s, "/api/scene-config?scene=nope")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleInspect(t *testing.T) {
	s := NewServer(0, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantHit    bool
	}{
		{"center of default scene", "scene=default&width=100&x=50&y=28", http.StatusOK, true},
		{"empty scene misses", "scene=empty&width=100&x=50&y=25", http.StatusOK, false},
		{"out of bounds", "scene=default&width=100&x=100&y=0", http.StatusBadRequest, false},
		{"below image", "scene=default&width=100&x=0&y=56", http.StatusBadRequest, false},
		{"bad coordinate", "scene=default&x=abc&y=0", http.StatusBadRequest, false},
		{"unknown scene", "scene=nope&x=0&y=0", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, s, "/api/inspect?"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp InspectResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Invalid JSON: %v", err)
			}
			if resp.Hit != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, resp.Hit)
			}
			if resp.Hit {
				if resp.GeometryType != "sphere" {
					t.Errorf("Expected sphere geometry, got %q", resp.GeometryType)
				}
				if resp.MaterialType == "unknown" {
					t.Error("Expected a known material type")
				}
				if resp.Distance <= 0 {
					t.Errorf("Expected positive distance, got %f", resp.Distance)
				}
				if !resp.FrontFace {
					t.Error("Camera rays should hit the outside of a sphere")
				}
			}
		})
	}
}

func TestHandleRender_StreamsPasses(t *testing.T) {
	rec := doGet(t, NewServer(0, nil), "/api/render?scene=default&width=16&maxSamples=2&maxPasses=2&maxDepth=5")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	events := parseSSE(rec.Body.String())
	if errs := eventsOfType(events, "error"); len(errs) > 0 {
		t.Fatalf("Unexpected error event: %s", errs[0].Data)
	}

	passes := eventsOfType(events, "passComplete")
	if len(passes) != 2 {
		t.Fatalf("Expected 2 passComplete events, got %d", len(passes))
	}

	var last PassUpdate
	if err := json.Unmarshal([]byte(passes[1].Data), &last); err != nil {
		t.Fatalf("Invalid pass JSON: %v", err)
	}
	if !last.IsLast {
		t.Error("Final pass should be marked last")
	}
	if last.MaxSamplesUsed != 2 {
		t.Errorf("Expected 2 samples per pixel after final pass, got %d", last.MaxSamplesUsed)
	}
	if last.ImageData == "" {
		t.Error("Expected pass image data")
	}

	if len(eventsOfType(events, "tile")) == 0 {
		t.Error("Expected tile events")
	}
	if events[len(events)-1].Type != "complete" {
		t.Errorf("Expected last event to be complete, got %q", events[len(events)-1].Type)
	}
}

func TestHandleRender_InvalidRequest(t *testing.T) {
	s := NewServer(0, nil)

	tests := []struct {
		name  string
		query string
	}{
		{"width too small", "width=4"},
		{"samples out of range", "maxSamples=0"},
		{"unknown scene", "scene=nope"},
		{"unknown integrator", "integrator=whitted&width=16&maxSamples=1"},
		{"bad publish flag", "publish=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(doGet(t, s, "/api/render?"+tt.query).Body.String())
			if len(eventsOfType(events, "error")) != 1 {
				t.Errorf("Expected one error event, got %v", events)
			}
			if len(eventsOfType(events, "passComplete")) != 0 {
				t.Error("No passes should render for an invalid request")
			}
		})
	}
}

func TestHandleRender_Publish(t *testing.T) {
	t.Run("publishes final pass", func(t *testing.T) {
		pub := &stubPublisher{}
		rec := doGet(t, NewServer(0, pub), "/api/render?scene=empty&width=16&maxSamples=2&maxPasses=2&publish=true&previewWidth=8")

		events := parseSSE(rec.Body.String())
		published := eventsOfType(events, "published")
		if len(published) != 1 {
			t.Fatalf("Expected one published event, got %d", len(published))
		}
		if len(pub.names) != 1 || !strings.HasPrefix(pub.names[0], "empty_") {
			t.Errorf("Unexpected published names: %v", pub.names)
		}

		var body map[string]string
		if err := json.Unmarshal([]byte(published[0].Data), &body); err != nil {
			t.Fatalf("Invalid published JSON: %v", err)
		}
		if !strings.HasPrefix(body["url"], "https://cdn.example.com/") {
			t.Errorf("Unexpected URL %q", body["url"])
		}
	})

	t.Run("publisher failure", func(t *testing.T) {
		pub := &stubPublisher{err: errors.New("denied")}
		events := parseSSE(doGet(t, NewServer(0, pub), "/api/render?scene=empty&width=16&maxSamples=1&maxPasses=1&publish=true").Body.String())
		errs := eventsOfType(events, "error")
		if len(errs) != 1 || !strings.Contains(errs[0].Data, "denied") {
			t.Errorf("Expected publish error event, got %v", errs)
		}
	})

	t.Run("no publisher configured", func(t *testing.T) {
		events := parseSSE(doGet(t, NewServer(0, nil), "/api/render?scene=empty&width=16&maxSamples=1&maxPasses=1&publish=true").Body.String())
		if len(eventsOfType(events, "error")) != 1 {
			t.Error("Expected error event when publishing is not configured")
		}
		if len(eventsOfType(events, "published")) != 0 {
			t.Error("Nothing should be published without a publisher")
		}
	})
}

func TestCreateScene_KeepsSceneDefaults(t *testing.T) {
	s := NewServer(0, nil)

	tests := []struct {
		name            string
		query           string
		expectedDepth   int
		expectedSamples int
	}{
		{"sphere grid defaults", "scene=sphere-grid", 40, 100},
		{"default scene defaults", "scene=default", 50, 100},
		{"explicit overrides", "scene=sphere-grid&maxDepth=7&maxSamples=3", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/render?"+tt.query, nil)
			req, err := s.parseRenderRequest(r)
			if err != nil {
				t.Fatalf("parseRenderRequest failed: %v", err)
			}
			sceneObj, err := s.createScene(req)
			if err != nil {
				t.Fatalf("createScene failed: %v", err)
			}

			config := sceneObj.GetSamplingConfig()
			if config.MaxDepth != tt.expectedDepth {
				t.Errorf("Expected max depth %d, got %d", tt.expectedDepth, config.MaxDepth)
			}
			if config.SamplesPerPixel != tt.expectedSamples {
				t.Errorf("Expected %d samples, got %d", tt.expectedSamples, config.SamplesPerPixel)
			}
		})
	}
}

func TestHandleRender_PassesCappedBySamples(t *testing.T) {
	// The empty scene renders 4 samples per pixel unless told otherwise
	events := parseSSE(doGet(t, NewServer(0, nil), "/api/render?scene=empty&width=16&maxPasses=7").Body.String())

	passes := eventsOfType(events, "passComplete")
	if len(passes) != 4 {
		t.Fatalf("Expected 4 passes for 4 samples, got %d", len(passes))
	}

	var last PassUpdate
	if err := json.Unmarshal([]byte(passes[len(passes)-1].Data), &last); err != nil {
		t.Fatalf("Invalid pass JSON: %v", err)
	}
	if last.TotalPasses != 4 || last.MaxSamplesUsed != 4 {
		t.Errorf("Expected 4 passes reaching 4 samples, got %d passes and %d samples", last.TotalPasses, last.MaxSamplesUsed)
	}
}
