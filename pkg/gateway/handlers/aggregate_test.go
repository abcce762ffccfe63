package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

func TestHandleList(t *testing.T) {
	t.Run("renders videos from upstream", func(t *testing.T) {
		var gotCorrelation string
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/videos" {
				t.Errorf("unexpected upstream path %s", r.URL.Path)
			}
			gotCorrelation = r.Header.Get(upstream.CorrelationHeader)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"videos": [{"id": "a", "title": "First"}]}`))
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if gotCorrelation == "" {
			t.Error("expected correlation ID forwarded to upstream")
		}
		if renderer.view != "list" {
			t.Errorf("expected list view, got %q", renderer.view)
		}

		data, ok := renderer.data.(ListPageData)
		if !ok {
			t.Fatalf("unexpected render data type %T", renderer.data)
		}
		if len(data.Videos) != 1 {
			t.Fatalf("expected 1 video, got %d", len(data.Videos))
		}
		video, ok := data.Videos[0].(map[string]any)
		if !ok {
			t.Fatalf("unexpected video type %T", data.Videos[0])
		}
		if video["id"] != "a" {
			t.Errorf("expected video id a, got %v", video["id"])
		}
	})

	t.Run("upstream 500 renders empty list", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := renderer.data.(ListPageData)
		if len(data.Videos) != 0 {
			t.Errorf("expected empty video list, got %d entries", len(data.Videos))
		}
	})

	t.Run("empty upstream body renders empty list", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := renderer.data.(ListPageData)
		if len(data.Videos) != 0 {
			t.Errorf("expected empty video list, got %d entries", len(data.Videos))
		}
	})

	t.Run("malformed upstream body renders empty list", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json at all"))
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := renderer.data.(ListPageData)
		if len(data.Videos) != 0 {
			t.Errorf("expected empty video list, got %d entries", len(data.Videos))
		}
	})

	t.Run("missing collection field renders empty list", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"other": []}`))
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := renderer.data.(ListPageData)
		if len(data.Videos) != 0 {
			t.Errorf("expected empty video list, got %d entries", len(data.Videos))
		}
	})

	t.Run("unreachable upstream fails with 500", func(t *testing.T) {
		gw, _ := newTestGateway("", "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		gw.HandleList(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})
}

func TestHandlePlay(t *testing.T) {
	t.Run("renders video with gateway playback URL", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/video" {
				t.Errorf("unexpected upstream path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("id"); got != "abc" {
				t.Errorf("expected id abc, got %q", got)
			}
			w.Write([]byte(`{"video": {"title": "First", "id": "abc"}}`))
		}))
		defer metadata.Close()

		gw, renderer := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandlePlay(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		data := renderer.data.(PlayPageData)
		if data.PlaybackURL != "/api/video?id=abc" {
			t.Errorf("unexpected playback URL %q", data.PlaybackURL)
		}
		video := data.Video.(map[string]any)
		if video["title"] != "First" {
			t.Errorf("unexpected video title %v", video["title"])
		}
	})

	t.Run("upstream 500 fails the page", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer metadata.Close()

		gw, _ := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandlePlay(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("missing entity field fails the page", func(t *testing.T) {
		metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"something": "else"}`))
		}))
		defer metadata.Close()

		gw, _ := newTestGateway(metadata.URL, "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandlePlay(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("missing id is a bad request", func(t *testing.T) {
		gw, _ := newTestGateway("", "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/video", nil)
		rec := httptest.NewRecorder()
		gw.HandlePlay(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleHistory(t *testing.T) {
	history := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		w.Write([]byte(`{"videos": [{"id": "a"}, {"id": "b"}]}`))
	}))
	defer history.Close()

	gw, renderer := newTestGateway("", history.URL, "", "")

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	gw.HandleHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if renderer.view != "history" {
		t.Errorf("expected history view, got %q", renderer.view)
	}
	data := renderer.data.(HistoryPageData)
	if len(data.Videos) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(data.Videos))
	}
}

func TestRenderFailure(t *testing.T) {
	metadata := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"videos": []}`))
	}))
	defer metadata.Close()

	gw, renderer := newTestGateway(metadata.URL, "", "", "")
	renderer.err = errTemplate

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	gw.HandleList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 on render failure, got %d", rec.Code)
	}
}
