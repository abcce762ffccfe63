package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/juan-carlos-trimino/mem-gateway/pkg/gateway/upstream"
)

func TestHandleVideoStream(t *testing.T) {
	t.Run("relays status headers and body verbatim", func(t *testing.T) {
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/video" {
				t.Errorf("unexpected upstream path %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("id"); got != "abc" {
				t.Errorf("expected id abc, got %q", got)
			}
			w.Header().Set("Content-Type", "video/mp4")
			w.Header().Set("Content-Range", "bytes 0-4/100")
			w.Header().Set("Accept-Ranges", "bytes")
			w.WriteHeader(http.StatusPartialContent)
			w.Write([]byte("chunk"))
		}))
		defer streaming.Close()

		gw, _ := newTestGateway("", "", "", streaming.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if rec.Code != http.StatusPartialContent {
			t.Fatalf("expected status 206, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Range"); got != "bytes 0-4/100" {
			t.Errorf("expected Content-Range relayed verbatim, got %q", got)
		}
		if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
			t.Errorf("expected Content-Type relayed verbatim, got %q", got)
		}
		if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
			t.Errorf("expected Accept-Ranges relayed verbatim, got %q", got)
		}
		if rec.Body.String() != "chunk" {
			t.Errorf("expected body relayed byte for byte, got %q", rec.Body.String())
		}
	})

	t.Run("forwards range header and correlation ID", func(t *testing.T) {
		var gotRange, gotCorrelation string
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotRange = r.Header.Get("Range")
			gotCorrelation = r.Header.Get(upstream.CorrelationHeader)
			w.WriteHeader(http.StatusPartialContent)
		}))
		defer streaming.Close()

		gw, _ := newTestGateway("", "", "", streaming.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/video?id=abc", nil)
		req.Header.Set("Range", "bytes=0-1023")
		req.Header.Set(upstream.CorrelationHeader, "forged-by-client")
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if gotRange != "bytes=0-1023" {
			t.Errorf("expected Range forwarded, got %q", gotRange)
		}
		if gotCorrelation == "" || gotCorrelation == "forged-by-client" {
			t.Errorf("expected gateway-generated correlation ID, got %q", gotCorrelation)
		}
	})

	t.Run("sends no body upstream on bodiless requests", func(t *testing.T) {
		var gotContentLength int64
		var gotTransferEncoding []string
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentLength = r.ContentLength
			gotTransferEncoding = r.TransferEncoding
			w.WriteHeader(http.StatusOK)
		}))
		defer streaming.Close()

		gw, _ := newTestGateway("", "", "", streaming.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if gotContentLength != 0 {
			t.Errorf("expected upstream content length 0, got %d", gotContentLength)
		}
		if len(gotTransferEncoding) != 0 {
			t.Errorf("expected no transfer encoding upstream, got %v", gotTransferEncoding)
		}
	})

	t.Run("client disconnect cancels the upstream request", func(t *testing.T) {
		streamStarted := make(chan struct{})
		upstreamCancelled := make(chan struct{})
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "video/mp4")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("first"))
			w.(http.Flusher).Flush()
			close(streamStarted)
			select {
			case <-r.Context().Done():
				close(upstreamCancelled)
			case <-time.After(5 * time.Second):
			}
		}))
		defer streaming.Close()

		gw, _ := newTestGateway("", "", "", streaming.URL)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		req := httptest.NewRequest(http.MethodGet, "/api/video?id=abc", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		go func() {
			<-streamStarted
			cancel()
		}()

		// The interrupted copy aborts the response.
		func() {
			defer func() {
				if r := recover(); r != nil && r != http.ErrAbortHandler {
					t.Errorf("expected ErrAbortHandler, got %v", r)
				}
			}()
			gw.HandleVideoStream(rec, req)
		}()

		select {
		case <-upstreamCancelled:
		case <-time.After(3 * time.Second):
			t.Fatal("upstream handler never observed the disconnect")
		}
	})

	t.Run("relays upstream 404 verbatim", func(t *testing.T) {
		streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such video", http.StatusNotFound)
		}))
		defer streaming.Close()

		gw, _ := newTestGateway("", "", "", streaming.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/video?id=missing", nil)
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404 relayed, got %d", rec.Code)
		}
	})

	t.Run("unreachable upstream fails with 500", func(t *testing.T) {
		gw, _ := newTestGateway("", "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/api/video?id=abc", nil)
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
	})

	t.Run("missing id is a bad request", func(t *testing.T) {
		gw, _ := newTestGateway("", "", "", "")

		req := httptest.NewRequest(http.MethodGet, "/api/video", nil)
		rec := httptest.NewRecorder()
		gw.HandleVideoStream(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandleUpload(t *testing.T) {
	t.Run("pipes request body to upstream", func(t *testing.T) {
		var gotBody []byte
		var gotFileName string
		upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/upload" {
				t.Errorf("unexpected upstream path %s", r.URL.Path)
			}
			gotBody, _ = io.ReadAll(r.Body)
			gotFileName = r.Header.Get("File-Name")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "new-video"}`))
		}))
		defer upload.Close()

		gw, _ := newTestGateway("", "", upload.URL, "")

		body := strings.NewReader("fake video bytes")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("File-Name", "cat.mp4")
		req.Header.Set("Content-Type", "video/mp4")
		rec := httptest.NewRecorder()
		gw.HandleUpload(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201 relayed, got %d", rec.Code)
		}
		if string(gotBody) != "fake video bytes" {
			t.Errorf("expected body piped verbatim, got %q", gotBody)
		}
		if gotFileName != "cat.mp4" {
			t.Errorf("expected File-Name forwarded, got %q", gotFileName)
		}
		if rec.Body.String() != `{"id": "new-video"}` {
			t.Errorf("expected upstream response relayed, got %q", rec.Body.String())
		}
	})

	t.Run("relays upstream rejection verbatim", func(t *testing.T) {
		upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too large", http.StatusRequestEntityTooLarge)
		}))
		defer upload.Close()

		gw, _ := newTestGateway("", "", upload.URL, "")

		req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("data"))
		rec := httptest.NewRecorder()
		gw.HandleUpload(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected status 413 relayed, got %d", rec.Code)
		}
	})
}

func TestCopyHeaders(t *testing.T) {
	src := http.Header{}
	src.Set("Content-Type", "video/mp4")
	src.Set("Connection", "keep-alive")
	src.Set("Transfer-Encoding", "chunked")
	src.Add("X-Custom", "one")
	src.Add("X-Custom", "two")

	dst := http.Header{}
	copyHeaders(dst, src)

	if got := dst.Get("Content-Type"); got != "video/mp4" {
		t.Errorf("expected Content-Type copied, got %q", got)
	}
	if got := dst.Values("X-Custom"); len(got) != 2 {
		t.Errorf("expected both X-Custom values copied, got %v", got)
	}
	if dst.Get("Connection") != "" {
		t.Error("hop-by-hop Connection header must not be copied")
	}
	if dst.Get("Transfer-Encoding") != "" {
		t.Error("hop-by-hop Transfer-Encoding header must not be copied")
	}
}
