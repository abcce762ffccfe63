package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
)

// ListPageData feeds the video catalog view.
type ListPageData struct {
	Videos []any
}

// PlayPageData feeds the playback view.
type PlayPageData struct {
	Video       any
	PlaybackURL string
}

// HistoryPageData feeds the viewing history view.
type HistoryPageData struct {
	Videos []any
}

// HandleList renders the video catalog from the metadata upstream.
func (g *Gateway) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid := correlationID(ctx)

	videos, err := g.fetchCollection(ctx, g.Targets().Metadata, "/videos", "videos", cid)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch video catalog",
			"correlation_id", cid,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	g.renderPage(w, r, "list", ListPageData{Videos: videos})
}

// HandlePlay renders the playback page for one video. The page embeds
// a playback URL pointing back at the gateway's streaming route, never
// at the upstream directly.
func (g *Gateway) HandlePlay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid := correlationID(ctx)

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}

	video, err := g.fetchEntity(ctx, g.Targets().Metadata, "/video?id="+url.QueryEscape(id), "video", cid)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch video details",
			"video_id", id,
			"correlation_id", cid,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	g.renderPage(w, r, "play", PlayPageData{
		Video:       video,
		PlaybackURL: "/api/video?id=" + url.QueryEscape(id),
	})
}

// HandleHistory renders the viewing history from the history upstream.
func (g *Gateway) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cid := correlationID(ctx)

	videos, err := g.fetchCollection(ctx, g.Targets().History, "/history", "videos", cid)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch viewing history",
			"correlation_id", cid,
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	g.renderPage(w, r, "history", HistoryPageData{Videos: videos})
}

// HandleUploadPage renders the upload form.
func (g *Gateway) HandleUploadPage(w http.ResponseWriter, r *http.Request) {
	g.renderPage(w, r, "upload", nil)
}

// HandleVideoStream pipes a video from the streaming upstream to the
// client.
func (g *Gateway) HandleVideoStream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}
	g.proxyStream(w, r, g.Targets().Streaming, "/video?id="+url.QueryEscape(id), "video_stream")
}

// HandleUpload pipes an upload body to the upload upstream.
func (g *Gateway) HandleUpload(w http.ResponseWriter, r *http.Request) {
	g.proxyStream(w, r, g.Targets().Upload, "/upload", "upload")
}
