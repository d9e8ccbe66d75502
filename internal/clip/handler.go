package clip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"clipserver/internal/platform/metrics"

	"github.com/google/uuid"
)

// cookiesDocsURL points at the external tool's documentation for supplying
// cookies, included in authentication-required error responses.
const cookiesDocsURL = "https://github.com/yt-dlp/yt-dlp/wiki/FAQ#how-do-i-pass-cookies-to-yt-dlp"

// Extractor is the contract the handler needs from the orchestrator.
// *Downloader implements it; tests substitute fakes.
type Extractor interface {
	DownloadClip(ctx context.Context, opts ClipOptions) (ClipResult, error)
}

// Handler exposes the clip-extraction HTTP endpoints.
type Handler struct {
	extractor    Extractor
	log          *slog.Logger
	metrics      *metrics.Metrics
	allowedHosts []string
	outputDir    string
	cookieDir    string
}

// NewHandler returns a Handler using the given Extractor, logger, and
// optional Metrics (nil disables metric recording, e.g. in tests).
// allowedHosts is the set of source domains requests may target; outputDir
// is where the extractor writes clips (swept for a request's leftovers on
// cleanup); cookieDir is where staged cookie-jar files are written.
func NewHandler(extractor Extractor, log *slog.Logger, m *metrics.Metrics, allowedHosts []string, outputDir, cookieDir string) *Handler {
	return &Handler{
		extractor:    extractor,
		log:          log,
		metrics:      m,
		allowedHosts: allowedHosts,
		outputDir:    outputDir,
		cookieDir:    cookieDir,
	}
}

// errorResponse is the JSON body for all failure statuses.
type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
	Docs  string `json:"docs,omitempty"`
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// ExtractClip handles GET and POST /api/clip. The GET form takes url,
// start, end, and an optional cookie query parameter; the POST form takes a
// JSON body that additionally carries a base64 cookie jar and an explicit
// container format.
func (h *Handler) ExtractClip(w http.ResponseWriter, r *http.Request) {
	req, err := decodeClipRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if req.Format == "" {
		req.Format = FormatMP4
	}
	if !req.Format.Valid() {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported format %q", req.Format)})
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid url"})
		return
	}
	if !hostAllowed(u.Hostname(), h.allowedHosts) {
		h.log.Info("rejected disallowed host", slog.String("host", u.Hostname()))
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("domain %q is not allowed", u.Hostname())})
		return
	}

	start, err := ParseTimeToSeconds(req.Start)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	end, err := ParseTimeToSeconds(req.End)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var cookieFile string
	if req.CookiesB64 != "" {
		cookieFile, err = StageCookies(h.cookieDir, req.CookiesB64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	base := uuid.New().String()

	// Cleanup runs once the response ends, however it ends. Deletion
	// failures are swallowed; the artifacts are per-request temp files.
	// Failed extractions can leave partial files under the base name
	// (e.g. base.mp4.part), so the output dir is swept by prefix too.
	var outputPath string
	defer func() {
		h.removeQuietly(outputPath)
		h.sweepArtifacts(base)
		h.removeQuietly(cookieFile)
	}()

	opts := ClipOptions{
		URL:          req.URL,
		Start:        start,
		End:          end,
		Format:       req.Format,
		BaseName:     base,
		CookieHeader: req.Cookie,
		CookiesFile:  cookieFile,
	}

	if h.metrics != nil {
		h.metrics.IncActiveExtractions()
	}
	result, err := h.extractor.DownloadClip(r.Context(), opts)
	if h.metrics != nil {
		h.metrics.DecActiveExtractions()
	}
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncClipFailures()
		}
		switch {
		case errors.Is(err, ErrInvalidRange):
			h.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case IsAuthRequired(err):
			h.log.Info("extraction requires authentication", slog.String("url", req.URL))
			h.writeError(w, http.StatusUnauthorized, errorResponse{
				Error: err.Error(),
				Hint:  "the source requires authentication: supply a cookie header or a base64 cookies_b64 cookie jar and retry",
				Docs:  cookiesDocsURL,
			})
		default:
			h.log.Error("extraction failed", slog.String("url", req.URL), slog.String("error", err.Error()))
			h.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}
	outputPath = result.OutputPath

	f, err := os.Open(result.OutputPath)
	if err != nil {
		h.log.Error("open clip output", slog.String("path", result.OutputPath), slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, errorResponse{Error: "clip output unavailable"})
		return
	}
	defer f.Close()

	name := filepath.Base(result.OutputPath)
	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)

	// Stream in file order; a client disconnect fails the copy, which
	// still runs the deferred cleanup.
	if _, err := io.Copy(w, f); err != nil {
		h.log.Debug("clip stream aborted", slog.String("path", result.OutputPath), slog.String("error", err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.IncClipsExtracted()
	}
	h.log.Info("clip served",
		slog.String("url", req.URL),
		slog.String("file", name),
		slog.String("format", string(req.Format)),
	)
}

// decodeClipRequest builds a ClipRequest from either the query-parameter
// GET form or the JSON POST form.
func decodeClipRequest(r *http.Request) (ClipRequest, error) {
	var req ClipRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req = ClipRequest{
			URL:    q.Get("url"),
			Start:  q.Get("start"),
			End:    q.Get("end"),
			Format: Format(q.Get("format")),
			Cookie: q.Get("cookie"),
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return ClipRequest{}, fmt.Errorf("invalid request body: %v", err)
		}
	default:
		return ClipRequest{}, fmt.Errorf("method %s not supported", r.Method)
	}

	if req.URL == "" || req.Start == "" || req.End == "" {
		return ClipRequest{}, errors.New("url, start, and end are required")
	}
	return req, nil
}

// hostAllowed reports whether host equals one of the allowed domains or is
// a subdomain of one.
func hostAllowed(host string, allowed []string) bool {
	host = strings.ToLower(host)
	for _, domain := range allowed {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// sweepArtifacts removes every entry under the output dir belonging to the
// request's base name, catching partial files the tool left behind.
func (h *Handler) sweepArtifacts(base string) {
	if base == "" || h.outputDir == "" {
		return
	}
	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		return
	}
	prefix := base + "."
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			h.removeQuietly(filepath.Join(h.outputDir, entry.Name()))
		}
	}
}

func (h *Handler) removeQuietly(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.log.Debug("cleanup failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Debug("write error response", slog.String("error", err.Error()))
	}
}
