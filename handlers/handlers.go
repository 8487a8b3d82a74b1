package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"yt-scribe/errors"
	"yt-scribe/models"
	"yt-scribe/services/transcript"
	"yt-scribe/youtube"
)

// TranscriptHandler exposes the transcript service over HTTP.
type TranscriptHandler struct {
	service transcript.Service
	logger  *logrus.Logger
}

func NewTranscriptHandler(service transcript.Service) *TranscriptHandler {
	return &TranscriptHandler{
		service: service,
		logger:  logrus.StandardLogger(),
	}
}

// RegisterRoutes mounts the API routes on the mux.
func (h *TranscriptHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/transcripts", h.HandleAcquire)
	mux.HandleFunc("GET /api/transcripts/{id}", h.HandleGet)
	mux.HandleFunc("POST /api/transcripts/{id}/summary", h.HandleSummarize)
	mux.HandleFunc("POST /api/notes", h.HandleNotes)
	mux.HandleFunc("GET /health", h.HandleHealth)
}

type urlRequest struct {
	URL string `json:"url"`
}

// readURL extracts the video URL from a JSON body or form data.
func readURL(r *http.Request, op string) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req urlRequest
		if err := readJSON(r, &req); err != nil {
			return "", err
		}
		if req.URL == "" {
			return "", errors.InvalidReference(op, nil, "URL is required")
		}
		return req.URL, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", errors.InvalidReference(op, err, "Failed to parse form data")
	}
	url := r.FormValue("url")
	if url == "" {
		return "", errors.InvalidReference(op, nil, "URL is required")
	}
	return url, nil
}

// HandleAcquire handles POST /api/transcripts.
func (h *TranscriptHandler) HandleAcquire(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleAcquire"
	logger := h.logger.WithContext(r.Context())

	url, err := readURL(r, op)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.WithField("url", url).Info("Received transcript request")

	result, err := h.service.Acquire(r.Context(), url)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewTranscriptResponse(result.Transcript, result.Source))
}

// HandleGet handles GET /api/transcripts/{id}. The id may be a record ID
// or a video ID.
func (h *TranscriptHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleGet"

	id := r.PathValue("id")
	if id == "" {
		respondError(w, r, errors.InvalidReference(op, nil, "Transcript ID is required"))
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewTranscriptResponse(record, ""))
}

// HandleSummarize handles POST /api/transcripts/{id}/summary.
func (h *TranscriptHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleSummarize"

	id := r.PathValue("id")
	if id == "" {
		respondError(w, r, errors.InvalidReference(op, nil, "Transcript ID is required"))
		return
	}

	result, err := h.service.Summarize(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.SummaryResponse{
		VideoID: result.VideoID,
		Source:  result.Source,
		Summary: result.Summary,
	})
}

// HandleNotes handles POST /api/notes. Notes are generated per request
// and never persisted.
func (h *TranscriptHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	const op = "TranscriptHandler.HandleNotes"
	logger := h.logger.WithContext(r.Context())

	url, err := readURL(r, op)
	if err != nil {
		respondError(w, r, err)
		return
	}

	videoID, err := youtube.Resolve(url)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.WithField("video_id", videoID).Info("Received notes request")

	notes, err := h.service.Notes(r.Context(), url)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, &models.NotesResponse{
		VideoID: videoID,
		Notes:   notes,
	})
}

// HandleHealth handles GET /health.
func (h *TranscriptHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
