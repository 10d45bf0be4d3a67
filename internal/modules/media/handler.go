package media

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/qrmenu-backend/internal/platform/logging"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 5 << 20

// Upload describes a stored file.
type Upload struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Handler struct {
	storage     Storage
	requireUser func(http.Handler) http.Handler
	baseURL     string
	uploadDir   string
	log         zerolog.Logger
}

func NewHandler(storage Storage, requireUser func(http.Handler) http.Handler, baseURL, uploadDir string) *Handler {
	return &Handler{
		storage:     storage,
		requireUser: requireUser,
		baseURL:     baseURL,
		uploadDir:   uploadDir,
		log:         logging.For("media"),
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.With(h.requireUser).Post("/api/v1/admin/uploads", h.upload)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir))))
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, ErrTooLarge)
			return
		}
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()
	if header.Size > MaxUploadSize {
		respondError(w, ErrTooLarge)
		return
	}

	ext, body, err := sniff(file)
	if err != nil {
		respondError(w, err)
		return
	}
	stored, err := h.storage.Save(r.Context(), r.FormValue("folder"), ext, body)
	if err != nil {
		respondError(w, err)
		return
	}
	h.log.Info().Str("path", stored).Msg("image uploaded")
	respond(w, http.StatusCreated, Upload{Path: stored, URL: PublicURL(h.baseURL, stored)})
}

// sniff detects the image type from the first bytes and returns a reader
// that still yields the whole file.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", nil, ErrNotImage
	}
	return ext, io.MultiReader(bytes.NewReader(head), r), nil
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidFolder), errors.Is(err, ErrNotImage):
		status = http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
