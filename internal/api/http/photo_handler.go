package http

import (
	"io"
	"net/http"
	"strings"

	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PhotoHandler accepts trip photos for a booking and serves them back.
// The returned URLs are what EndTrip records as end photos.
type PhotoHandler struct {
	store    storage.PhotoStore
	bookings service.BookingService
	maxBytes int64
}

func NewPhotoHandler(store storage.PhotoStore, bookings service.BookingService, maxBytes int64) *PhotoHandler {
	return &PhotoHandler{store: store, bookings: bookings, maxBytes: maxBytes}
}

// Upload takes the raw image as the request body
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	b, ok := loadBookingForParty(h.bookings, w, r, true, true)
	if !ok {
		return
	}

	contentType := strings.TrimSpace(strings.SplitN(r.Header.Get("Content-Type"), ";", 2)[0])
	ext, ok := storage.AllowedContentTypes[contentType]
	if !ok {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be image/jpeg, image/png or image/webp")
		return
	}
	if h.maxBytes > 0 && r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "photo too large")
		return
	}

	key := b.ID + "-" + uuid.NewString() + ext
	url, err := h.store.Save(r.Context(), key, contentType, r.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "trip photo uploaded", "bookingID", b.ID, "key", key)
	writeJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}

func (h *PhotoHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.store.Open(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		logger.WarnContext(r.Context(), "photo download interrupted", "error", err)
	}
}
