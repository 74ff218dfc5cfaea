package ingest

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mediary/service/internal/generate"
	"github.com/mediary/service/internal/media"
	"github.com/mediary/service/internal/response"
)

// maxUploadBytes caps the raw request body for direct uploads.
const maxUploadBytes = 5 * 1024 * 1024

// Handler holds HTTP handlers for media ingestion endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new ingest Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Ingest media
//	@Description	Accepts raw media bytes (jpeg, png, webp, gif, mp4), stores the original and a derived variant, and returns their locators.
//	@Tags			images
//	@Accept			octet-stream
//	@Produce		json
//	@Security		BearerAuth
//	@Param			variant	query		string	false	"Derived variant: thumbnail or avatar (default thumbnail)"
//	@Success		201		{object}	response.Envelope{data=media.Asset}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/images [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		response.BadRequest(w, "could not read body")
		return
	}

	variant := media.ParseVariant(r.URL.Query().Get("variant"))

	asset, err := h.svc.Upload(r.Context(), uuid.NewString(), body, variant)
	if err != nil {
		if isInputError(err) {
			response.BadRequest(w, "could not process media")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, asset)
}

// Get godoc
//
//	@Summary		Look up an ingested asset
//	@Description	Returns the asset's locators when both the original and the requested variant are stored.
//	@Tags			images
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Asset id"
//	@Param			variant	query		string	false	"Derived variant: thumbnail or avatar (default thumbnail)"
//	@Success		200		{object}	response.Envelope{data=media.Asset}
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/images/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	variant := media.ParseVariant(r.URL.Query().Get("variant"))

	asset, err := h.svc.Get(r.Context(), id, variant)
	if err != nil {
		response.InternalError(w)
		return
	}
	if asset == nil {
		response.NotFound(w, "asset not found")
		return
	}

	response.OK(w, asset)
}

// isInputError reports whether the failure was caused by the submitted bytes
// rather than by the service or its dependencies.
func isInputError(err error) bool {
	return errors.Is(err, media.ErrFormatUnsupported) ||
		errors.Is(err, media.ErrFormatIndeterminate) ||
		errors.Is(err, generate.ErrDecode)
}
