package avatar

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mediary/service/internal/media"
	"github.com/mediary/service/internal/response"
)

// Handler holds HTTP handlers for avatar endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new avatar Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// resolveRequest is the POST /avatars payload.
type resolveRequest struct {
	URL string `json:"url"`
	NFT bool   `json:"nft"`
}

// Resolve godoc
//
//	@Summary		Resolve an avatar URL
//	@Description	Fetches, normalizes and stores the avatar at the given URL. Repeated calls with the same URL return the already stored avatar without refetching.
//	@Tags			avatars
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		resolveRequest	true	"Avatar source"
//	@Success		201		{object}	response.Envelope{data=media.AvatarRecord}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/avatars [post]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		response.BadRequest(w, "url is required")
		return
	}

	asset, err := h.svc.Resolve(r.Context(), req.URL, req.NFT)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, media.AvatarRecord{ID: asset.ID, URL: asset.Derived.URL})
}
