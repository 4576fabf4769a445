package handler

import (
	"encoding/json"
	"net/http"

	"cakery/internal/model"
	"cakery/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPreviewBytes bounds preview image uploads.
const maxPreviewBytes = 10 << 20

// CakeHandler handles cake design and pricing HTTP requests.
type CakeHandler struct {
	cakeService service.CakeService
	userService service.UserService
	logger      zerolog.Logger
}

// NewCakeHandler creates a new cake handler.
func NewCakeHandler(cakeService service.CakeService, userService service.UserService, logger zerolog.Logger) *CakeHandler {
	return &CakeHandler{
		cakeService: cakeService,
		userService: userService,
		logger:      logger.With().Str("handler", "cake").Logger(),
	}
}

// Quote handles POST /api/cakes/quote. Pricing is pure, so no profile is
// needed beyond the authenticated identity.
func (h *CakeHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}

	total, err := h.cakeService.Quote(req.Config)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.QuoteResponse{TotalAmount: total})
}

// Create handles POST /api/cakes.
func (h *CakeHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	var req model.CakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload", h.logger)
		return
	}

	cake, err := h.cakeService.SaveCake(r.Context(), profile.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().Str("cake_id", cake.ID.String()).Msg("cake design saved")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"cake": cake})
}

// List handles GET /api/cakes.
func (h *CakeHandler) List(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	cakes, err := h.cakeService.ListCakes(r.Context(), profile.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if cakes == nil {
		cakes = []model.Cake{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cakes": cakes})
}

// UploadPreview handles POST /api/cakes/{id}/preview. The request body is
// the raw image; its Content-Type header selects the stored extension.
func (h *CakeHandler) UploadPreview(w http.ResponseWriter, r *http.Request) {
	profile, ok := resolveProfile(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	cakeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cake ID", h.logger)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxPreviewBytes)
	cake, err := h.cakeService.AttachPreview(r.Context(), profile.ID, cakeID, r.Header.Get("Content-Type"), body)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Info().Str("cake_id", cake.ID.String()).Msg("preview attached")
	writeJSON(w, http.StatusOK, map[string]interface{}{"cake": cake})
}
