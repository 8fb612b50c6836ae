package masterdata

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karobar-books/karobar/internal/platform/httpx"
)

// Handler exposes the master-data workflows over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers master-data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/materials", h.listMaterials)
	r.Post("/materials", h.createMaterial)
	r.Get("/parties", h.listParties)
	r.Post("/parties", h.createParty)
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.service.ListMaterials(r.Context())
	if err != nil {
		h.fail(w, "list materials", err)
		return
	}
	httpx.JSON(w, http.StatusOK, materials)
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	var req CreateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	material, err := h.service.CreateMaterial(r.Context(), req)
	if err != nil {
		h.fail(w, "create material", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, material)
}

func (h *Handler) listParties(w http.ResponseWriter, r *http.Request) {
	filter, err := ParsePartyFilter(r.URL.Query().Get("for"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	parties, err := h.service.ListParties(r.Context(), filter)
	if err != nil {
		h.fail(w, "list parties", err)
		return
	}
	httpx.JSON(w, http.StatusOK, parties)
}

func (h *Handler) createParty(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON payload")
		return
	}
	party, err := h.service.CreateParty(r.Context(), req)
	if err != nil {
		h.fail(w, "create party", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, party)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
