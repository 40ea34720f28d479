package settlement

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/room"
	"github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/request"
	"github.com/fkhayef/mealsplit/pkg/response"
)

// Handler handles HTTP requests for settlements and balances
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints. It is mounted under
// /rooms/{roomId}/settlements.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)

	return r
}

// BalanceRoutes returns the router mounted under /rooms/{roomId}/balances
func (h *Handler) BalanceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetBalances)
	return r
}

// Create handles POST /rooms/{roomId}/settlements
// @Summary      Record a settlement
// @Description  Record a real-world payment from one active member to another
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body CreateSettlementRequest true "Settlement"
// @Success      201 {object} response.APIResponse{data=Settlement}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/settlements [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	var req CreateSettlementRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	settlement, err := h.service.Create(r.Context(), roomID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create settlement")
		return
	}

	response.JSON(w, http.StatusCreated, settlement)
}

// List handles GET /rooms/{roomId}/settlements
// @Summary      List settlements
// @Tags         settlements
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=[]Settlement}
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/settlements [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	settlements, err := h.service.List(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err, "Failed to list settlements")
		return
	}

	response.JSON(w, http.StatusOK, settlements)
}

// GetBalances handles GET /rooms/{roomId}/balances
// @Summary      Room balances
// @Description  Per-member paid, share and net totals with suggested transfers
// @Tags         balances
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=Balances}
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/balances [get]
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	balances, err := h.service.Balances(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err, "Failed to get balances")
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

func roomParams(w http.ResponseWriter, r *http.Request) (userID, roomID string, ok bool) {
	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return "", "", false
	}

	roomID, err := request.UUIDParam(r, "roomId")
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return "", "", false
	}
	return userID, roomID, true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case room.WriteError(w, err):
	case errors.Is(err, money.ErrInvalidAmount):
		response.ValidationError(w, "INVALID_AMOUNT", err.Error(), nil)
	case errors.Is(err, ErrCannotSettleSelf), errors.Is(err, ErrPartyNotActive):
		response.BadRequest(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
