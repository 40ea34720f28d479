package purchase

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/mealsplit/internal/money"
	"github.com/fkhayef/mealsplit/internal/purchase/split"
	"github.com/fkhayef/mealsplit/internal/room"
	"github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/request"
	"github.com/fkhayef/mealsplit/pkg/response"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Handler handles HTTP requests for purchase operations
type Handler struct {
	service *Service
}

// NewHandler creates a new purchase handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for purchase endpoints. It is mounted under
// /rooms/{roomId}/purchases.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{purchaseId}", h.GetByID)

	return r
}

// Create handles POST /rooms/{roomId}/purchases
// @Summary      Record a purchase
// @Description  Record a purchase and split it between the eligible active members
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body CreatePurchaseRequest true "Purchase"
// @Success      201 {object} response.APIResponse{data=PurchaseWithSplits}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/purchases [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	var req CreatePurchaseRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.Create(r.Context(), roomID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create purchase")
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// List handles GET /rooms/{roomId}/purchases
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        limit query int false "Page size" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} response.APIResponse{data=[]Purchase,meta=response.Meta}
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/purchases [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	limit, offset := request.Pagination(r, defaultPageSize, maxPageSize)
	purchases, total, err := h.service.List(r.Context(), roomID, userID, limit, offset)
	if err != nil {
		writeError(w, err, "Failed to list purchases")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, purchases, &response.Meta{Limit: limit, Offset: offset, Total: total})
}

// GetByID handles GET /rooms/{roomId}/purchases/{purchaseId}
// @Summary      Get purchase
// @Tags         purchases
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        purchaseId path string true "Purchase ID"
// @Success      200 {object} response.APIResponse{data=PurchaseWithSplits}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{roomId}/purchases/{purchaseId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	purchaseID, err := request.UUIDParam(r, "purchaseId")
	if err != nil {
		response.BadRequest(w, "Invalid purchase ID")
		return
	}

	result, err := h.service.Get(r.Context(), roomID, userID, purchaseID)
	if err != nil {
		writeError(w, err, "Failed to get purchase")
		return
	}

	response.JSON(w, http.StatusOK, result)
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
	if splitErr, ok := split.AsError(err); ok {
		response.ValidationError(w, "SPLIT_INVALID", splitErr.Error(), splitErr)
		return
	}

	switch {
	case room.WriteError(w, err):
	case errors.Is(err, ErrPurchaseNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, money.ErrInvalidAmount):
		response.ValidationError(w, "INVALID_AMOUNT", err.Error(), nil)
	case errors.Is(err, ErrPayerNotActive), errors.Is(err, split.ErrUnknownMode):
		response.BadRequest(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
