package breakperiod

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/mealsplit/internal/room"
	"github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/request"
	"github.com/fkhayef/mealsplit/pkg/response"
)

// Handler handles HTTP requests for break periods
type Handler struct {
	service *Service
}

// NewHandler creates a new break period handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for break period endpoints. It is mounted under
// /rooms/{roomId}/break-periods.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/{periodId}", h.Delete)

	return r
}

// Create handles POST /rooms/{roomId}/break-periods
// @Summary      Create break period
// @Description  Exclude a member from splits of purchases dated inside a date range
// @Tags         break-periods
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body CreateBreakPeriodRequest true "Break period"
// @Success      201 {object} response.APIResponse{data=BreakPeriod}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/break-periods [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	var req CreateBreakPeriodRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	period, err := h.service.Create(r.Context(), roomID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create break period")
		return
	}

	response.JSON(w, http.StatusCreated, period)
}

// List handles GET /rooms/{roomId}/break-periods
// @Summary      List break periods
// @Tags         break-periods
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=[]BreakPeriod}
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/break-periods [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	periods, err := h.service.List(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err, "Failed to list break periods")
		return
	}

	response.JSON(w, http.StatusOK, periods)
}

// Delete handles DELETE /rooms/{roomId}/break-periods/{periodId}
// @Summary      Delete break period
// @Tags         break-periods
// @Param        roomId path string true "Room ID"
// @Param        periodId path string true "Break period ID"
// @Success      204 "No Content"
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{roomId}/break-periods/{periodId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, roomID, ok := roomParams(w, r)
	if !ok {
		return
	}

	periodID, err := request.UUIDParam(r, "periodId")
	if err != nil {
		response.BadRequest(w, "Invalid break period ID")
		return
	}

	if err := h.service.Delete(r.Context(), roomID, userID, periodID); err != nil {
		writeError(w, err, "Failed to delete break period")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
	case errors.Is(err, ErrBreakPeriodNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrTargetNotActive):
		response.BadRequest(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
