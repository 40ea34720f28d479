package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/request"
	"github.com/fkhayef/mealsplit/pkg/response"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler with service dependency injected
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for user endpoints. Sign-up stays public; the
// rest sits behind auth.
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})

	return r
}

// MeRoutes returns the router for the current user's endpoints
func (h *Handler) MeRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Me)
	r.Patch("/", h.UpdateMe)
	r.Get("/stats", h.MyStats)

	return r
}

// Create handles POST /users
// @Summary      Create a new user
// @Description  Register a user with an email and display name
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User creation request"
// @Success      201 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create user")
		return
	}

	response.JSON(w, http.StatusCreated, u)
}

// GetByID handles GET /users/{id}
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.UUIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// List handles GET /users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        limit query int false "Page size" default(20)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} response.APIResponse{data=[]User}
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := request.Pagination(r, 20, 100)

	users, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err, "Failed to list users")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, users, &response.Meta{Limit: limit, Offset: offset, Total: total})
}

// Me handles GET /me
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      401 {object} response.APIResponse
// @Router       /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// UpdateMe handles PATCH /me
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Router       /me [patch]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateUserRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to update user")
		return
	}

	response.JSON(w, http.StatusOK, u)
}

// MyStats handles GET /me/stats
// @Summary      Current user stats
// @Description  Purchase, share and settlement totals across all rooms, plus the last 30 days
// @Tags         users
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Stats}
// @Router       /me/stats [get]
func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load stats")
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrEmailAlreadyInUse):
		response.Conflict(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
