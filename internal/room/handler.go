package room

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/mealsplit/pkg/middleware"
	"github.com/fkhayef/mealsplit/pkg/request"
	"github.com/fkhayef/mealsplit/pkg/response"
)

// Handler handles HTTP requests for room operations
type Handler struct {
	service *Service
}

// NewHandler creates a new room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for room endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{roomId}", h.GetByID)
	r.Post("/{roomId}/leave", h.Leave)

	// Member management
	r.Post("/{roomId}/members", h.AddMember)
	r.Patch("/{roomId}/members/{memberId}/status", h.UpdateMemberStatus)
	r.Patch("/{roomId}/members/{memberId}/role", h.UpdateMemberRole)
	r.Delete("/{roomId}/members/{memberId}", h.RemoveMember)

	return r
}

// Create handles POST /rooms
// @Summary      Create a new room
// @Description  Create a room; the creator becomes its active owner
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room creation request"
// @Success      201 {object} response.APIResponse{data=Room}
// @Failure      400 {object} response.APIResponse
// @Router       /rooms [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateRoomRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	room, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err, "Failed to create room")
		return
	}

	response.JSON(w, http.StatusCreated, room)
}

// List handles GET /rooms
// @Summary      List my rooms
// @Description  List every room the current user has not left
// @Tags         rooms
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]Summary}
// @Router       /rooms [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	rooms, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to list rooms")
		return
	}

	response.JSON(w, http.StatusOK, rooms)
}

// GetByID handles GET /rooms/{roomId}
// @Summary      Get room
// @Description  Get a room with all its members
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse{data=RoomResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{roomId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	roomID, err := request.UUIDParam(r, "roomId")
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	room, members, err := h.service.GetWithMembers(r.Context(), roomID, userID)
	if err != nil {
		writeError(w, err, "Failed to get room")
		return
	}

	response.JSON(w, http.StatusOK, &RoomResponse{Room: room, Members: members})
}

// AddMember handles POST /rooms/{roomId}/members
// @Summary      Add member
// @Description  Add a user to the room as an active member (admin only)
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=Member}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /rooms/{roomId}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	roomID, err := request.UUIDParam(r, "roomId")
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	var req AddMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !request.ValidUUID(req.UserID) {
		response.BadRequest(w, "Invalid user ID")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	member, err := h.service.AddMember(r.Context(), roomID, userID, &req)
	if err != nil {
		writeError(w, err, "Failed to add member")
		return
	}

	response.JSON(w, http.StatusCreated, member)
}

// UpdateMemberStatus handles PATCH /rooms/{roomId}/members/{memberId}/status
// @Summary      Update member status
// @Description  Move a membership between pending, active, rejected and left (admin only)
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        memberId path string true "Membership ID"
// @Param        request body UpdateMemberStatusRequest true "New status"
// @Success      200 {object} response.APIResponse{data=Member}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/members/{memberId}/status [patch]
func (h *Handler) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	userID, roomID, memberID, ok := memberParams(w, r)
	if !ok {
		return
	}

	var req UpdateMemberStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	member, err := h.service.UpdateMemberStatus(r.Context(), roomID, userID, memberID, req.Status)
	if err != nil {
		writeError(w, err, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, member)
}

// UpdateMemberRole handles PATCH /rooms/{roomId}/members/{memberId}/role
// @Summary      Update member role
// @Description  Change a member's role (owner only)
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        memberId path string true "Membership ID"
// @Param        request body UpdateMemberRoleRequest true "New role"
// @Success      200 {object} response.APIResponse{data=Member}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /rooms/{roomId}/members/{memberId}/role [patch]
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, roomID, memberID, ok := memberParams(w, r)
	if !ok {
		return
	}

	var req UpdateMemberRoleRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	member, err := h.service.UpdateMemberRole(r.Context(), roomID, userID, memberID, req.Role)
	if err != nil {
		writeError(w, err, "Failed to update member")
		return
	}

	response.JSON(w, http.StatusOK, member)
}

// RemoveMember handles DELETE /rooms/{roomId}/members/{memberId}
// @Summary      Remove member
// @Description  Mark a non-owner membership as left (admin only)
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        memberId path string true "Membership ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{roomId}/members/{memberId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, roomID, memberID, ok := memberParams(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), roomID, userID, memberID); err != nil {
		writeError(w, err, "Failed to remove member")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Leave handles POST /rooms/{roomId}/leave
// @Summary      Leave room
// @Description  Leave a room; the last active owner cannot leave
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{roomId}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	roomID, err := request.UUIDParam(r, "roomId")
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return
	}

	if err := h.service.Leave(r.Context(), roomID, userID); err != nil {
		writeError(w, err, "Failed to leave room")
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func memberParams(w http.ResponseWriter, r *http.Request) (userID, roomID, memberID string, ok bool) {
	userID, ok = middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return "", "", "", false
	}

	roomID, err := request.UUIDParam(r, "roomId")
	if err != nil {
		response.BadRequest(w, "Invalid room ID")
		return "", "", "", false
	}

	memberID, err = request.UUIDParam(r, "memberId")
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return "", "", "", false
	}

	return userID, roomID, memberID, true
}

// WriteError writes the response for a known room error and reports whether
// it did. Other features use it for guard errors from the room service.
func WriteError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, ErrNotRoomMember), errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrMemberAlreadyExists), errors.Is(err, ErrRoomFull):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrOwnerCannotLeave), errors.Is(err, ErrOwnerImmutable),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidRole):
		response.BadRequest(w, err.Error())
	default:
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	if WriteError(w, err) {
		return
	}
	slog.Error(fallback, "error", err)
	response.InternalError(w, fallback)
}
