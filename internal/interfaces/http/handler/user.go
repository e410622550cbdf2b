package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// UserService is the admin user API the handler drives
type UserService interface {
	List(ctx context.Context, f identity.UserListFilter) (shared.Paginated[identity.UserResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req identity.AdminUpdateUserRequest) (*identity.UserResponse, error)
	SetVerification(ctx context.Context, id uuid.UUID, verified bool) (*identity.UserResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// UserHandler handles the admin user endpoints
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(base BaseHandler, users UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, users: users}
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Name or email"
// @Param        role      query string false "user or admin"
// @Param        verified  query bool   false "Verification flag"
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var f identity.UserListFilter
	if !h.BindQuery(c, &f) {
		return
	}
	users, err := h.users.List(c.Request.Context(), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, users)
}

// Get godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update godoc
// @Summary      Update a user
// @Description  Admins cannot change their own role.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string true "User ID" format(uuid)
// @Param        request body identity.AdminUpdateUserRequest true "Fields to change"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identity.AdminUpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "User updated", user)
}

// SetVerification godoc
// @Summary      Set a user's verified flag
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string true "User ID" format(uuid)
// @Param        request body identity.SetVerificationRequest true "Flag"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/verification [patch]
func (h *UserHandler) SetVerification(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req identity.SetVerificationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.users.SetVerification(c.Request.Context(), id, *req.IsVerified)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Verification updated", user)
}

// Delete godoc
// @Summary      Delete a user
// @Description  Users with orders cannot be deleted.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "User deleted", nil)
}
