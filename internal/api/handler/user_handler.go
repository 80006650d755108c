package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// UserHandler serves profile reads and the admin user management surface.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type updateProfileRequest struct {
	Bio         *string `json:"bio,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type changePasswordRequest struct {
	OldPassword  string `json:"old_password" validate:"required"`
	NewPassword  string `json:"new_password" validate:"required"`
	NewPassword2 string `json:"new_password2" validate:"required,eqfield=NewPassword"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int64          `json:"total"`
}

// publicProfile hides email and phone from non-owners.
type publicProfile struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	Bio       string      `json:"bio,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// Me handles GET /api/users/me.
//
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /api/users/me.
//
// @Summary      Update the caller's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Router       /api/users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), actor, ports.UpdateProfileInput{
		Bio:         req.Bio,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /api/users/me/password.
//
// @Summary      Change the caller's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new passwords"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/users/me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// GetByUsername handles GET /api/users/:username, the public profile view.
//
// @Summary      Get a user's public profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  publicProfile
// @Failure      404       {object}  map[string]string
// @Router       /api/users/{username} [get]
func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.service.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publicProfile{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// List handles GET /api/users (admin).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (max 100)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	users, total, err := h.service.List(c.Request().Context(), actor, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Total: total})
}

// UpdateRole handles PUT /api/users/:id/role (admin).
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateRole(c.Request().Context(), actor, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
