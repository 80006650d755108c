package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/api/metrics"
	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// AuthHandler exposes the account security flows: registration, email
// verification, login, password reset, and token lifecycle.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new unverified account and emails a verification code.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Bio:         req.Bio,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	metrics.CodesIssuedTotal.WithLabelValues(string(domain.PurposeEmailVerify)).Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "Registration successful! Please check your email for verification code.",
		User: registeredUser{
			ID:       result.User.ID,
			Username: result.User.Username,
			Email:    result.User.Email,
		},
		EmailVerificationRequired: result.EmailVerificationRequired,
	})
}

// VerifyEmail confirms the emailed code and starts the first session.
//
// @Summary      Verify email with the emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and 6-digit code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.VerifyEmail(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}

	metrics.CodesConsumedTotal.WithLabelValues(string(domain.PurposeEmailVerify)).Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "Email verified successfully!",
		User:    result.User,
		Tokens:  result.Tokens,
	})
}

// ResendVerification issues a fresh verification code. The response does not
// reveal whether the email is registered.
//
// @Summary      Resend the verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues(string(domain.PurposeEmailVerify)).Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Message: "If the email exists, verification code has been sent",
	})
}

// Login authenticates a user and returns a token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginFailureReason(err)).Inc()
		if wasJustLocked(err) {
			metrics.LockoutsTotal.Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, sessionResponse{
		User:   result.User,
		Tokens: result.Tokens,
	})
}

// ForgotPassword issues a password reset code. The response does not reveal
// whether the email is registered.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues(string(domain.PurposePasswordReset)).Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Message: "If this email is registered, a reset code has been sent",
	})
}

// VerifyResetCode checks a reset code without consuming it, so the client can
// gate the new-password form.
//
// @Summary      Verify a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyResetCodeRequest  true  "Email and 6-digit code"
// @Success      200   {object}  verifyResetCodeResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(c echo.Context) error {
	var req verifyResetCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyResetCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyResetCodeResponse{
		Message: "Code verified successfully",
		Email:   req.Email,
		Code:    req.Code,
	})
}

// ResetPassword sets a new password after code verification.
//
// @Summary      Reset password with a verified code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return err
	}

	metrics.CodesConsumedTotal.WithLabelValues(string(domain.PurposePasswordReset)).Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Message: "Password reset successfully! You can now login with your new password.",
	})
}

// Refresh rotates a refresh token into a new token pair.
//
// @Summary      Refresh the session tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tokens, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refreshResponse{Tokens: *tokens})
}

// Logout revokes the presented refresh token.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountLocked):
		return "locked"
	case errors.Is(err, domain.ErrEmailNotVerified):
		return "unverified"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}

func wasJustLocked(err error) bool {
	var le *domain.LockedError
	return errors.As(err, &le) && le.Triggered
}
