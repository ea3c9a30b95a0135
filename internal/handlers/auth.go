package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/otp"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	store storage.Store
	cfg   *config.Config
	otp   *otp.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store storage.Store, cfg *config.Config, otpService *otp.Service) *AuthHandler {
	return &AuthHandler{store: store, cfg: cfg, otp: otpService}
}

type requestOTPRequest struct {
	Identifier string `json:"identifier"` // phone or email
}

// RequestOTP issues a login code for a phone number or email address. The
// code itself never appears in the response.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req requestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return fiber.NewError(fiber.StatusBadRequest, "identifier is required")
	}

	channel := "sms"
	if strings.Contains(identifier, "@") {
		channel = "email"
	}

	name := ""
	if user, err := h.store.Users().FindByIdentifier(c.Context(), identifier); err == nil {
		name = user.Name
	}

	expiresAt, err := h.otp.Request(c.Context(), identifier, channel, name)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"channel":    channel,
		"expires_at": expiresAt,
	})
}

type verifyOTPRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
	Name       string `json:"name"`
}

// VerifyOTP completes passwordless login. A matching code logs the user in;
// an unknown identifier registers a fresh account on the fly.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "identifier and code are required")
	}

	if err := h.otp.Verify(c.Context(), identifier, req.Code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no code requested for this identifier")
		}
		return err
	}

	user, err := h.store.Users().FindByIdentifier(c.Context(), identifier)
	if errors.Is(err, storage.ErrNotFound) {
		user = &models.User{
			Name:     req.Name,
			Provider: models.ProviderOTP,
		}
		if strings.Contains(identifier, "@") {
			user.Email = identifier
		} else {
			user.Phone = identifier
		}
		if err := h.store.Users().Create(c.Context(), user); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, utils.RoleCustomer, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	if err := h.otp.Consume(c.Context(), identifier); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates a back-office account. Five consecutive failures
// lock the account for fifteen minutes.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	admin, err := h.store.Admins().FindByEmail(c.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	now := time.Now()
	if admin.Locked(now) {
		return fiber.NewError(fiber.StatusLocked, "account temporarily locked, try again later")
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		admin.FailedLoginAttempts++
		if admin.FailedLoginAttempts >= maxFailedLogins {
			until := now.Add(lockoutDuration)
			admin.LockedUntil = &until
			admin.FailedLoginAttempts = 0
		}
		if err := h.store.Admins().Update(c.Context(), admin); err != nil {
			return err
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	if err := h.store.Admins().Update(c.Context(), admin); err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, admin.ID, utils.RoleAdmin, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":              true,
		"token":                token,
		"admin":                admin,
		"must_change_password": admin.MustChangePassword,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AdminChangePassword rotates the caller's password and clears the
// must-change flag set on provisioned accounts.
func (h *AuthHandler) AdminChangePassword(c *fiber.Ctx) error {
	id, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.NewPassword) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	admin, err := h.store.Admins().FindByID(c.Context(), id.String())
	if err != nil {
		return err
	}
	if !utils.CheckPassword(admin.PasswordHash, req.CurrentPassword) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}
	admin.PasswordHash = hash
	admin.MustChangePassword = false
	if err := h.store.Admins().Update(c.Context(), admin); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

type agentLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AgentLogin authenticates a delivery agent. Inactive agents cannot log in.
func (h *AuthHandler) AgentLogin(c *fiber.Ctx) error {
	var req agentLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	agent, err := h.store.Agents().FindByPhone(c.Context(), strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !agent.Active() {
		return fiber.NewError(fiber.StatusForbidden, "account is inactive")
	}
	if !utils.CheckPassword(agent.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, agent.ID, utils.RoleAgent, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"agent":   agent,
	})
}
