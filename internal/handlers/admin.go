package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

// AdminHandler bundles dependencies for back-office endpoints.
type AdminHandler struct {
	store  storage.Store
	engine *orders.Engine
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(store storage.Store, engine *orders.Engine) *AdminHandler {
	return &AdminHandler{store: store, engine: engine}
}

func adminActor(c *fiber.Ctx) (orders.Actor, error) {
	id, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return orders.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}
	return orders.Actor{Kind: orders.ActorAdmin, ID: id.String()}, nil
}

// Dashboard returns order/sales totals and a per-period series. The period
// query selects daily, weekly or monthly buckets.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.engine.Dashboard(c.Context(), c.Query("period", orders.PeriodDaily))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"dashboard": dashboard,
	})
}

// ListOrders returns all orders, filterable by status.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)
	list, err := h.store.Orders().List(c.Context(), storage.OrderFilter{
		Status: c.Query("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  list,
		"page":    p.Page,
	})
}

// GetOrder returns any order with items and audit trail.
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.store.Orders().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus moves an order along the pipeline.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	actor, err := adminActor(c)
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	order, err := h.engine.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

type assignAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// AssignAgent binds a delivery agent to an order.
func (h *AdminHandler) AssignAgent(c *fiber.Ctx) error {
	actor, err := adminActor(c)
	if err != nil {
		return err
	}

	var req assignAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.AgentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "agent_id is required")
	}

	order, err := h.engine.AssignAgent(c.Context(), actor, c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// CancelOrder cancels any non-terminal order on behalf of the store.
func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	actor, err := adminActor(c)
	if err != nil {
		return err
	}

	var req cancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.engine.Cancel(c.Context(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// ListUsers returns all customer accounts.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.store.Users().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetUser returns one customer account with their orders.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.store.Users().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	userOrders, err := h.store.Orders().ListByUser(c.Context(), user.ID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"orders":  userOrders,
	})
}

// DeleteUser removes a customer account. Their orders are kept.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.store.Users().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListAdmins returns all back-office accounts.
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	admins, err := h.store.Admins().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"admins":  admins,
	})
}

type createAdminRequest struct {
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Password    string               `json:"password"`
	Role        string               `json:"role"`
	Permissions models.PermissionSet `json:"permissions"`
}

// CreateAdmin provisions a back-office account. The account must change its
// password on first login.
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.AdminRoleManager
	}
	permissions := req.Permissions
	if role == models.AdminRoleSuper {
		permissions = models.FullPermissions()
	}
	if permissions == nil {
		permissions = models.PermissionSet{}
	}

	admin := &models.AdminUser{
		Name:               req.Name,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       hash,
		Role:               role,
		Permissions:        permissions,
		MustChangePassword: true,
	}
	if err := h.store.Admins().Create(c.Context(), admin); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"admin":   admin,
	})
}

type updateAdminRequest struct {
	Name        string               `json:"name"`
	Role        string               `json:"role"`
	Permissions models.PermissionSet `json:"permissions"`
}

// UpdateAdmin edits a back-office account's role and permissions.
func (h *AdminHandler) UpdateAdmin(c *fiber.Ctx) error {
	admin, err := h.store.Admins().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var req updateAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		admin.Name = req.Name
	}
	if req.Role != "" {
		admin.Role = req.Role
	}
	if req.Permissions != nil {
		admin.Permissions = req.Permissions
	}
	if admin.Role == models.AdminRoleSuper {
		admin.Permissions = models.FullPermissions()
	}

	if err := h.store.Admins().Update(c.Context(), admin); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"admin":   admin,
	})
}

// DeleteAdmin removes a back-office account. The caller cannot delete
// themselves.
func (h *AdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	id, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}
	if id.String() == c.Params("id") {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete your own account")
	}

	if err := h.store.Admins().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListAgents returns all delivery agents.
func (h *AdminHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.store.Agents().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"agents":  agents,
	})
}

type createAgentRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	VehicleNo string `json:"vehicle_no"`
}

// CreateAgent provisions a delivery-agent account.
func (h *AdminHandler) CreateAgent(c *fiber.Ctx) error {
	var req createAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" || len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "name, phone and a password of at least 8 characters are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	agent := &models.DeliveryAgent{
		Name:         req.Name,
		Phone:        strings.TrimSpace(req.Phone),
		Email:        req.Email,
		PasswordHash: hash,
		Status:       models.AgentStatusActive,
		VehicleNo:    req.VehicleNo,
	}
	if err := h.store.Agents().Create(c.Context(), agent); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"agent":   agent,
	})
}

type updateAgentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	VehicleNo string `json:"vehicle_no"`
}

// UpdateAgent edits a delivery agent. Setting status inactive blocks login
// and new assignments; in-flight orders stay assigned.
func (h *AdminHandler) UpdateAgent(c *fiber.Ctx) error {
	agent, err := h.store.Agents().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	var req updateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Email != "" {
		agent.Email = req.Email
	}
	if req.Status != "" {
		if req.Status != models.AgentStatusActive && req.Status != models.AgentStatusInactive {
			return fiber.NewError(fiber.StatusBadRequest, "unknown agent status")
		}
		agent.Status = req.Status
	}
	if req.VehicleNo != "" {
		agent.VehicleNo = req.VehicleNo
	}

	if err := h.store.Agents().Update(c.Context(), agent); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"agent":   agent,
	})
}

// DeleteAgent removes a delivery-agent account.
func (h *AdminHandler) DeleteAgent(c *fiber.Ctx) error {
	if err := h.store.Agents().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
