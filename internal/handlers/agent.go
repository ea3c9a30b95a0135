package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/storage"
)

// AgentHandler bundles dependencies for the delivery-agent portal.
type AgentHandler struct {
	store  storage.Store
	engine *orders.Engine
}

// NewAgentHandler constructs an AgentHandler.
func NewAgentHandler(store storage.Store, engine *orders.Engine) *AgentHandler {
	return &AgentHandler{store: store, engine: engine}
}

// MyOrders returns the orders assigned to the authenticated agent.
func (h *AgentHandler) MyOrders(c *fiber.Ctx) error {
	agentID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	list, err := h.store.Orders().ListByAgent(c.Context(), agentID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  list,
	})
}

type agentStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus moves an assigned order along the pipeline. Orders
// assigned to other agents are off limits.
func (h *AgentHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	agentID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req agentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}

	agent, err := h.store.Agents().FindByID(c.Context(), agentID.String())
	if err != nil {
		return err
	}

	actor := orders.Actor{Kind: orders.ActorAgent, ID: agent.ID.String(), Name: agent.Name}
	order, err := h.engine.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// Profile returns the authenticated agent's account and delivery counters.
func (h *AgentHandler) Profile(c *fiber.Ctx) error {
	agentID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	agent, err := h.store.Agents().FindByID(c.Context(), agentID.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"agent":   agent,
	})
}

type agentProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	VehicleNo string `json:"vehicle_no"`
}

// UpdateProfile edits the authenticated agent's own details. Status and
// counters are admin territory.
func (h *AgentHandler) UpdateProfile(c *fiber.Ctx) error {
	agentID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req agentProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	agent, err := h.store.Agents().FindByID(c.Context(), agentID.String())
	if err != nil {
		return err
	}

	if req.Name != "" {
		agent.Name = req.Name
	}
	if req.Email != "" {
		agent.Email = req.Email
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
