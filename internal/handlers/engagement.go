package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/storage"
)

// EngagementHandler bundles reviews, questions, contact inquiries and
// coupon management.
type EngagementHandler struct {
	store storage.Store
}

// NewEngagementHandler constructs an EngagementHandler.
func NewEngagementHandler(store storage.Store) *EngagementHandler {
	return &EngagementHandler{store: store}
}

// ListReviews returns all reviews of a product.
func (h *EngagementHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.store.Reviews().ListByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview posts a review on a product as the authenticated customer.
func (h *EngagementHandler) CreateReview(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	productID := c.Params("productId")
	if _, err := h.store.Products().FindByID(c.Context(), productID); err != nil {
		return err
	}
	user, err := h.store.Users().FindByID(c.Context(), userID.String())
	if err != nil {
		return err
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    user.ID.String(),
		UserName:  user.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.store.Reviews().Create(c.Context(), review); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
	})
}

// DeleteReview removes a review (admin moderation).
func (h *EngagementHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.store.Reviews().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListQuestions returns all questions on a product.
func (h *EngagementHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.store.Questions().ListByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"questions": questions,
	})
}

type questionRequest struct {
	Question string `json:"question"`
}

// CreateQuestion posts a question on a product as the authenticated customer.
func (h *EngagementHandler) CreateQuestion(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var req questionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "question is required")
	}

	productID := c.Params("productId")
	if _, err := h.store.Products().FindByID(c.Context(), productID); err != nil {
		return err
	}
	user, err := h.store.Users().FindByID(c.Context(), userID.String())
	if err != nil {
		return err
	}

	question := &models.ProductQuestion{
		ProductID: productID,
		UserID:    user.ID.String(),
		UserName:  user.Name,
		Question:  req.Question,
	}
	if err := h.store.Questions().Create(c.Context(), question); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// AnswerQuestion records the admin answer on a question.
func (h *EngagementHandler) AnswerQuestion(c *fiber.Ctx) error {
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "answer is required")
	}

	question, err := h.store.Questions().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	question.Answer = req.Answer
	question.Answered = true
	if err := h.store.Questions().Update(c.Context(), question); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

// DeleteQuestion removes a question (admin moderation).
func (h *EngagementHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.store.Questions().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

type inquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateInquiry accepts a public contact-form submission.
func (h *EngagementHandler) CreateInquiry(c *fiber.Ctx) error {
	var req inquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and message are required")
	}

	inquiry := &models.ContactInquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.store.Inquiries().Create(c.Context(), inquiry); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"inquiry": inquiry,
	})
}

// ListInquiries returns all contact inquiries for the back office.
func (h *EngagementHandler) ListInquiries(c *fiber.Ctx) error {
	inquiries, err := h.store.Inquiries().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"inquiries": inquiries,
	})
}

// ResolveInquiry marks an inquiry handled.
func (h *EngagementHandler) ResolveInquiry(c *fiber.Ctx) error {
	inquiry, err := h.store.Inquiries().FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	inquiry.Resolved = true
	if err := h.store.Inquiries().Update(c.Context(), inquiry); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"inquiry": inquiry,
	})
}

// DeleteInquiry removes an inquiry.
func (h *EngagementHandler) DeleteInquiry(c *fiber.Ctx) error {
	if err := h.store.Inquiries().Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListCoupons returns all discount codes.
func (h *EngagementHandler) ListCoupons(c *fiber.Ctx) error {
	coupons, err := h.store.Coupons().List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"coupons": coupons,
	})
}

type couponRequest struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	MaxDiscount     float64 `json:"max_discount"`
	MinOrderAmount  float64 `json:"min_order_amount"`
	Active          bool    `json:"active"`
}

// CreateCoupon adds a discount code. Codes are unique case-insensitively.
func (h *EngagementHandler) CreateCoupon(c *fiber.Ctx) error {
	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" || req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "code and a discount percent between 1 and 100 are required")
	}

	coupon := &models.Coupon{
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		MinOrderAmount:  req.MinOrderAmount,
		Active:          req.Active,
	}
	if err := h.store.Coupons().Create(c.Context(), coupon); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"coupon":  coupon,
	})
}

// UpdateCoupon edits a discount code.
func (h *EngagementHandler) UpdateCoupon(c *fiber.Ctx) error {
	coupon, err := h.store.Coupons().FindByCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}

	var req couponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.DiscountPercent <= 0 || req.DiscountPercent > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "discount percent must be between 1 and 100")
	}

	coupon.DiscountPercent = req.DiscountPercent
	coupon.MaxDiscount = req.MaxDiscount
	coupon.MinOrderAmount = req.MinOrderAmount
	coupon.Active = req.Active

	if err := h.store.Coupons().Update(c.Context(), coupon); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"coupon":  coupon,
	})
}

// DeleteCoupon removes a discount code.
func (h *EngagementHandler) DeleteCoupon(c *fiber.Ctx) error {
	coupon, err := h.store.Coupons().FindByCode(c.Context(), c.Params("code"))
	if err != nil {
		return err
	}
	if err := h.store.Coupons().Delete(c.Context(), coupon.ID.String()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
