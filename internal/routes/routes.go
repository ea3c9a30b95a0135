package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/handlers"
	"github.com/example/curemart/internal/middleware"
	"github.com/example/curemart/internal/models"
	"github.com/example/curemart/internal/notify"
	"github.com/example/curemart/internal/orders"
	"github.com/example/curemart/internal/otp"
	"github.com/example/curemart/internal/payments"
	"github.com/example/curemart/internal/storage"
	"github.com/example/curemart/internal/utils"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, store storage.Store, cfg *config.Config, bus *notify.Bus, log *zap.SugaredLogger) {
	otpService := otp.NewService(store, bus, log)
	checkout := orders.NewCheckout(store, bus, log)
	engine := orders.NewEngine(store, bus, log)
	paymentService := payments.NewService(
		checkout,
		payments.NewRazorpayClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		payments.NewVerifier(cfg.RazorpayKeySecret),
		bus, log, cfg.RazorpayKeyID,
	)

	authHandler := handlers.NewAuthHandler(store, cfg, otpService)
	cartHandler := handlers.NewCartHandler(store)
	wishlistHandler := handlers.NewWishlistHandler(store)
	orderHandler := handlers.NewOrderHandler(store, checkout, engine)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	catalogHandler := handlers.NewCatalogHandler(store)
	engagementHandler := handlers.NewEngagementHandler(store)
	profileHandler := handlers.NewProfileHandler(store)
	adminHandler := handlers.NewAdminHandler(store, engine)
	agentHandler := handlers.NewAgentHandler(store, engine)

	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/request-otp", authHandler.RequestOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/agent/login", authHandler.AgentLogin)

	// Public catalog
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:id", catalogHandler.GetProduct)
	api.Get("/products/:productId/reviews", engagementHandler.ListReviews)
	api.Get("/products/:productId/questions", engagementHandler.ListQuestions)
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:id", catalogHandler.GetCategory)

	// Public checkout and contact
	api.Post("/orders/guest", orderHandler.CreateGuest)
	api.Post("/contact", engagementHandler.CreateInquiry)

	// Payments serve guests and logged-in customers alike.
	pay := api.Group("/payments", middleware.OptionalAuth(cfg))
	pay.Post("/create-order", paymentHandler.CreateOrder)
	pay.Post("/verify", paymentHandler.Verify)

	// Customer routes
	customer := api.Group("", middleware.Auth(cfg), middleware.RequireRole(utils.RoleCustomer))

	customer.Get("/cart", cartHandler.Get)
	customer.Post("/cart", cartHandler.Add)
	customer.Put("/cart/:productId", cartHandler.UpdateQuantity)
	customer.Delete("/cart/:productId", cartHandler.Remove)
	customer.Delete("/cart", cartHandler.Clear)

	customer.Get("/wishlist", wishlistHandler.List)
	customer.Post("/wishlist", wishlistHandler.Add)
	customer.Delete("/wishlist/:productId", wishlistHandler.Remove)

	customer.Post("/orders", orderHandler.Create)
	customer.Get("/orders", orderHandler.List)
	customer.Get("/orders/:id", orderHandler.Get)
	customer.Post("/orders/:id/cancel", orderHandler.Cancel)

	customer.Post("/products/:productId/reviews", engagementHandler.CreateReview)
	customer.Post("/products/:productId/questions", engagementHandler.CreateQuestion)

	customer.Get("/profile", profileHandler.Get)
	customer.Put("/profile", profileHandler.Update)
	customer.Get("/profile/addresses", profileHandler.ListAddresses)
	customer.Post("/profile/addresses", profileHandler.CreateAddress)
	customer.Put("/profile/addresses/:id", profileHandler.UpdateAddress)
	customer.Delete("/profile/addresses/:id", profileHandler.DeleteAddress)

	// Admin routes
	admin := api.Group("/admin", middleware.Auth(cfg), middleware.RequireRole(utils.RoleAdmin))
	admin.Post("/change-password", authHandler.AdminChangePassword)
	admin.Get("/dashboard", adminHandler.Dashboard)

	adminOrders := admin.Group("/orders", middleware.RequirePermission(store, models.PermOrders))
	adminOrders.Get("/", adminHandler.ListOrders)
	adminOrders.Get("/:id", adminHandler.GetOrder)
	adminOrders.Put("/:id/status", adminHandler.UpdateOrderStatus)
	adminOrders.Put("/:id/assign", adminHandler.AssignAgent)
	adminOrders.Post("/:id/cancel", adminHandler.CancelOrder)

	adminProducts := admin.Group("/products", middleware.RequirePermission(store, models.PermProducts))
	adminProducts.Get("/", catalogHandler.ListAllProducts)
	adminProducts.Post("/", catalogHandler.CreateProduct)
	adminProducts.Put("/:id", catalogHandler.UpdateProduct)
	adminProducts.Delete("/:id", catalogHandler.DeleteProduct)

	adminCategories := admin.Group("/categories", middleware.RequirePermission(store, models.PermProducts))
	adminCategories.Post("/", catalogHandler.CreateCategory)
	adminCategories.Put("/:id", catalogHandler.UpdateCategory)
	adminCategories.Delete("/:id", catalogHandler.DeleteCategory)

	adminUsers := admin.Group("/users", middleware.RequirePermission(store, models.PermUsers))
	adminUsers.Get("/", adminHandler.ListUsers)
	adminUsers.Get("/:id", adminHandler.GetUser)
	adminUsers.Delete("/:id", adminHandler.DeleteUser)

	adminAdmins := admin.Group("/admins", middleware.RequirePermission(store, models.PermAdmins))
	adminAdmins.Get("/", adminHandler.ListAdmins)
	adminAdmins.Post("/", adminHandler.CreateAdmin)
	adminAdmins.Put("/:id", adminHandler.UpdateAdmin)
	adminAdmins.Delete("/:id", adminHandler.DeleteAdmin)

	adminAgents := admin.Group("/agents", middleware.RequirePermission(store, models.PermDelivery))
	adminAgents.Get("/", adminHandler.ListAgents)
	adminAgents.Post("/", adminHandler.CreateAgent)
	adminAgents.Put("/:id", adminHandler.UpdateAgent)
	adminAgents.Delete("/:id", adminHandler.DeleteAgent)

	adminReviews := admin.Group("/reviews", middleware.RequirePermission(store, models.PermReviews))
	adminReviews.Delete("/:id", engagementHandler.DeleteReview)

	adminQuestions := admin.Group("/questions", middleware.RequirePermission(store, models.PermQuestions))
	adminQuestions.Put("/:id/answer", engagementHandler.AnswerQuestion)
	adminQuestions.Delete("/:id", engagementHandler.DeleteQuestion)

	adminInquiries := admin.Group("/inquiries", middleware.RequirePermission(store, models.PermInquiries))
	adminInquiries.Get("/", engagementHandler.ListInquiries)
	adminInquiries.Put("/:id/resolve", engagementHandler.ResolveInquiry)
	adminInquiries.Delete("/:id", engagementHandler.DeleteInquiry)

	adminCoupons := admin.Group("/coupons", middleware.RequirePermission(store, models.PermSettings))
	adminCoupons.Get("/", engagementHandler.ListCoupons)
	adminCoupons.Post("/", engagementHandler.CreateCoupon)
	adminCoupons.Put("/:code", engagementHandler.UpdateCoupon)
	adminCoupons.Delete("/:code", engagementHandler.DeleteCoupon)

	// Delivery-agent portal
	agent := api.Group("/agent", middleware.Auth(cfg), middleware.RequireRole(utils.RoleAgent))
	agent.Get("/orders", agentHandler.MyOrders)
	agent.Put("/orders/:id/status", agentHandler.UpdateOrderStatus)
	agent.Get("/profile", agentHandler.Profile)
	agent.Put("/profile", agentHandler.UpdateProfile)
}
