// Package storage presents one repository interface per entity and selects
// between the relational and the flat-file document backend once at startup.
// Callers must never depend on which mode is active: both implementations
// normalize result shapes identically.
package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/curemart/internal/config"
	"github.com/example/curemart/internal/database"
	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
)

// UserRepository manages customer accounts keyed by phone or email.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// CartRepository manages a user's cart lines. Add accumulates quantity when
// the product is already present.
type CartRepository interface {
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error)
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

// WishlistRepository manages saved products. Add is idempotent: a duplicate
// resolves to the existing entry, never an error.
type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (*models.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) error
}

// AddressRepository manages saved shipping addresses.
type AddressRepository interface {
	List(ctx context.Context, userID string) ([]models.Address, error)
	FindByID(ctx context.Context, id string) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id string) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository manages catalog products.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository manages catalog categories and subcategories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status string
	Since  time.Time
	Limit  int
	Offset int
}

// OrderRepository manages orders with their items and audit trail. Orders
// are never physically deleted.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	AppendActivity(ctx context.Context, orderID string, activity *models.OrderActivity) error
}

// AgentRepository manages delivery-agent accounts.
type AgentRepository interface {
	FindByID(ctx context.Context, id string) (*models.DeliveryAgent, error)
	FindByPhone(ctx context.Context, phone string) (*models.DeliveryAgent, error)
	List(ctx context.Context) ([]models.DeliveryAgent, error)
	Create(ctx context.Context, agent *models.DeliveryAgent) error
	Update(ctx context.Context, agent *models.DeliveryAgent) error
	Delete(ctx context.Context, id string) error
}

// AdminRepository manages back-office accounts.
type AdminRepository interface {
	FindByID(ctx context.Context, id string) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	List(ctx context.Context) ([]models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	Update(ctx context.Context, admin *models.AdminUser) error
	Delete(ctx context.Context, id string) error
}

// OTPRepository manages one-time codes keyed by identifier. Save overwrites
// any prior record for the same identifier.
type OTPRepository interface {
	Find(ctx context.Context, identifier string) (*models.OTP, error)
	Save(ctx context.Context, otp *models.OTP) error
	Delete(ctx context.Context, identifier string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// ReviewRepository manages product reviews.
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]models.ProductReview, error)
	Create(ctx context.Context, review *models.ProductReview) error
	Delete(ctx context.Context, id string) error
}

// QuestionRepository manages product questions.
type QuestionRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]models.ProductQuestion, error)
	FindByID(ctx context.Context, id string) (*models.ProductQuestion, error)
	Create(ctx context.Context, question *models.ProductQuestion) error
	Update(ctx context.Context, question *models.ProductQuestion) error
	Delete(ctx context.Context, id string) error
}

// InquiryRepository manages contact-form inquiries.
type InquiryRepository interface {
	List(ctx context.Context) ([]models.ContactInquiry, error)
	FindByID(ctx context.Context, id string) (*models.ContactInquiry, error)
	Create(ctx context.Context, inquiry *models.ContactInquiry) error
	Update(ctx context.Context, inquiry *models.ContactInquiry) error
	Delete(ctx context.Context, id string) error
}

// CouponRepository manages discount codes.
type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id string) error
}

// Store aggregates all entity repositories behind one backend.
type Store interface {
	Users() UserRepository
	Addresses() AddressRepository
	Carts() CartRepository
	Wishlists() WishlistRepository
	Products() ProductRepository
	Categories() CategoryRepository
	Orders() OrderRepository
	Agents() AgentRepository
	Admins() AdminRepository
	OTPs() OTPRepository
	Reviews() ReviewRepository
	Questions() QuestionRepository
	Inquiries() InquiryRepository
	Coupons() CouponRepository
}

// Open selects the backend from configuration. The choice is immutable for
// the lifetime of the process.
func Open(cfg *config.Config, log *zap.SugaredLogger) (Store, error) {
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Infof("storage: relational mode (postgres)")
		return NewSQLStore(db), nil
	}

	files, err := jsondb.New(cfg.DataDir, jsondb.NewFileLockManager(), log)
	if err != nil {
		return nil, err
	}
	log.Infof("storage: document mode (%s)", cfg.DataDir)
	return NewDocStore(files), nil
}
