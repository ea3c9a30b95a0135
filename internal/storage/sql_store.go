package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/curemart/internal/models"
)

// SQLStore is the relational backend, built on GORM. All entity repositories
// share the generic table base below.
type SQLStore struct {
	db *gorm.DB

	users      *sqlUsers
	addresses  *sqlAddresses
	carts      *sqlCarts
	wishlists  *sqlWishlists
	products   *sqlProducts
	categories *sqlCategories
	orders     *sqlOrders
	agents     *sqlAgents
	admins     *sqlAdmins
	otps       *sqlOTPs
	reviews    *sqlReviews
	questions  *sqlQuestions
	inquiries  *sqlInquiries
	coupons    *sqlCoupons
}

// NewSQLStore wraps an initialized gorm connection.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{
		db:         db,
		users:      &sqlUsers{table: newTable[models.User](db)},
		addresses:  &sqlAddresses{table: newTable[models.Address](db)},
		carts:      &sqlCarts{db: db},
		wishlists:  &sqlWishlists{db: db},
		products:   &sqlProducts{table: newTable[models.Product](db)},
		categories: &sqlCategories{table: newTable[models.Category](db)},
		orders:     &sqlOrders{db: db},
		agents:     &sqlAgents{table: newTable[models.DeliveryAgent](db)},
		admins:     &sqlAdmins{table: newTable[models.AdminUser](db)},
		otps:       &sqlOTPs{db: db},
		reviews:    &sqlReviews{table: newTable[models.ProductReview](db)},
		questions:  &sqlQuestions{table: newTable[models.ProductQuestion](db)},
		inquiries:  &sqlInquiries{table: newTable[models.ContactInquiry](db)},
		coupons:    &sqlCoupons{table: newTable[models.Coupon](db)},
	}
}

func (s *SQLStore) Users() UserRepository { return s.users }
func (s *SQLStore) Addresses() AddressRepository { return s.addresses }
func (s *SQLStore) Carts() CartRepository { return s.carts }
func (s *SQLStore) Wishlists() WishlistRepository { return s.wishlists }
func (s *SQLStore) Products() ProductRepository { return s.products }
func (s *SQLStore) Categories() CategoryRepository { return s.categories }
func (s *SQLStore) Orders() OrderRepository { return s.orders }
func (s *SQLStore) Agents() AgentRepository { return s.agents }
func (s *SQLStore) Admins() AdminRepository { return s.admins }
func (s *SQLStore) OTPs() OTPRepository { return s.otps }
func (s *SQLStore) Reviews() ReviewRepository { return s.reviews }
func (s *SQLStore) Questions() QuestionRepository { return s.questions }
func (s *SQLStore) Inquiries() InquiryRepository { return s.inquiries }
func (s *SQLStore) Coupons() CouponRepository { return s.coupons }

// table is the generic base every relational repository builds on.
type table[T any] struct {
	db *gorm.DB
}

func newTable[T any](db *gorm.DB) table[T] {
	return table[T]{db: db}
}

func (t table[T]) findByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := t.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &rec, nil
}

func (t table[T]) findBy(ctx context.Context, query string, args ...any) (*T, error) {
	var rec T
	if err := t.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &rec, nil
}

func (t table[T]) list(ctx context.Context, orderBy string) ([]T, error) {
	var recs []T
	q := t.db.WithContext(ctx)
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (t table[T]) listWhere(ctx context.Context, orderBy, query string, args ...any) ([]T, error) {
	var recs []T
	q := t.db.WithContext(ctx).Where(query, args...)
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (t table[T]) create(ctx context.Context, rec *T) error {
	return translateSQLError(t.db.WithContext(ctx).Create(rec).Error)
}

func (t table[T]) save(ctx context.Context, rec *T) error {
	return translateSQLError(t.db.WithContext(ctx).Save(rec).Error)
}

func (t table[T]) deleteByID(ctx context.Context, id string) error {
	var rec T
	return translateSQLError(t.db.WithContext(ctx).Delete(&rec, "id = ?", id).Error)
}

func translateSQLError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
