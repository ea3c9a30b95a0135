package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/curemart/internal/jsondb"
	"github.com/example/curemart/internal/models"
)

// Entity files of the document-store mode, one per entity.
const (
	fileUsers         = "users.json"
	fileAddresses     = "addresses.json"
	fileCartItems     = "cartItems.json"
	fileWishlistItems = "wishlistItems.json"
	fileProducts      = "products.json"
	fileCategories    = "categories.json"
	fileOrders        = "orders.json"
	fileOrderItems    = "orderItems.json"
	fileAgents        = "deliveryAgents.json"
	fileAdmins        = "adminUsers.json"
	fileOTPs          = "otps.json"
	fileReviews       = "productReviews.json"
	fileQuestions     = "productQuestions.json"
	fileInquiries     = "contactInquiries.json"
	fileCoupons       = "coupons.json"
)

// DocStore is the flat-file backend. Each repository maps onto one or more
// named JSON files; filtering and sorting happen in memory. Mutations go
// through the document store's locked update primitive.
type DocStore struct {
	files *jsondb.Store

	users      *docUsers
	addresses  *docAddresses
	carts      *docCarts
	wishlists  *docWishlists
	products   *docProducts
	categories *docCategories
	orders     *docOrders
	agents     *docAgents
	admins     *docAdmins
	otps       *docOTPs
	reviews    *docReviews
	questions  *docQuestions
	inquiries  *docInquiries
	coupons    *docCoupons
}

// NewDocStore wraps an opened jsondb store.
func NewDocStore(files *jsondb.Store) *DocStore {
	return &DocStore{
		files:      files,
		users:      &docUsers{newCollection[models.User](files, fileUsers)},
		addresses:  &docAddresses{newCollection[models.Address](files, fileAddresses)},
		carts:      &docCarts{newCollection[models.CartItem](files, fileCartItems)},
		wishlists:  &docWishlists{newCollection[models.WishlistItem](files, fileWishlistItems)},
		products:   &docProducts{newCollection[models.Product](files, fileProducts)},
		categories: &docCategories{newCollection[models.Category](files, fileCategories)},
		orders: &docOrders{
			orders: newCollection[models.Order](files, fileOrders),
			items:  newCollection[models.OrderItem](files, fileOrderItems),
		},
		agents:    &docAgents{newCollection[models.DeliveryAgent](files, fileAgents)},
		admins:    &docAdmins{newCollection[models.AdminUser](files, fileAdmins)},
		otps:      &docOTPs{newCollection[models.OTP](files, fileOTPs)},
		reviews:   &docReviews{newCollection[models.ProductReview](files, fileReviews)},
		questions: &docQuestions{newCollection[models.ProductQuestion](files, fileQuestions)},
		inquiries: &docInquiries{newCollection[models.ContactInquiry](files, fileInquiries)},
		coupons:   &docCoupons{newCollection[models.Coupon](files, fileCoupons)},
	}
}

func (s *DocStore) Users() UserRepository { return s.users }
func (s *DocStore) Addresses() AddressRepository { return s.addresses }
func (s *DocStore) Carts() CartRepository { return s.carts }
func (s *DocStore) Wishlists() WishlistRepository { return s.wishlists }
func (s *DocStore) Products() ProductRepository { return s.products }
func (s *DocStore) Categories() CategoryRepository { return s.categories }
func (s *DocStore) Orders() OrderRepository { return s.orders }
func (s *DocStore) Agents() AgentRepository { return s.agents }
func (s *DocStore) Admins() AdminRepository { return s.admins }
func (s *DocStore) OTPs() OTPRepository { return s.otps }
func (s *DocStore) Reviews() ReviewRepository { return s.reviews }
func (s *DocStore) Questions() QuestionRepository { return s.questions }
func (s *DocStore) Inquiries() InquiryRepository { return s.inquiries }
func (s *DocStore) Coupons() CouponRepository { return s.coupons }

// collection is the generic base every document repository builds on. Keys
// are record IDs unless a repository states otherwise (OTPs key by
// identifier).
type collection[T any] struct {
	files *jsondb.Store
	file  string
}

func newCollection[T any](files *jsondb.Store, file string) collection[T] {
	return collection[T]{files: files, file: file}
}

func (c collection[T]) get(key string) (*T, error) {
	var rec T
	if err := c.files.Get(c.file, key, &rec); err != nil {
		if errors.Is(err, jsondb.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (c collection[T]) all() ([]T, error) {
	doc := c.files.Read(c.file)
	recs := make([]T, 0, len(doc))
	for _, raw := range doc {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (c collection[T]) where(match func(*T) bool) ([]T, error) {
	recs, err := c.all()
	if err != nil {
		return nil, err
	}
	found := recs[:0]
	for i := range recs {
		if match(&recs[i]) {
			found = append(found, recs[i])
		}
	}
	return found, nil
}

func (c collection[T]) first(match func(*T) bool) (*T, error) {
	recs, err := c.where(match)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

func (c collection[T]) put(ctx context.Context, key string, rec *T) error {
	return c.files.Set(ctx, c.file, key, rec)
}

func (c collection[T]) remove(ctx context.Context, key string) error {
	return c.files.Delete(ctx, c.file, key)
}

// removeWhere deletes all matching records under one file lock.
func (c collection[T]) removeWhere(ctx context.Context, match func(*T) bool) (int, error) {
	removed := 0
	err := c.files.Update(ctx, c.file, func(doc jsondb.Document) (jsondb.Document, error) {
		for key, raw := range doc {
			var rec T
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			if match(&rec) {
				delete(doc, key)
				removed++
			}
		}
		return doc, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// mutate rewrites one record in place under the file lock. Missing key
// yields ErrNotFound.
func (c collection[T]) mutate(ctx context.Context, key string, fn func(*T) error) (*T, error) {
	var result T
	err := c.files.Update(ctx, c.file, func(doc jsondb.Document) (jsondb.Document, error) {
		raw, ok := doc[key]
		if !ok {
			return nil, ErrNotFound
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		if err := fn(&rec); err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(&rec)
		if err != nil {
			return nil, err
		}
		doc[key] = encoded
		result = rec
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// stamp fills ID and timestamps the way gorm hooks do in relational mode,
// keeping record shapes identical across backends.
func stamp(b *models.BaseModel) {
	b.EnsureID()
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
