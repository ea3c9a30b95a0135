package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/curemart/internal/models"
)

type sqlUsers struct {
	table[models.User]
}

func (r *sqlUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findByID(ctx, id)
}

func (r *sqlUsers) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findBy(ctx, "phone = ? OR email = ?", identifier, identifier)
}

func (r *sqlUsers) List(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, "created_at desc")
}

func (r *sqlUsers) Create(ctx context.Context, user *models.User) error {
	return r.create(ctx, user)
}

func (r *sqlUsers) Update(ctx context.Context, user *models.User) error {
	return r.save(ctx, user)
}

func (r *sqlUsers) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlAddresses struct {
	table[models.Address]
}

func (r *sqlAddresses) List(ctx context.Context, userID string) ([]models.Address, error) {
	return r.listWhere(ctx, "created_at desc", "user_id = ?", userID)
}

func (r *sqlAddresses) FindByID(ctx context.Context, id string) (*models.Address, error) {
	return r.findByID(ctx, id)
}

func (r *sqlAddresses) Create(ctx context.Context, address *models.Address) error {
	return r.create(ctx, address)
}

func (r *sqlAddresses) Update(ctx context.Context, address *models.Address) error {
	return r.save(ctx, address)
}

func (r *sqlAddresses) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlCarts struct {
	db *gorm.DB
}

func (r *sqlCarts) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// Add accumulates quantity when the product is already in the cart. The
// price snapshot of the original add is kept.
func (r *sqlCarts) Add(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	var existing models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&existing).Error
	if err == nil {
		existing.Quantity += item.Quantity
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *sqlCarts) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, translateSQLError(err)
	}

	item.Quantity = quantity
	if err := r.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *sqlCarts) Remove(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *sqlCarts) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

type sqlWishlists struct {
	db *gorm.DB
}

func (r *sqlWishlists) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	return items, err
}

// Add is idempotent: a duplicate resolves to the existing entry. The
// existence pre-check is deliberate so behavior does not depend on
// backend-specific unique-constraint errors.
func (r *sqlWishlists) Add(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	var existing models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *sqlWishlists) Remove(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).Error
}
