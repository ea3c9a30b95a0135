package storage

import (
	"context"

	"github.com/example/curemart/internal/models"
)

type sqlProducts struct {
	table[models.Product]
}

func (r *sqlProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return r.findByID(ctx, id)
}

func (r *sqlProducts) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Order("created_at desc")
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR brand ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []models.Product
	err := q.Find(&products).Error
	return products, err
}

func (r *sqlProducts) Create(ctx context.Context, product *models.Product) error {
	return r.create(ctx, product)
}

func (r *sqlProducts) Update(ctx context.Context, product *models.Product) error {
	return r.save(ctx, product)
}

func (r *sqlProducts) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlCategories struct {
	table[models.Category]
}

func (r *sqlCategories) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findByID(ctx, id)
}

func (r *sqlCategories) List(ctx context.Context) ([]models.Category, error) {
	return r.list(ctx, "name asc")
}

func (r *sqlCategories) Create(ctx context.Context, category *models.Category) error {
	return r.create(ctx, category)
}

func (r *sqlCategories) Update(ctx context.Context, category *models.Category) error {
	return r.save(ctx, category)
}

func (r *sqlCategories) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlCoupons struct {
	table[models.Coupon]
}

func (r *sqlCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.findBy(ctx, "code = ?", code)
}

func (r *sqlCoupons) List(ctx context.Context) ([]models.Coupon, error) {
	return r.list(ctx, "created_at desc")
}

func (r *sqlCoupons) Create(ctx context.Context, coupon *models.Coupon) error {
	if _, err := r.FindByCode(ctx, coupon.Code); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	return r.create(ctx, coupon)
}

func (r *sqlCoupons) Update(ctx context.Context, coupon *models.Coupon) error {
	return r.save(ctx, coupon)
}

func (r *sqlCoupons) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}
