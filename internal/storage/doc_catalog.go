package storage

import (
	"context"
	"sort"
	"strings"

	"github.com/example/curemart/internal/models"
)

type docProducts struct {
	collection[models.Product]
}

func (r *docProducts) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return r.get(id)
}

func (r *docProducts) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	search := strings.ToLower(filter.Search)
	products, err := r.where(func(p *models.Product) bool {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			return false
		}
		if filter.ActiveOnly && !p.IsActive {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	if filter.Limit > 0 {
		if filter.Offset >= len(products) {
			return nil, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(products) {
			end = len(products)
		}
		products = products[filter.Offset:end]
	}
	return products, nil
}

func (r *docProducts) Create(ctx context.Context, product *models.Product) error {
	stamp(&product.BaseModel)
	return r.put(ctx, product.ID.String(), product)
}

func (r *docProducts) Update(ctx context.Context, product *models.Product) error {
	stamp(&product.BaseModel)
	return r.put(ctx, product.ID.String(), product)
}

func (r *docProducts) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docCategories struct {
	collection[models.Category]
}

func (r *docCategories) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.get(id)
}

func (r *docCategories) List(ctx context.Context) ([]models.Category, error) {
	categories, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *docCategories) Create(ctx context.Context, category *models.Category) error {
	stamp(&category.BaseModel)
	return r.put(ctx, category.ID.String(), category)
}

func (r *docCategories) Update(ctx context.Context, category *models.Category) error {
	stamp(&category.BaseModel)
	return r.put(ctx, category.ID.String(), category)
}

func (r *docCategories) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docCoupons struct {
	collection[models.Coupon]
}

func (r *docCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.first(func(c *models.Coupon) bool {
		return strings.EqualFold(c.Code, code)
	})
}

func (r *docCoupons) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(coupons, func(i, j int) bool {
		return coupons[i].CreatedAt.After(coupons[j].CreatedAt)
	})
	return coupons, nil
}

func (r *docCoupons) Create(ctx context.Context, coupon *models.Coupon) error {
	if _, err := r.FindByCode(ctx, coupon.Code); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	stamp(&coupon.BaseModel)
	return r.put(ctx, coupon.ID.String(), coupon)
}

func (r *docCoupons) Update(ctx context.Context, coupon *models.Coupon) error {
	stamp(&coupon.BaseModel)
	return r.put(ctx, coupon.ID.String(), coupon)
}

func (r *docCoupons) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}
