package storage

import (
	"context"

	"github.com/example/curemart/internal/models"
)

type sqlReviews struct {
	table[models.ProductReview]
}

func (r *sqlReviews) ListByProduct(ctx context.Context, productID string) ([]models.ProductReview, error) {
	return r.listWhere(ctx, "created_at desc", "product_id = ?", productID)
}

func (r *sqlReviews) Create(ctx context.Context, review *models.ProductReview) error {
	return r.create(ctx, review)
}

func (r *sqlReviews) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlQuestions struct {
	table[models.ProductQuestion]
}

func (r *sqlQuestions) ListByProduct(ctx context.Context, productID string) ([]models.ProductQuestion, error) {
	return r.listWhere(ctx, "created_at desc", "product_id = ?", productID)
}

func (r *sqlQuestions) FindByID(ctx context.Context, id string) (*models.ProductQuestion, error) {
	return r.findByID(ctx, id)
}

func (r *sqlQuestions) Create(ctx context.Context, question *models.ProductQuestion) error {
	return r.create(ctx, question)
}

func (r *sqlQuestions) Update(ctx context.Context, question *models.ProductQuestion) error {
	return r.save(ctx, question)
}

func (r *sqlQuestions) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlInquiries struct {
	table[models.ContactInquiry]
}

func (r *sqlInquiries) List(ctx context.Context) ([]models.ContactInquiry, error) {
	return r.list(ctx, "created_at desc")
}

func (r *sqlInquiries) FindByID(ctx context.Context, id string) (*models.ContactInquiry, error) {
	return r.findByID(ctx, id)
}

func (r *sqlInquiries) Create(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.create(ctx, inquiry)
}

func (r *sqlInquiries) Update(ctx context.Context, inquiry *models.ContactInquiry) error {
	return r.save(ctx, inquiry)
}

func (r *sqlInquiries) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}
