package storage

import (
	"context"
	"sort"

	"github.com/example/curemart/internal/models"
)

type docReviews struct {
	collection[models.ProductReview]
}

func (r *docReviews) ListByProduct(ctx context.Context, productID string) ([]models.ProductReview, error) {
	reviews, err := r.where(func(rv *models.ProductReview) bool { return rv.ProductID == productID })
	if err != nil {
		return nil, err
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (r *docReviews) Create(ctx context.Context, review *models.ProductReview) error {
	stamp(&review.BaseModel)
	return r.put(ctx, review.ID.String(), review)
}

func (r *docReviews) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docQuestions struct {
	collection[models.ProductQuestion]
}

func (r *docQuestions) ListByProduct(ctx context.Context, productID string) ([]models.ProductQuestion, error) {
	questions, err := r.where(func(q *models.ProductQuestion) bool { return q.ProductID == productID })
	if err != nil {
		return nil, err
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}

func (r *docQuestions) FindByID(ctx context.Context, id string) (*models.ProductQuestion, error) {
	return r.get(id)
}

func (r *docQuestions) Create(ctx context.Context, question *models.ProductQuestion) error {
	stamp(&question.BaseModel)
	return r.put(ctx, question.ID.String(), question)
}

func (r *docQuestions) Update(ctx context.Context, question *models.ProductQuestion) error {
	stamp(&question.BaseModel)
	return r.put(ctx, question.ID.String(), question)
}

func (r *docQuestions) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docInquiries struct {
	collection[models.ContactInquiry]
}

func (r *docInquiries) List(ctx context.Context) ([]models.ContactInquiry, error) {
	inquiries, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(inquiries, func(i, j int) bool {
		return inquiries[i].CreatedAt.After(inquiries[j].CreatedAt)
	})
	return inquiries, nil
}

func (r *docInquiries) FindByID(ctx context.Context, id string) (*models.ContactInquiry, error) {
	return r.get(id)
}

func (r *docInquiries) Create(ctx context.Context, inquiry *models.ContactInquiry) error {
	stamp(&inquiry.BaseModel)
	return r.put(ctx, inquiry.ID.String(), inquiry)
}

func (r *docInquiries) Update(ctx context.Context, inquiry *models.ContactInquiry) error {
	stamp(&inquiry.BaseModel)
	return r.put(ctx, inquiry.ID.String(), inquiry)
}

func (r *docInquiries) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}
