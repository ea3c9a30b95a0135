package storage

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/curemart/internal/models"
)

type sqlAgents struct {
	table[models.DeliveryAgent]
}

func (r *sqlAgents) FindByID(ctx context.Context, id string) (*models.DeliveryAgent, error) {
	return r.findByID(ctx, id)
}

func (r *sqlAgents) FindByPhone(ctx context.Context, phone string) (*models.DeliveryAgent, error) {
	return r.findBy(ctx, "phone = ?", phone)
}

func (r *sqlAgents) List(ctx context.Context) ([]models.DeliveryAgent, error) {
	return r.list(ctx, "created_at desc")
}

func (r *sqlAgents) Create(ctx context.Context, agent *models.DeliveryAgent) error {
	if _, err := r.FindByPhone(ctx, agent.Phone); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	return r.create(ctx, agent)
}

func (r *sqlAgents) Update(ctx context.Context, agent *models.DeliveryAgent) error {
	return r.save(ctx, agent)
}

func (r *sqlAgents) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlAdmins struct {
	table[models.AdminUser]
}

func (r *sqlAdmins) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	return r.findByID(ctx, id)
}

func (r *sqlAdmins) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *sqlAdmins) List(ctx context.Context) ([]models.AdminUser, error) {
	return r.list(ctx, "created_at desc")
}

func (r *sqlAdmins) Create(ctx context.Context, admin *models.AdminUser) error {
	if _, err := r.FindByEmail(ctx, admin.Email); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	return r.create(ctx, admin)
}

func (r *sqlAdmins) Update(ctx context.Context, admin *models.AdminUser) error {
	return r.save(ctx, admin)
}

func (r *sqlAdmins) Delete(ctx context.Context, id string) error {
	return r.deleteByID(ctx, id)
}

type sqlOTPs struct {
	db *gorm.DB
}

func (r *sqlOTPs) Find(ctx context.Context, identifier string) (*models.OTP, error) {
	var otp models.OTP
	if err := r.db.WithContext(ctx).First(&otp, "identifier = ?", identifier).Error; err != nil {
		return nil, translateSQLError(err)
	}
	return &otp, nil
}

// Save upserts the record for its identifier, overwriting any prior code.
func (r *sqlOTPs) Save(ctx context.Context, otp *models.OTP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identifier"}},
			UpdateAll: true,
		}).
		Create(otp).Error
}

func (r *sqlOTPs) Delete(ctx context.Context, identifier string) error {
	return r.db.WithContext(ctx).
		Delete(&models.OTP{}, "identifier = ?", identifier).Error
}

func (r *sqlOTPs) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.OTP{})
	return int(res.RowsAffected), res.Error
}
