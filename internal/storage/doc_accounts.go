package storage

import (
	"context"
	"sort"
	"time"

	"github.com/example/curemart/internal/models"
)

type docAgents struct {
	collection[models.DeliveryAgent]
}

func (r *docAgents) FindByID(ctx context.Context, id string) (*models.DeliveryAgent, error) {
	return r.get(id)
}

func (r *docAgents) FindByPhone(ctx context.Context, phone string) (*models.DeliveryAgent, error) {
	return r.first(func(a *models.DeliveryAgent) bool { return a.Phone == phone })
}

func (r *docAgents) List(ctx context.Context) ([]models.DeliveryAgent, error) {
	agents, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].CreatedAt.After(agents[j].CreatedAt)
	})
	return agents, nil
}

func (r *docAgents) Create(ctx context.Context, agent *models.DeliveryAgent) error {
	if _, err := r.FindByPhone(ctx, agent.Phone); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	stamp(&agent.BaseModel)
	return r.put(ctx, agent.ID.String(), agent)
}

func (r *docAgents) Update(ctx context.Context, agent *models.DeliveryAgent) error {
	stamp(&agent.BaseModel)
	return r.put(ctx, agent.ID.String(), agent)
}

func (r *docAgents) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type docAdmins struct {
	collection[models.AdminUser]
}

func (r *docAdmins) FindByID(ctx context.Context, id string) (*models.AdminUser, error) {
	return r.get(id)
}

func (r *docAdmins) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return r.first(func(a *models.AdminUser) bool { return a.Email == email })
}

func (r *docAdmins) List(ctx context.Context) ([]models.AdminUser, error) {
	admins, err := r.all()
	if err != nil {
		return nil, err
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.After(admins[j].CreatedAt)
	})
	return admins, nil
}

func (r *docAdmins) Create(ctx context.Context, admin *models.AdminUser) error {
	if _, err := r.FindByEmail(ctx, admin.Email); err == nil {
		return ErrDuplicate
	} else if err != ErrNotFound {
		return err
	}
	stamp(&admin.BaseModel)
	return r.put(ctx, admin.ID.String(), admin)
}

func (r *docAdmins) Update(ctx context.Context, admin *models.AdminUser) error {
	stamp(&admin.BaseModel)
	return r.put(ctx, admin.ID.String(), admin)
}

func (r *docAdmins) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

// docOTPs keys otps.json by identifier, so a new request naturally
// overwrites the prior record.
type docOTPs struct {
	collection[models.OTP]
}

func (r *docOTPs) Find(ctx context.Context, identifier string) (*models.OTP, error) {
	return r.get(identifier)
}

func (r *docOTPs) Save(ctx context.Context, otp *models.OTP) error {
	now := time.Now()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = now
	}
	otp.UpdatedAt = now
	return r.put(ctx, otp.Identifier, otp)
}

func (r *docOTPs) Delete(ctx context.Context, identifier string) error {
	return r.remove(ctx, identifier)
}

func (r *docOTPs) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return r.removeWhere(ctx, func(o *models.OTP) bool {
		return o.ExpiresAt.Before(now)
	})
}
