package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Admin roles.
const (
	AdminRoleSuper   = "super_admin"
	AdminRoleManager = "manager"
)

// Admin permission keys.
const (
	PermProducts  = "products"
	PermOrders    = "orders"
	PermUsers     = "users"
	PermInquiries = "inquiries"
	PermReviews   = "reviews"
	PermQuestions = "questions"
	PermDelivery  = "delivery"
	PermAdmins    = "admins"
	PermSettings  = "settings"
)

// PermissionSet is a map of named permission flags. It is stored as a JSON
// column in relational mode and as a plain object in the document store, and
// always surfaces as real booleans to callers.
type PermissionSet map[string]bool

// FullPermissions grants every known permission.
func FullPermissions() PermissionSet {
	return PermissionSet{
		PermProducts:  true,
		PermOrders:    true,
		PermUsers:     true,
		PermInquiries: true,
		PermReviews:   true,
		PermQuestions: true,
		PermDelivery:  true,
		PermAdmins:    true,
		PermSettings:  true,
	}
}

// Has reports whether the named permission is granted.
func (p PermissionSet) Has(name string) bool {
	return p[name]
}

// Value implements driver.Valuer for relational storage.
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionSet{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for relational storage.
func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported permission set type %T", value)
	}
}

// AdminUser is a back-office account with role based permissions and a
// failed-login lockout.
type AdminUser struct {
	BaseModel
	Name         string        `json:"name"`
	Email        string        `gorm:"index" json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	Permissions  PermissionSet `gorm:"type:jsonb" json:"permissions"`

	MustChangePassword  bool       `json:"must_change_password"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty"`
}

// Locked reports whether the account is currently locked out.
func (a *AdminUser) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
