package models

import "time"

// Account provider tags.
const (
	ProviderManual = "manual"
	ProviderOTP    = "otp"
	ProviderGuest  = "guest"
)

// User represents a customer account. Exactly one of Phone or Email is the
// canonical identifier; OTP-only accounts carry no password hash.
type User struct {
	BaseModel
	Name         string `gorm:"index" json:"name"`
	Phone        string `gorm:"index" json:"phone"`
	Email        string `gorm:"index" json:"email"`
	PasswordHash string `json:"-"`
	Provider     string `json:"provider"`
	AddressLine  string `json:"address_line"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Identifier returns the canonical account identifier.
func (u *User) Identifier() string {
	if u.Phone != "" {
		return u.Phone
	}
	return u.Email
}

// CartItem is one line of a user's cart. Price is a snapshot taken when the
// item was added; quantity accumulates on duplicate adds of the same product.
type CartItem struct {
	BaseModel
	UserID    string  `gorm:"index" json:"user_id"`
	ProductID string  `gorm:"index" json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// WishlistItem marks a product saved by a user. Adds are idempotent.
type WishlistItem struct {
	BaseModel
	UserID    string `gorm:"index" json:"user_id"`
	ProductID string `gorm:"index" json:"product_id"`
}

// Address is a saved shipping address.
type Address struct {
	BaseModel
	UserID      string `gorm:"index" json:"user_id"`
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
}

// OTP tracks a one-time login code. At most one live record exists per
// identifier; a new request overwrites the prior one.
type OTP struct {
	Identifier string    `gorm:"primaryKey" json:"identifier"`
	Code       string    `json:"code"`
	Channel    string    `json:"channel"`
	ExpiresAt  time.Time `json:"expires_at"`
	Verified   bool      `json:"verified"`
	Attempts   int       `json:"attempts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
