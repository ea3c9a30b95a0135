package models

// Product is a catalog entry (medicine or cosmetic).
type Product struct {
	BaseModel
	Name                 string  `gorm:"index" json:"name"`
	Description          string  `json:"description"`
	Price                float64 `json:"price"`
	MRP                  float64 `json:"mrp"`
	Stock                int     `json:"stock"`
	CategoryID           string  `gorm:"index" json:"category_id"`
	Brand                string  `json:"brand"`
	ImageURL             string  `json:"image_url"`
	RequiresPrescription bool    `json:"requires_prescription"`
	IsActive             bool    `json:"is_active"`
}

// Category groups products. A non-empty ParentID makes it a subcategory.
type Category struct {
	BaseModel
	Name        string `gorm:"index" json:"name"`
	Description string `json:"description"`
	ParentID    string `gorm:"index" json:"parent_id,omitempty"`
	ImageURL    string `json:"image_url"`
}

// Coupon is a flat or percentage discount code.
type Coupon struct {
	BaseModel
	Code            string  `gorm:"uniqueIndex" json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	MaxDiscount     float64 `json:"max_discount"`
	MinOrderAmount  float64 `json:"min_order_amount"`
	Active          bool    `json:"active"`
}
