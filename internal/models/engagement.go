package models

// ProductReview is a customer rating with optional comment.
type ProductReview struct {
	BaseModel
	ProductID string `gorm:"index" json:"product_id"`
	UserID    string `gorm:"index" json:"user_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ProductQuestion is a customer question, optionally answered by an admin.
type ProductQuestion struct {
	BaseModel
	ProductID string `gorm:"index" json:"product_id"`
	UserID    string `gorm:"index" json:"user_id"`
	UserName  string `json:"user_name"`
	Question  string `json:"question"`
	Answer    string `json:"answer,omitempty"`
	Answered  bool   `json:"answered"`
}

// ContactInquiry is a message from the public contact form.
type ContactInquiry struct {
	BaseModel
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved"`
}
