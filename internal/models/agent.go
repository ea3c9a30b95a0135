package models

// Delivery agent statuses.
const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
)

// DeliveryAgent is a courier account. Counters are updated on every
// delivery-status transition tied to an assigned order.
type DeliveryAgent struct {
	BaseModel
	Name         string  `json:"name"`
	Phone        string  `gorm:"index" json:"phone"`
	Email        string  `gorm:"index" json:"email"`
	PasswordHash string  `json:"-"`
	Status       string  `json:"status"`
	VehicleNo    string  `json:"vehicle_no"`

	TotalDeliveries     int     `json:"total_deliveries"`
	CompletedDeliveries int     `json:"completed_deliveries"`
	CancelledDeliveries int     `json:"cancelled_deliveries"`
	Rating              float64 `json:"rating"`
	Earnings            float64 `json:"earnings"`
}

// Active reports whether the agent can take assignments.
func (a *DeliveryAgent) Active() bool {
	return a.Status == AgentStatusActive
}
