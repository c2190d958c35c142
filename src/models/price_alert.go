package models

import "time"

const (
	AlertConditionAbove = "above"
	AlertConditionBelow = "below"
)

type PriceAlert struct {
	ID          string     `json:"id"`
	UserID      int        `json:"user_id"`
	CoinID      string     `json:"coin_id"`
	TargetPrice float64    `json:"target_price"`
	Condition   string     `json:"condition"`
	IsActive    bool       `json:"is_active"`
	IsTriggered bool       `json:"is_triggered"`
	CreatedAt   time.Time  `json:"created_at"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
}

// Crossed reports whether the given market price satisfies the alert
// condition.
func (a PriceAlert) Crossed(price float64) bool {
	switch a.Condition {
	case AlertConditionAbove:
		return price >= a.TargetPrice
	case AlertConditionBelow:
		return price <= a.TargetPrice
	}
	return false
}
