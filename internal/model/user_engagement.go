package model

// UserEngagement is one day of engagement metrics for a product.
// At most one row exists per (product, date). ChurnRate is a percentage.
type UserEngagement struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	Date        Date    `json:"date"`
	ActiveUsers int     `json:"active_users"`
	ChurnRate   float64 `json:"churn_rate"`
}
