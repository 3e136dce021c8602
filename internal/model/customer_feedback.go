package model

// CustomerFeedback is one day of customer feedback for a product.
// At most one row exists per (product, date). Rating is on a 0-5 scale.
type CustomerFeedback struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Date      Date    `json:"date"`
	Rating    float64 `json:"rating"`
	Feedback  *string `json:"feedback"`
}
