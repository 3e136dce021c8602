package model

import "github.com/shopspring/decimal"

// ProductSummary is one dashboard row: the most recent sales and engagement
// record plus the all-time feedback aggregate for a product.
//
// Absent data is reported as 0, matching the recorded-zero case. When several
// sales rows share the latest date (one per currency) the row with the
// highest id wins.
type ProductSummary struct {
	Product         Product         `json:"product"`
	LatestRevenue   decimal.Decimal `json:"latest_revenue"`
	LatestUnitsSold int             `json:"latest_units_sold"`
	ActiveUsers     int             `json:"active_users"`
	ChurnRate       float64         `json:"churn_rate"`
	AverageRating   float64         `json:"average_rating"`
	TotalFeedback   int             `json:"total_feedback"`
}

// SalesPoint is one point of the sales series.
type SalesPoint struct {
	Date      Date    `json:"date"`
	Revenue   float64 `json:"revenue"`
	UnitsSold int     `json:"units_sold"`
}

// EngagementPoint is one point of the engagement series.
type EngagementPoint struct {
	Date        Date    `json:"date"`
	ActiveUsers int     `json:"active_users"`
	ChurnRate   float64 `json:"churn_rate"`
}

// FeedbackPoint is one per-date feedback rollup: the count and mean rating of
// that date's feedback rows only, never cumulative.
type FeedbackPoint struct {
	Date          Date    `json:"date"`
	FeedbackCount int     `json:"feedback_count"`
	AverageRating float64 `json:"average_rating"`
}

// ProductTimeseries holds the three chart series for one product. The series
// are independently ordered by date and are not aligned to a common date
// axis; callers correlating across series must match on the date field.
type ProductTimeseries struct {
	Summary    ProductSummary    `json:"summary"`
	Sales      []SalesPoint      `json:"sales"`
	Engagement []EngagementPoint `json:"engagement"`
	Feedback   []FeedbackPoint   `json:"feedback"`
}
