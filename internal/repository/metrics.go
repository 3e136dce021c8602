package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/storage/db"
)

// MetricsRepository runs the read-only reporting queries. It never writes.
type MetricsRepository interface {
	WithDB(db db.DB) MetricsRepository
	ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error)
	GetProductSummary(ctx context.Context, productID int64) (model.ProductSummary, error)
	ListSalesSeries(ctx context.Context, productID int64) ([]model.SalesPoint, error)
	ListEngagementSeries(ctx context.Context, productID int64) ([]model.EngagementPoint, error)
	ListFeedbackSeries(ctx context.Context, productID int64) ([]model.FeedbackPoint, error)
}

type metricsRepository struct {
	db db.DB
}

func NewMetricsRepository(db db.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r metricsRepository) WithDB(db db.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

// The latest row per product is resolved with "ORDER BY date DESC, id DESC":
// several sales rows may legally share the max date (one per currency), and
// the highest id wins among them. Absent rows and the empty feedback
// aggregate coalesce to 0.
const summaryQuery = `
	SELECT
		p.id, p.name, p.description, p.is_active, p.created_at, p.updated_at,
		COALESCE(ls.revenue, 0)::text AS latest_revenue,
		COALESCE(ls.units_sold, 0)    AS latest_units_sold,
		COALESCE(le.active_users, 0)  AS active_users,
		COALESCE(le.churn_rate, 0)    AS churn_rate,
		COALESCE(fb.avg_rating, 0)    AS average_rating,
		COALESCE(fb.total, 0)         AS total_feedback
	FROM products p
	LEFT JOIN LATERAL (
		SELECT s.revenue, s.units_sold
		FROM sales_data s
		WHERE s.product_id = p.id
		ORDER BY s.date DESC, s.id DESC
		LIMIT 1
	) ls ON true
	LEFT JOIN LATERAL (
		SELECT e.active_users, e.churn_rate
		FROM user_engagement e
		WHERE e.product_id = p.id
		ORDER BY e.date DESC, e.id DESC
		LIMIT 1
	) le ON true
	LEFT JOIN LATERAL (
		SELECT AVG(f.rating) AS avg_rating, COUNT(*) AS total
		FROM customer_feedback f
		WHERE f.product_id = p.id
	) fb ON true`

func scanProductSummary(row pgx.Row) (model.ProductSummary, error) {
	var (
		summary model.ProductSummary
		revenue string
	)
	err := row.Scan(
		&summary.Product.ID,
		&summary.Product.Name,
		&summary.Product.Description,
		&summary.Product.IsActive,
		&summary.Product.CreatedAt,
		&summary.Product.UpdatedAt,
		&revenue,
		&summary.LatestUnitsSold,
		&summary.ActiveUsers,
		&summary.ChurnRate,
		&summary.AverageRating,
		&summary.TotalFeedback,
	)
	if err != nil {
		return model.ProductSummary{}, err
	}

	summary.LatestRevenue, err = decimal.NewFromString(revenue)
	if err != nil {
		return model.ProductSummary{}, fmt.Errorf("parse latest revenue: %w", err)
	}

	return summary, nil
}

func (r metricsRepository) ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error) {
	rows, err := r.db.Query(ctx, summaryQuery+`
	ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("list product summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]model.ProductSummary, 0)
	for rows.Next() {
		summary, err := scanProductSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list product summaries: %w", err)
	}

	return summaries, nil
}

func (r metricsRepository) GetProductSummary(ctx context.Context, productID int64) (model.ProductSummary, error) {
	row := r.db.QueryRow(ctx, summaryQuery+`
	WHERE p.id = @product_id`, pgx.NamedArgs{"product_id": productID})

	summary, err := scanProductSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ProductSummary{}, apperr.ProductNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.ProductSummary{}, fmt.Errorf("get product summary: %w", err)
	}

	return summary, nil
}

func (r metricsRepository) ListSalesSeries(ctx context.Context, productID int64) ([]model.SalesPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.date, s.revenue::float8, s.units_sold
		FROM sales_data s
		WHERE s.product_id = @product_id
		ORDER BY s.date, s.id
	`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("list sales series: %w", err)
	}
	defer rows.Close()

	points := make([]model.SalesPoint, 0)
	for rows.Next() {
		var (
			point model.SalesPoint
			date  time.Time
		)
		if err := rows.Scan(&date, &point.Revenue, &point.UnitsSold); err != nil {
			return nil, fmt.Errorf("scan sales point: %w", err)
		}
		point.Date = model.NewDate(date)
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales series: %w", err)
	}

	return points, nil
}

func (r metricsRepository) ListEngagementSeries(ctx context.Context, productID int64) ([]model.EngagementPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.date, e.active_users, e.churn_rate
		FROM user_engagement e
		WHERE e.product_id = @product_id
		ORDER BY e.date, e.id
	`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("list engagement series: %w", err)
	}
	defer rows.Close()

	points := make([]model.EngagementPoint, 0)
	for rows.Next() {
		var (
			point model.EngagementPoint
			date  time.Time
		)
		if err := rows.Scan(&date, &point.ActiveUsers, &point.ChurnRate); err != nil {
			return nil, fmt.Errorf("scan engagement point: %w", err)
		}
		point.Date = model.NewDate(date)
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list engagement series: %w", err)
	}

	return points, nil
}

func (r metricsRepository) ListFeedbackSeries(ctx context.Context, productID int64) ([]model.FeedbackPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.date, COUNT(*) AS feedback_count, AVG(f.rating) AS average_rating
		FROM customer_feedback f
		WHERE f.product_id = @product_id
		GROUP BY f.date
		ORDER BY f.date
	`, pgx.NamedArgs{"product_id": productID})
	if err != nil {
		return nil, fmt.Errorf("list feedback series: %w", err)
	}
	defer rows.Close()

	points := make([]model.FeedbackPoint, 0)
	for rows.Next() {
		var (
			point model.FeedbackPoint
			date  time.Time
		)
		if err := rows.Scan(&date, &point.FeedbackCount, &point.AverageRating); err != nil {
			return nil, fmt.Errorf("scan feedback point: %w", err)
		}
		point.Date = model.NewDate(date)
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feedback series: %w", err)
	}

	return points, nil
}
