package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/internal/storage/db"
)

type fakeMetricsRepo struct {
	summaries  []model.ProductSummary
	summary    model.ProductSummary
	summaryErr error
	sales      []model.SalesPoint
	engagement []model.EngagementPoint
	feedback   []model.FeedbackPoint
}

func (r *fakeMetricsRepo) WithDB(db db.DB) repository.MetricsRepository { return r }

func (r *fakeMetricsRepo) ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error) {
	return r.summaries, nil
}

func (r *fakeMetricsRepo) GetProductSummary(ctx context.Context, productID int64) (model.ProductSummary, error) {
	if r.summaryErr != nil {
		return model.ProductSummary{}, r.summaryErr
	}
	return r.summary, nil
}

func (r *fakeMetricsRepo) ListSalesSeries(ctx context.Context, productID int64) ([]model.SalesPoint, error) {
	return r.sales, nil
}

func (r *fakeMetricsRepo) ListEngagementSeries(ctx context.Context, productID int64) ([]model.EngagementPoint, error) {
	return r.engagement, nil
}

func (r *fakeMetricsRepo) ListFeedbackSeries(ctx context.Context, productID int64) ([]model.FeedbackPoint, error) {
	return r.feedback, nil
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMetricsServiceListProductSummaries(t *testing.T) {
	t.Run("Should round churn rates to two decimals", func(t *testing.T) {
		repo := &fakeMetricsRepo{
			summaries: []model.ProductSummary{
				{ChurnRate: 3.14159},
				{ChurnRate: 8.126},
			},
		}
		svc := service.NewMetricsService(repo)

		summaries, err := svc.ListProductSummaries(context.Background())

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, 3.14, summaries[0].ChurnRate)
		assert.Equal(t, 8.13, summaries[1].ChurnRate)
	})

	t.Run("Should keep zero aggregates for products without records", func(t *testing.T) {
		repo := &fakeMetricsRepo{
			summaries: []model.ProductSummary{
				{Product: model.Product{ID: 1, Name: "bare"}},
			},
		}
		svc := service.NewMetricsService(repo)

		summaries, err := svc.ListProductSummaries(context.Background())

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.True(t, summaries[0].LatestRevenue.IsZero())
		assert.Zero(t, summaries[0].ActiveUsers)
		assert.Zero(t, summaries[0].AverageRating)
		assert.Zero(t, summaries[0].TotalFeedback)
	})
}

func TestMetricsServiceGetProductTimeseries(t *testing.T) {
	t.Run("Should assemble summary and all three series", func(t *testing.T) {
		repo := &fakeMetricsRepo{
			summary: model.ProductSummary{
				Product:         model.Product{ID: 7, Name: "widget"},
				LatestRevenue:   decimal.RequireFromString("99.90"),
				LatestUnitsSold: 12,
				ActiveUsers:     340,
				ChurnRate:       4.666,
				AverageRating:   4.25,
				TotalFeedback:   8,
			},
			sales: []model.SalesPoint{
				{Date: mustDate(t, "2026-01-01"), Revenue: 10, UnitsSold: 1},
				{Date: mustDate(t, "2026-01-02"), Revenue: 99.9, UnitsSold: 12},
			},
			engagement: []model.EngagementPoint{
				{Date: mustDate(t, "2026-01-02"), ActiveUsers: 340, ChurnRate: 4.666},
			},
			feedback: []model.FeedbackPoint{
				{Date: mustDate(t, "2026-01-02"), FeedbackCount: 8, AverageRating: 4.25},
			},
		}
		svc := service.NewMetricsService(repo)

		ts, err := svc.GetProductTimeseries(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), ts.Summary.Product.ID)
		assert.Equal(t, 4.67, ts.Summary.ChurnRate)
		assert.Len(t, ts.Sales, 2)
		require.Len(t, ts.Engagement, 1)
		assert.Equal(t, 4.67, ts.Engagement[0].ChurnRate)
		assert.Len(t, ts.Feedback, 1)
	})

	t.Run("Should propagate not found for unknown products", func(t *testing.T) {
		repo := &fakeMetricsRepo{summaryErr: apperr.ProductNotFoundErr}
		svc := service.NewMetricsService(repo)

		_, err := svc.GetProductTimeseries(context.Background(), 404)

		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}
