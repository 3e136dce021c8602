package service

import (
	"context"
	"fmt"
	"math"

	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
)

// MetricsService is the read-only reporting layer: per-product summaries for
// the dashboard list and the three chart series for the detail view.
type MetricsService interface {
	ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error)
	GetProductTimeseries(ctx context.Context, productID int64) (model.ProductTimeseries, error)
}

type metricsService struct {
	metricsRepo repository.MetricsRepository
}

func NewMetricsService(metricsRepo repository.MetricsRepository) MetricsService {
	return &metricsService{metricsRepo: metricsRepo}
}

func (s *metricsService) ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error) {
	summaries, err := s.metricsRepo.ListProductSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics repository list product summaries: %w", err)
	}

	for i := range summaries {
		summaries[i].ChurnRate = round2(summaries[i].ChurnRate)
	}

	return summaries, nil
}

func (s *metricsService) GetProductTimeseries(ctx context.Context, productID int64) (model.ProductTimeseries, error) {
	// The summary lookup doubles as the existence check: a missing product
	// fails here with not-found before any series query runs.
	summary, err := s.metricsRepo.GetProductSummary(ctx, productID)
	if err != nil {
		return model.ProductTimeseries{}, fmt.Errorf("metrics repository get product summary: %w", err)
	}
	summary.ChurnRate = round2(summary.ChurnRate)

	sales, err := s.metricsRepo.ListSalesSeries(ctx, productID)
	if err != nil {
		return model.ProductTimeseries{}, fmt.Errorf("metrics repository list sales series: %w", err)
	}

	engagement, err := s.metricsRepo.ListEngagementSeries(ctx, productID)
	if err != nil {
		return model.ProductTimeseries{}, fmt.Errorf("metrics repository list engagement series: %w", err)
	}
	for i := range engagement {
		engagement[i].ChurnRate = round2(engagement[i].ChurnRate)
	}

	feedback, err := s.metricsRepo.ListFeedbackSeries(ctx, productID)
	if err != nil {
		return model.ProductTimeseries{}, fmt.Errorf("metrics repository list feedback series: %w", err)
	}

	return model.ProductTimeseries{
		Summary:    summary,
		Sales:      sales,
		Engagement: engagement,
		Feedback:   feedback,
	}, nil
}

// round2 rounds to two decimal places, matching how churn rates are shown.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
