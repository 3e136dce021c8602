package service

import (
	"context"
	"fmt"

	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
)

// RecordService covers the per-product per-date metric records: sales,
// engagement and feedback. Range and uniqueness rules are enforced before
// this layer (request validation) and by the schema (constraints); the
// service itself is plain single-row CRUD.
type RecordService interface {
	CreateSalesData(ctx context.Context, params repository.CreateSalesDataParams) (model.SalesData, error)
	GetSalesData(ctx context.Context, id int64) (model.SalesData, error)
	ListSalesData(ctx context.Context, params repository.ListSalesDataParams) ([]model.SalesData, error)
	UpdateSalesData(ctx context.Context, params repository.UpdateSalesDataParams) (model.SalesData, error)
	DeleteSalesData(ctx context.Context, id int64) error

	CreateUserEngagement(ctx context.Context, params repository.CreateUserEngagementParams) (model.UserEngagement, error)
	GetUserEngagement(ctx context.Context, id int64) (model.UserEngagement, error)
	ListUserEngagement(ctx context.Context, params repository.ListUserEngagementParams) ([]model.UserEngagement, error)
	UpdateUserEngagement(ctx context.Context, params repository.UpdateUserEngagementParams) (model.UserEngagement, error)
	DeleteUserEngagement(ctx context.Context, id int64) error

	CreateCustomerFeedback(ctx context.Context, params repository.CreateCustomerFeedbackParams) (model.CustomerFeedback, error)
	GetCustomerFeedback(ctx context.Context, id int64) (model.CustomerFeedback, error)
	ListCustomerFeedback(ctx context.Context, params repository.ListCustomerFeedbackParams) ([]model.CustomerFeedback, error)
	UpdateCustomerFeedback(ctx context.Context, params repository.UpdateCustomerFeedbackParams) (model.CustomerFeedback, error)
	DeleteCustomerFeedback(ctx context.Context, id int64) error
}

type recordService struct {
	salesRepo      repository.SalesDataRepository
	engagementRepo repository.UserEngagementRepository
	feedbackRepo   repository.CustomerFeedbackRepository
}

func NewRecordService(
	salesRepo repository.SalesDataRepository,
	engagementRepo repository.UserEngagementRepository,
	feedbackRepo repository.CustomerFeedbackRepository,
) RecordService {
	return &recordService{
		salesRepo:      salesRepo,
		engagementRepo: engagementRepo,
		feedbackRepo:   feedbackRepo,
	}
}

func (s *recordService) CreateSalesData(ctx context.Context, params repository.CreateSalesDataParams) (model.SalesData, error) {
	record, err := s.salesRepo.CreateSalesData(ctx, params)
	if err != nil {
		return model.SalesData{}, fmt.Errorf("sales data repository create: %w", err)
	}
	return record, nil
}

func (s *recordService) GetSalesData(ctx context.Context, id int64) (model.SalesData, error) {
	record, err := s.salesRepo.GetSalesData(ctx, id)
	if err != nil {
		return model.SalesData{}, fmt.Errorf("sales data repository get: %w", err)
	}
	return record, nil
}

func (s *recordService) ListSalesData(ctx context.Context, params repository.ListSalesDataParams) ([]model.SalesData, error) {
	records, err := s.salesRepo.ListSalesData(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("sales data repository list: %w", err)
	}
	return records, nil
}

func (s *recordService) UpdateSalesData(ctx context.Context, params repository.UpdateSalesDataParams) (model.SalesData, error) {
	record, err := s.salesRepo.UpdateSalesData(ctx, params)
	if err != nil {
		return model.SalesData{}, fmt.Errorf("sales data repository update: %w", err)
	}
	return record, nil
}

func (s *recordService) DeleteSalesData(ctx context.Context, id int64) error {
	if err := s.salesRepo.DeleteSalesData(ctx, id); err != nil {
		return fmt.Errorf("sales data repository delete: %w", err)
	}
	return nil
}

func (s *recordService) CreateUserEngagement(ctx context.Context, params repository.CreateUserEngagementParams) (model.UserEngagement, error) {
	record, err := s.engagementRepo.CreateUserEngagement(ctx, params)
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("user engagement repository create: %w", err)
	}
	return record, nil
}

func (s *recordService) GetUserEngagement(ctx context.Context, id int64) (model.UserEngagement, error) {
	record, err := s.engagementRepo.GetUserEngagement(ctx, id)
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("user engagement repository get: %w", err)
	}
	return record, nil
}

func (s *recordService) ListUserEngagement(ctx context.Context, params repository.ListUserEngagementParams) ([]model.UserEngagement, error) {
	records, err := s.engagementRepo.ListUserEngagement(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("user engagement repository list: %w", err)
	}
	return records, nil
}

func (s *recordService) UpdateUserEngagement(ctx context.Context, params repository.UpdateUserEngagementParams) (model.UserEngagement, error) {
	record, err := s.engagementRepo.UpdateUserEngagement(ctx, params)
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("user engagement repository update: %w", err)
	}
	return record, nil
}

func (s *recordService) DeleteUserEngagement(ctx context.Context, id int64) error {
	if err := s.engagementRepo.DeleteUserEngagement(ctx, id); err != nil {
		return fmt.Errorf("user engagement repository delete: %w", err)
	}
	return nil
}

func (s *recordService) CreateCustomerFeedback(ctx context.Context, params repository.CreateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	record, err := s.feedbackRepo.CreateCustomerFeedback(ctx, params)
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("customer feedback repository create: %w", err)
	}
	return record, nil
}

func (s *recordService) GetCustomerFeedback(ctx context.Context, id int64) (model.CustomerFeedback, error) {
	record, err := s.feedbackRepo.GetCustomerFeedback(ctx, id)
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("customer feedback repository get: %w", err)
	}
	return record, nil
}

func (s *recordService) ListCustomerFeedback(ctx context.Context, params repository.ListCustomerFeedbackParams) ([]model.CustomerFeedback, error) {
	records, err := s.feedbackRepo.ListCustomerFeedback(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("customer feedback repository list: %w", err)
	}
	return records, nil
}

func (s *recordService) UpdateCustomerFeedback(ctx context.Context, params repository.UpdateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	record, err := s.feedbackRepo.UpdateCustomerFeedback(ctx, params)
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("customer feedback repository update: %w", err)
	}
	return record, nil
}

func (s *recordService) DeleteCustomerFeedback(ctx context.Context, id int64) error {
	if err := s.feedbackRepo.DeleteCustomerFeedback(ctx, id); err != nil {
		return fmt.Errorf("customer feedback repository delete: %w", err)
	}
	return nil
}
