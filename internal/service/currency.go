package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
)

type CreateCurrencyParams struct {
	Code string
	Name string
}

type UpdateCurrencyParams struct {
	ID   int64
	Code string
	Name string
}

type CurrencyService interface {
	CreateCurrency(ctx context.Context, params CreateCurrencyParams) (model.Currency, error)
	GetCurrency(ctx context.Context, id int64) (model.Currency, error)
	ListCurrencies(ctx context.Context) ([]model.Currency, error)
	UpdateCurrency(ctx context.Context, params UpdateCurrencyParams) (model.Currency, error)
	DeleteCurrency(ctx context.Context, id int64) error
}

type currencyService struct {
	currencyRepo repository.CurrencyRepository
}

func NewCurrencyService(currencyRepo repository.CurrencyRepository) CurrencyService {
	return &currencyService{currencyRepo: currencyRepo}
}

func (s *currencyService) CreateCurrency(ctx context.Context, params CreateCurrencyParams) (model.Currency, error) {
	currency, err := s.currencyRepo.CreateCurrency(ctx, repository.CreateCurrencyParams{
		Code: strings.ToUpper(params.Code),
		Name: params.Name,
	})
	if err != nil {
		return model.Currency{}, fmt.Errorf("currency repository create currency: %w", err)
	}

	return currency, nil
}

func (s *currencyService) GetCurrency(ctx context.Context, id int64) (model.Currency, error) {
	currency, err := s.currencyRepo.GetCurrency(ctx, id)
	if err != nil {
		return model.Currency{}, fmt.Errorf("currency repository get currency: %w", err)
	}

	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("currency repository list currencies: %w", err)
	}

	return currencies, nil
}

func (s *currencyService) UpdateCurrency(ctx context.Context, params UpdateCurrencyParams) (model.Currency, error) {
	currency, err := s.currencyRepo.UpdateCurrency(ctx, repository.UpdateCurrencyParams{
		ID:   params.ID,
		Code: strings.ToUpper(params.Code),
		Name: params.Name,
	})
	if err != nil {
		return model.Currency{}, fmt.Errorf("currency repository update currency: %w", err)
	}

	return currency, nil
}

func (s *currencyService) DeleteCurrency(ctx context.Context, id int64) error {
	if err := s.currencyRepo.DeleteCurrency(ctx, id); err != nil {
		return fmt.Errorf("currency repository delete currency: %w", err)
	}

	return nil
}
