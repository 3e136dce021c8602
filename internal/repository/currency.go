package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/storage/db"
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

type CurrencyRepository interface {
	WithDB(db db.DB) CurrencyRepository
	CreateCurrency(ctx context.Context, params CreateCurrencyParams) (model.Currency, error)
	GetCurrency(ctx context.Context, id int64) (model.Currency, error)
	ListCurrencies(ctx context.Context) ([]model.Currency, error)
	UpdateCurrency(ctx context.Context, params UpdateCurrencyParams) (model.Currency, error)
	DeleteCurrency(ctx context.Context, id int64) error
}

type currencyRepository struct {
	db db.DB
}

func NewCurrencyRepository(db db.DB) CurrencyRepository {
	return &currencyRepository{db: db}
}

func (r currencyRepository) WithDB(db db.DB) CurrencyRepository {
	return &currencyRepository{db: db}
}

func (r currencyRepository) CreateCurrency(ctx context.Context, params CreateCurrencyParams) (model.Currency, error) {
	var currency model.Currency
	err := r.db.QueryRow(ctx, `
		INSERT INTO currencies (code, name)
		VALUES (@code, @name)
		RETURNING id, code, name
	`, pgx.NamedArgs{
		"code": params.Code,
		"name": params.Name,
	}).Scan(&currency.ID, &currency.Code, &currency.Name)
	if err != nil {
		return model.Currency{}, fmt.Errorf("create currency: %w", mapConstraintErr(err))
	}

	return currency, nil
}

func (r currencyRepository) GetCurrency(ctx context.Context, id int64) (model.Currency, error) {
	var currency model.Currency
	err := r.db.QueryRow(ctx, `
		SELECT id, code, name FROM currencies WHERE id = @id
	`, pgx.NamedArgs{"id": id}).Scan(&currency.ID, &currency.Code, &currency.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Currency{}, apperr.CurrencyNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Currency{}, fmt.Errorf("get currency: %w", err)
	}

	return currency, nil
}

func (r currencyRepository) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, name FROM currencies ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	currencies := make([]model.Currency, 0)
	for rows.Next() {
		var currency model.Currency
		if err := rows.Scan(&currency.ID, &currency.Code, &currency.Name); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	return currencies, nil
}

func (r currencyRepository) UpdateCurrency(ctx context.Context, params UpdateCurrencyParams) (model.Currency, error) {
	var currency model.Currency
	err := r.db.QueryRow(ctx, `
		UPDATE currencies
		SET code = @code, name = @name
		WHERE id = @id
		RETURNING id, code, name
	`, pgx.NamedArgs{
		"id":   params.ID,
		"code": params.Code,
		"name": params.Name,
	}).Scan(&currency.ID, &currency.Code, &currency.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Currency{}, apperr.CurrencyNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.Currency{}, fmt.Errorf("update currency: %w", mapConstraintErr(err))
	}

	return currency, nil
}

func (r currencyRepository) DeleteCurrency(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM currencies WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		// RESTRICT on sales_data.currency_id blocks deleting a referenced currency.
		if isConstraint(err, "sales_data_currency_id_fkey") {
			return apperr.CurrencyInUseErr.WrapParent(err)
		}
		return fmt.Errorf("delete currency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.CurrencyNotFoundErr
	}

	return nil
}
