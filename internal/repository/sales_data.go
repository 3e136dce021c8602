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

type CreateSalesDataParams struct {
	ProductID  int64
	Date       model.Date
	UnitsSold  int
	Revenue    decimal.Decimal
	CurrencyID int64
}

type UpdateSalesDataParams struct {
	ID         int64
	Date       model.Date
	UnitsSold  int
	Revenue    decimal.Decimal
	CurrencyID int64
}

type ListSalesDataParams struct {
	// ProductID filters on the owning product when set.
	ProductID *int64
	// Date filters on a single calendar date when set.
	Date *model.Date
}

type SalesDataRepository interface {
	WithDB(db db.DB) SalesDataRepository
	CreateSalesData(ctx context.Context, params CreateSalesDataParams) (model.SalesData, error)
	GetSalesData(ctx context.Context, id int64) (model.SalesData, error)
	ListSalesData(ctx context.Context, params ListSalesDataParams) ([]model.SalesData, error)
	UpdateSalesData(ctx context.Context, params UpdateSalesDataParams) (model.SalesData, error)
	DeleteSalesData(ctx context.Context, id int64) error
}

type salesDataRepository struct {
	db db.DB
}

func NewSalesDataRepository(db db.DB) SalesDataRepository {
	return &salesDataRepository{db: db}
}

func (r salesDataRepository) WithDB(db db.DB) SalesDataRepository {
	return &salesDataRepository{db: db}
}

// Revenue travels through the wire as text so numeric columns never go
// through a lossy float conversion.
const salesDataColumns = `id, product_id, date, units_sold, revenue::text, currency_id`

func scanSalesData(row pgx.Row) (model.SalesData, error) {
	var (
		record  model.SalesData
		date    time.Time
		revenue string
	)
	err := row.Scan(
		&record.ID,
		&record.ProductID,
		&date,
		&record.UnitsSold,
		&revenue,
		&record.CurrencyID,
	)
	if err != nil {
		return model.SalesData{}, err
	}

	record.Date = model.NewDate(date)
	record.Revenue, err = decimal.NewFromString(revenue)
	if err != nil {
		return model.SalesData{}, fmt.Errorf("parse revenue: %w", err)
	}

	return record, nil
}

func (r salesDataRepository) CreateSalesData(ctx context.Context, params CreateSalesDataParams) (model.SalesData, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO sales_data (product_id, date, units_sold, revenue, currency_id)
		VALUES (@product_id, @date, @units_sold, @revenue::numeric, @currency_id)
		RETURNING `+salesDataColumns+`
	`, pgx.NamedArgs{
		"product_id":  params.ProductID,
		"date":        params.Date.Time(),
		"units_sold":  params.UnitsSold,
		"revenue":     params.Revenue.String(),
		"currency_id": params.CurrencyID,
	})

	record, err := scanSalesData(row)
	if err != nil {
		if isConstraint(err, "sales_data_currency_id_fkey") {
			return model.SalesData{}, apperr.CurrencyNotFoundErr.WrapParent(err)
		}
		return model.SalesData{}, fmt.Errorf("create sales data: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r salesDataRepository) GetSalesData(ctx context.Context, id int64) (model.SalesData, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+salesDataColumns+` FROM sales_data WHERE id = @id
	`, pgx.NamedArgs{"id": id})

	record, err := scanSalesData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SalesData{}, apperr.SalesDataNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.SalesData{}, fmt.Errorf("get sales data: %w", err)
	}

	return record, nil
}

func (r salesDataRepository) ListSalesData(ctx context.Context, params ListSalesDataParams) ([]model.SalesData, error) {
	var date *time.Time
	if params.Date != nil {
		t := params.Date.Time()
		date = &t
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+salesDataColumns+`
		FROM sales_data
		WHERE (@product_id::bigint IS NULL OR product_id = @product_id)
		  AND (@date::date IS NULL OR date = @date)
		ORDER BY date, id
	`, pgx.NamedArgs{
		"product_id": params.ProductID,
		"date":       date,
	})
	if err != nil {
		return nil, fmt.Errorf("list sales data: %w", err)
	}
	defer rows.Close()

	records := make([]model.SalesData, 0)
	for rows.Next() {
		record, err := scanSalesData(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales data: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales data: %w", err)
	}

	return records, nil
}

func (r salesDataRepository) UpdateSalesData(ctx context.Context, params UpdateSalesDataParams) (model.SalesData, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE sales_data
		SET date = @date, units_sold = @units_sold, revenue = @revenue::numeric, currency_id = @currency_id
		WHERE id = @id
		RETURNING `+salesDataColumns+`
	`, pgx.NamedArgs{
		"id":          params.ID,
		"date":        params.Date.Time(),
		"units_sold":  params.UnitsSold,
		"revenue":     params.Revenue.String(),
		"currency_id": params.CurrencyID,
	})

	record, err := scanSalesData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SalesData{}, apperr.SalesDataNotFoundErr.WrapParent(err)
	}
	if err != nil {
		if isConstraint(err, "sales_data_currency_id_fkey") {
			return model.SalesData{}, apperr.CurrencyNotFoundErr.WrapParent(err)
		}
		return model.SalesData{}, fmt.Errorf("update sales data: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r salesDataRepository) DeleteSalesData(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sales_data WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete sales data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.SalesDataNotFoundErr
	}

	return nil
}
