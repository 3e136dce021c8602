package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/storage/db"
)

type CreateCustomerFeedbackParams struct {
	ProductID int64
	Date      model.Date
	Rating    float64
	Feedback  *string
}

type UpdateCustomerFeedbackParams struct {
	ID       int64
	Date     model.Date
	Rating   float64
	Feedback *string
}

type ListCustomerFeedbackParams struct {
	ProductID *int64
	Date      *model.Date
}

type CustomerFeedbackRepository interface {
	WithDB(db db.DB) CustomerFeedbackRepository
	CreateCustomerFeedback(ctx context.Context, params CreateCustomerFeedbackParams) (model.CustomerFeedback, error)
	GetCustomerFeedback(ctx context.Context, id int64) (model.CustomerFeedback, error)
	ListCustomerFeedback(ctx context.Context, params ListCustomerFeedbackParams) ([]model.CustomerFeedback, error)
	UpdateCustomerFeedback(ctx context.Context, params UpdateCustomerFeedbackParams) (model.CustomerFeedback, error)
	DeleteCustomerFeedback(ctx context.Context, id int64) error
}

type customerFeedbackRepository struct {
	db db.DB
}

func NewCustomerFeedbackRepository(db db.DB) CustomerFeedbackRepository {
	return &customerFeedbackRepository{db: db}
}

func (r customerFeedbackRepository) WithDB(db db.DB) CustomerFeedbackRepository {
	return &customerFeedbackRepository{db: db}
}

const customerFeedbackColumns = `id, product_id, date, rating, feedback`

func scanCustomerFeedback(row pgx.Row) (model.CustomerFeedback, error) {
	var (
		record model.CustomerFeedback
		date   time.Time
	)
	err := row.Scan(
		&record.ID,
		&record.ProductID,
		&date,
		&record.Rating,
		&record.Feedback,
	)
	if err != nil {
		return model.CustomerFeedback{}, err
	}

	record.Date = model.NewDate(date)
	return record, nil
}

func (r customerFeedbackRepository) CreateCustomerFeedback(ctx context.Context, params CreateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO customer_feedback (product_id, date, rating, feedback)
		VALUES (@product_id, @date, @rating, @feedback)
		RETURNING `+customerFeedbackColumns+`
	`, pgx.NamedArgs{
		"product_id": params.ProductID,
		"date":       params.Date.Time(),
		"rating":     params.Rating,
		"feedback":   params.Feedback,
	})

	record, err := scanCustomerFeedback(row)
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("create customer feedback: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r customerFeedbackRepository) GetCustomerFeedback(ctx context.Context, id int64) (model.CustomerFeedback, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+customerFeedbackColumns+` FROM customer_feedback WHERE id = @id
	`, pgx.NamedArgs{"id": id})

	record, err := scanCustomerFeedback(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CustomerFeedback{}, apperr.FeedbackNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("get customer feedback: %w", err)
	}

	return record, nil
}

func (r customerFeedbackRepository) ListCustomerFeedback(ctx context.Context, params ListCustomerFeedbackParams) ([]model.CustomerFeedback, error) {
	var date *time.Time
	if params.Date != nil {
		t := params.Date.Time()
		date = &t
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+customerFeedbackColumns+`
		FROM customer_feedback
		WHERE (@product_id::bigint IS NULL OR product_id = @product_id)
		  AND (@date::date IS NULL OR date = @date)
		ORDER BY date, id
	`, pgx.NamedArgs{
		"product_id": params.ProductID,
		"date":       date,
	})
	if err != nil {
		return nil, fmt.Errorf("list customer feedback: %w", err)
	}
	defer rows.Close()

	records := make([]model.CustomerFeedback, 0)
	for rows.Next() {
		record, err := scanCustomerFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer feedback: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customer feedback: %w", err)
	}

	return records, nil
}

func (r customerFeedbackRepository) UpdateCustomerFeedback(ctx context.Context, params UpdateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE customer_feedback
		SET date = @date, rating = @rating, feedback = @feedback
		WHERE id = @id
		RETURNING `+customerFeedbackColumns+`
	`, pgx.NamedArgs{
		"id":       params.ID,
		"date":     params.Date.Time(),
		"rating":   params.Rating,
		"feedback": params.Feedback,
	})

	record, err := scanCustomerFeedback(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.CustomerFeedback{}, apperr.FeedbackNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.CustomerFeedback{}, fmt.Errorf("update customer feedback: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r customerFeedbackRepository) DeleteCustomerFeedback(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM customer_feedback WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete customer feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.FeedbackNotFoundErr
	}

	return nil
}
