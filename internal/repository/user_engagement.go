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

type CreateUserEngagementParams struct {
	ProductID   int64
	Date        model.Date
	ActiveUsers int
	ChurnRate   float64
}

type UpdateUserEngagementParams struct {
	ID          int64
	Date        model.Date
	ActiveUsers int
	ChurnRate   float64
}

type ListUserEngagementParams struct {
	ProductID *int64
	Date      *model.Date
}

type UserEngagementRepository interface {
	WithDB(db db.DB) UserEngagementRepository
	CreateUserEngagement(ctx context.Context, params CreateUserEngagementParams) (model.UserEngagement, error)
	GetUserEngagement(ctx context.Context, id int64) (model.UserEngagement, error)
	ListUserEngagement(ctx context.Context, params ListUserEngagementParams) ([]model.UserEngagement, error)
	UpdateUserEngagement(ctx context.Context, params UpdateUserEngagementParams) (model.UserEngagement, error)
	DeleteUserEngagement(ctx context.Context, id int64) error
}

type userEngagementRepository struct {
	db db.DB
}

func NewUserEngagementRepository(db db.DB) UserEngagementRepository {
	return &userEngagementRepository{db: db}
}

func (r userEngagementRepository) WithDB(db db.DB) UserEngagementRepository {
	return &userEngagementRepository{db: db}
}

const userEngagementColumns = `id, product_id, date, active_users, churn_rate`

func scanUserEngagement(row pgx.Row) (model.UserEngagement, error) {
	var (
		record model.UserEngagement
		date   time.Time
	)
	err := row.Scan(
		&record.ID,
		&record.ProductID,
		&date,
		&record.ActiveUsers,
		&record.ChurnRate,
	)
	if err != nil {
		return model.UserEngagement{}, err
	}

	record.Date = model.NewDate(date)
	return record, nil
}

func (r userEngagementRepository) CreateUserEngagement(ctx context.Context, params CreateUserEngagementParams) (model.UserEngagement, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO user_engagement (product_id, date, active_users, churn_rate)
		VALUES (@product_id, @date, @active_users, @churn_rate)
		RETURNING `+userEngagementColumns+`
	`, pgx.NamedArgs{
		"product_id":   params.ProductID,
		"date":         params.Date.Time(),
		"active_users": params.ActiveUsers,
		"churn_rate":   params.ChurnRate,
	})

	record, err := scanUserEngagement(row)
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("create user engagement: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r userEngagementRepository) GetUserEngagement(ctx context.Context, id int64) (model.UserEngagement, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userEngagementColumns+` FROM user_engagement WHERE id = @id
	`, pgx.NamedArgs{"id": id})

	record, err := scanUserEngagement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserEngagement{}, apperr.EngagementNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("get user engagement: %w", err)
	}

	return record, nil
}

func (r userEngagementRepository) ListUserEngagement(ctx context.Context, params ListUserEngagementParams) ([]model.UserEngagement, error) {
	var date *time.Time
	if params.Date != nil {
		t := params.Date.Time()
		date = &t
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+userEngagementColumns+`
		FROM user_engagement
		WHERE (@product_id::bigint IS NULL OR product_id = @product_id)
		  AND (@date::date IS NULL OR date = @date)
		ORDER BY date, id
	`, pgx.NamedArgs{
		"product_id": params.ProductID,
		"date":       date,
	})
	if err != nil {
		return nil, fmt.Errorf("list user engagement: %w", err)
	}
	defer rows.Close()

	records := make([]model.UserEngagement, 0)
	for rows.Next() {
		record, err := scanUserEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user engagement: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user engagement: %w", err)
	}

	return records, nil
}

func (r userEngagementRepository) UpdateUserEngagement(ctx context.Context, params UpdateUserEngagementParams) (model.UserEngagement, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE user_engagement
		SET date = @date, active_users = @active_users, churn_rate = @churn_rate
		WHERE id = @id
		RETURNING `+userEngagementColumns+`
	`, pgx.NamedArgs{
		"id":           params.ID,
		"date":         params.Date.Time(),
		"active_users": params.ActiveUsers,
		"churn_rate":   params.ChurnRate,
	})

	record, err := scanUserEngagement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserEngagement{}, apperr.EngagementNotFoundErr.WrapParent(err)
	}
	if err != nil {
		return model.UserEngagement{}, fmt.Errorf("update user engagement: %w", mapConstraintErr(err))
	}

	return record, nil
}

func (r userEngagementRepository) DeleteUserEngagement(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM user_engagement WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("delete user engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.EngagementNotFoundErr
	}

	return nil
}
