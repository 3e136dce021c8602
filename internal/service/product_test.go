package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/event"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/internal/storage/db"
	"github.com/prodpulse/product-metrics/pkg/ptr"
)

// fakeDB runs transaction functions against itself so repositories see the
// same fake inside and outside a transaction.
type fakeDB struct {
	txCount int
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (f *fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (f *fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func (f *fakeDB) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	f.txCount++
	return txFunc(f)
}

type fakeProductRepo struct {
	nextID     int64
	createErr  error
	deleted    model.Product
	deleteErr  error
	bulkIDs    []int64
	bulkActive bool
}

func (r *fakeProductRepo) WithDB(db db.DB) repository.ProductRepository { return r }

func (r *fakeProductRepo) CreateProduct(ctx context.Context, params repository.CreateProductParams) (model.Product, error) {
	if r.createErr != nil {
		return model.Product{}, r.createErr
	}
	r.nextID++
	return model.Product{
		ID:          r.nextID,
		Name:        params.Name,
		Description: params.Description,
		IsActive:    params.IsActive,
		CreatedAt:   params.CreatedAt,
		UpdatedAt:   params.UpdatedAt,
	}, nil
}

func (r *fakeProductRepo) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	return model.Product{ID: id, Name: "stored"}, nil
}

func (r *fakeProductRepo) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) UpdateProduct(ctx context.Context, params repository.UpdateProductParams) (model.Product, error) {
	return model.Product{
		ID:          params.ID,
		Name:        params.Name,
		Description: params.Description,
		IsActive:    params.IsActive,
		UpdatedAt:   params.UpdatedAt,
	}, nil
}

func (r *fakeProductRepo) DeleteProduct(ctx context.Context, id int64) (model.Product, error) {
	if r.deleteErr != nil {
		return model.Product{}, r.deleteErr
	}
	return r.deleted, nil
}

func (r *fakeProductRepo) SetProductsActive(ctx context.Context, ids []int64, active bool, updatedAt time.Time) (int64, error) {
	r.bulkIDs = ids
	r.bulkActive = active
	return int64(len(ids)), nil
}

type fakeOutboxRepo struct {
	msgs      []repository.CreateOutboxMsgParams
	createErr error
}

func (r *fakeOutboxRepo) WithDB(db db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(ctx context.Context, params repository.CreateOutboxMsgParams) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.msgs = append(r.msgs, params)
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(ctx context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(ctx context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

func TestProductServiceCreateProduct(t *testing.T) {
	t.Run("Should write the created event in the same transaction", func(t *testing.T) {
		dbClient := &fakeDB{}
		outboxRepo := &fakeOutboxRepo{}
		svc := service.NewProductService(dbClient, &fakeProductRepo{}, outboxRepo)

		product, err := svc.CreateProduct(context.Background(), service.CreateProductParams{
			Name:        "widget",
			Description: ptr.New("a widget"),
			IsActive:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), product.ID)
		assert.Equal(t, 1, dbClient.txCount)

		require.Len(t, outboxRepo.msgs, 1)
		msg := outboxRepo.msgs[0]
		assert.Equal(t, event.TopicProductCreated, msg.Topic)
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "1", *msg.PartitionKey)

		var ev event.ProductEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, int64(1), ev.ProductID)
		assert.Equal(t, "widget", ev.Name)
		assert.True(t, ev.IsActive)
	})

	t.Run("Should fail the transaction when the outbox write fails", func(t *testing.T) {
		outboxRepo := &fakeOutboxRepo{createErr: errors.New("insert failed")}
		svc := service.NewProductService(&fakeDB{}, &fakeProductRepo{}, outboxRepo)

		_, err := svc.CreateProduct(context.Background(), service.CreateProductParams{Name: "widget"})

		assert.Error(t, err)
	})
}

func TestProductServiceUpdateProduct(t *testing.T) {
	t.Run("Should write the updated event", func(t *testing.T) {
		outboxRepo := &fakeOutboxRepo{}
		svc := service.NewProductService(&fakeDB{}, &fakeProductRepo{}, outboxRepo)

		product, err := svc.UpdateProduct(context.Background(), service.UpdateProductParams{
			ID:       5,
			Name:     "renamed",
			IsActive: false,
		})

		require.NoError(t, err)
		assert.Equal(t, "renamed", product.Name)

		require.Len(t, outboxRepo.msgs, 1)
		assert.Equal(t, event.TopicProductUpdated, outboxRepo.msgs[0].Topic)
	})
}

func TestProductServiceDeleteProduct(t *testing.T) {
	t.Run("Should publish the deleted row's snapshot", func(t *testing.T) {
		outboxRepo := &fakeOutboxRepo{}
		productRepo := &fakeProductRepo{
			deleted: model.Product{ID: 9, Name: "gone", IsActive: true},
		}
		svc := service.NewProductService(&fakeDB{}, productRepo, outboxRepo)

		err := svc.DeleteProduct(context.Background(), 9)

		require.NoError(t, err)
		require.Len(t, outboxRepo.msgs, 1)
		msg := outboxRepo.msgs[0]
		assert.Equal(t, event.TopicProductDeleted, msg.Topic)

		var ev event.ProductEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, int64(9), ev.ProductID)
		assert.Equal(t, "gone", ev.Name)
	})

	t.Run("Should skip the event when the product does not exist", func(t *testing.T) {
		outboxRepo := &fakeOutboxRepo{}
		productRepo := &fakeProductRepo{deleteErr: apperr.ProductNotFoundErr}
		svc := service.NewProductService(&fakeDB{}, productRepo, outboxRepo)

		err := svc.DeleteProduct(context.Background(), 404)

		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
		assert.Empty(t, outboxRepo.msgs)
	})
}

func TestProductServiceSetProductsActive(t *testing.T) {
	t.Run("Should forward ids and flag to the repository", func(t *testing.T) {
		productRepo := &fakeProductRepo{}
		svc := service.NewProductService(&fakeDB{}, productRepo, &fakeOutboxRepo{})

		updated, err := svc.SetProductsActive(context.Background(), []int64{1, 2, 3}, false)

		require.NoError(t, err)
		assert.Equal(t, int64(3), updated)
		assert.Equal(t, []int64{1, 2, 3}, productRepo.bulkIDs)
		assert.False(t, productRepo.bulkActive)
	})
}
