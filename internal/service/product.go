package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/prodpulse/product-metrics/internal/event"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/storage/db"
	"github.com/prodpulse/product-metrics/pkg/outbox"
	"github.com/prodpulse/product-metrics/pkg/ptr"
)

type CreateProductParams struct {
	Name        string
	Description *string
	IsActive    bool
}

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description *string
	IsActive    bool
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SetProductsActive(ctx context.Context, ids []int64, active bool) (int64, error)
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	now := time.Now()

	var product model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(tx).
			CreateProduct(ctx, repository.CreateProductParams{
				Name:        params.Name,
				Description: params.Description,
				IsActive:    params.IsActive,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		if err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		if err := s.writeProductEvent(ctx, tx, event.TopicProductCreated, product); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.Product, error) {
	var product model.Product
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		var err error
		product, err = s.productRepo.
			WithDB(tx).
			UpdateProduct(ctx, repository.UpdateProductParams{
				ID:          params.ID,
				Name:        params.Name,
				Description: params.Description,
				IsActive:    params.IsActive,
				UpdatedAt:   time.Now(),
			})
		if err != nil {
			return fmt.Errorf("product repository update product: %w", err)
		}

		if err := s.writeProductEvent(ctx, tx, event.TopicProductUpdated, product); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	// Owned sales, engagement and feedback rows go with the product via
	// ON DELETE CASCADE.
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		product, err := s.productRepo.WithDB(tx).DeleteProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("product repository delete product: %w", err)
		}

		if err := s.writeProductEvent(ctx, tx, event.TopicProductDeleted, product); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}

func (s *productService) SetProductsActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	updated, err := s.productRepo.SetProductsActive(ctx, ids, active, time.Now())
	if err != nil {
		return 0, fmt.Errorf("product repository set products active: %w", err)
	}

	return updated, nil
}

func (s *productService) writeProductEvent(ctx context.Context, tx db.DB, topic string, product model.Product) error {
	payload, err := json.Marshal(event.NewProductEvent(product))
	if err != nil {
		return fmt.Errorf("marshal product event: %w", err)
	}

	if err := s.outboxMsgRepo.
		WithDB(tx).
		CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
			Topic:        topic,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(strconv.FormatInt(product.ID, 10)),
		}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
