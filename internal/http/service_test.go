package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/apperr"
	"github.com/prodpulse/product-metrics/internal/config"
	internalhttp "github.com/prodpulse/product-metrics/internal/http"
	"github.com/prodpulse/product-metrics/internal/model"
	"github.com/prodpulse/product-metrics/internal/repository"
	"github.com/prodpulse/product-metrics/internal/service"
	"github.com/prodpulse/product-metrics/pkg/ptr"
	"github.com/prodpulse/product-metrics/pkg/validator"
)

type fakeCurrencySvc struct {
	currencies []model.Currency
	createErr  error
}

func (s *fakeCurrencySvc) CreateCurrency(ctx context.Context, params service.CreateCurrencyParams) (model.Currency, error) {
	if s.createErr != nil {
		return model.Currency{}, s.createErr
	}
	return model.Currency{ID: 1, Code: strings.ToUpper(params.Code), Name: params.Name}, nil
}

func (s *fakeCurrencySvc) GetCurrency(ctx context.Context, id int64) (model.Currency, error) {
	for _, c := range s.currencies {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Currency{}, apperr.CurrencyNotFoundErr
}

func (s *fakeCurrencySvc) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	return s.currencies, nil
}

func (s *fakeCurrencySvc) UpdateCurrency(ctx context.Context, params service.UpdateCurrencyParams) (model.Currency, error) {
	return model.Currency{ID: params.ID, Code: params.Code, Name: params.Name}, nil
}

func (s *fakeCurrencySvc) DeleteCurrency(ctx context.Context, id int64) error {
	if id == 1 {
		return apperr.CurrencyInUseErr
	}
	return nil
}

type fakeProductSvc struct {
	products []model.Product
}

func (s *fakeProductSvc) CreateProduct(ctx context.Context, params service.CreateProductParams) (model.Product, error) {
	return model.Product{ID: 1, Name: params.Name, Description: params.Description, IsActive: params.IsActive}, nil
}

func (s *fakeProductSvc) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, apperr.ProductNotFoundErr
}

func (s *fakeProductSvc) ListProducts(ctx context.Context, params repository.ListProductsParams) ([]model.Product, error) {
	return s.products, nil
}

func (s *fakeProductSvc) UpdateProduct(ctx context.Context, params service.UpdateProductParams) (model.Product, error) {
	return model.Product{ID: params.ID, Name: params.Name, IsActive: params.IsActive}, nil
}

func (s *fakeProductSvc) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (s *fakeProductSvc) SetProductsActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	return int64(len(ids)), nil
}

type fakeRecordSvc struct {
	sales      []model.SalesData
	engagement []model.UserEngagement
	feedback   []model.CustomerFeedback
}

func (s *fakeRecordSvc) CreateSalesData(ctx context.Context, params repository.CreateSalesDataParams) (model.SalesData, error) {
	return model.SalesData{
		ID:         1,
		ProductID:  params.ProductID,
		Date:       params.Date,
		UnitsSold:  params.UnitsSold,
		Revenue:    params.Revenue,
		CurrencyID: params.CurrencyID,
	}, nil
}

func (s *fakeRecordSvc) GetSalesData(ctx context.Context, id int64) (model.SalesData, error) {
	for _, rec := range s.sales {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.SalesData{}, apperr.SalesDataNotFoundErr
}

func (s *fakeRecordSvc) ListSalesData(ctx context.Context, params repository.ListSalesDataParams) ([]model.SalesData, error) {
	return s.sales, nil
}

func (s *fakeRecordSvc) UpdateSalesData(ctx context.Context, params repository.UpdateSalesDataParams) (model.SalesData, error) {
	return model.SalesData{ID: params.ID, Date: params.Date, UnitsSold: params.UnitsSold, Revenue: params.Revenue, CurrencyID: params.CurrencyID}, nil
}

func (s *fakeRecordSvc) DeleteSalesData(ctx context.Context, id int64) error { return nil }

func (s *fakeRecordSvc) CreateUserEngagement(ctx context.Context, params repository.CreateUserEngagementParams) (model.UserEngagement, error) {
	return model.UserEngagement{ID: 1, ProductID: params.ProductID, Date: params.Date, ActiveUsers: params.ActiveUsers, ChurnRate: params.ChurnRate}, nil
}

func (s *fakeRecordSvc) GetUserEngagement(ctx context.Context, id int64) (model.UserEngagement, error) {
	for _, rec := range s.engagement {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.UserEngagement{}, apperr.EngagementNotFoundErr
}

func (s *fakeRecordSvc) ListUserEngagement(ctx context.Context, params repository.ListUserEngagementParams) ([]model.UserEngagement, error) {
	return s.engagement, nil
}

func (s *fakeRecordSvc) UpdateUserEngagement(ctx context.Context, params repository.UpdateUserEngagementParams) (model.UserEngagement, error) {
	return model.UserEngagement{ID: params.ID, Date: params.Date, ActiveUsers: params.ActiveUsers, ChurnRate: params.ChurnRate}, nil
}

func (s *fakeRecordSvc) DeleteUserEngagement(ctx context.Context, id int64) error { return nil }

func (s *fakeRecordSvc) CreateCustomerFeedback(ctx context.Context, params repository.CreateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	return model.CustomerFeedback{ID: 1, ProductID: params.ProductID, Date: params.Date, Rating: params.Rating, Feedback: params.Feedback}, nil
}

func (s *fakeRecordSvc) GetCustomerFeedback(ctx context.Context, id int64) (model.CustomerFeedback, error) {
	for _, rec := range s.feedback {
		if rec.ID == id {
			return rec, nil
		}
	}
	return model.CustomerFeedback{}, apperr.FeedbackNotFoundErr
}

func (s *fakeRecordSvc) ListCustomerFeedback(ctx context.Context, params repository.ListCustomerFeedbackParams) ([]model.CustomerFeedback, error) {
	return s.feedback, nil
}

func (s *fakeRecordSvc) UpdateCustomerFeedback(ctx context.Context, params repository.UpdateCustomerFeedbackParams) (model.CustomerFeedback, error) {
	return model.CustomerFeedback{ID: params.ID, Date: params.Date, Rating: params.Rating, Feedback: params.Feedback}, nil
}

func (s *fakeRecordSvc) DeleteCustomerFeedback(ctx context.Context, id int64) error { return nil }

type fakeMetricsSvc struct {
	summaries []model.ProductSummary
}

func (s *fakeMetricsSvc) ListProductSummaries(ctx context.Context) ([]model.ProductSummary, error) {
	return s.summaries, nil
}

func (s *fakeMetricsSvc) GetProductTimeseries(ctx context.Context, productID int64) (model.ProductTimeseries, error) {
	for _, summary := range s.summaries {
		if summary.Product.ID == productID {
			return model.ProductTimeseries{Summary: summary}, nil
		}
	}
	return model.ProductTimeseries{}, apperr.ProductNotFoundErr
}

type fakeHealth struct{}

func (fakeHealth) IsHealthy(ctx context.Context) (bool, error) { return true, nil }

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestRouter(t *testing.T, currencySvc service.CurrencyService, productSvc service.ProductService, recordSvc service.RecordService, metricsSvc service.MetricsService) chi.Router {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	svc := internalhttp.New(
		config.HTTP{Port: 0},
		slog.New(slog.DiscardHandler),
		v,
		fakeHealth{},
		currencySvc,
		productSvc,
		recordSvc,
		metricsSvc,
	)

	r := chi.NewRouter()
	svc.RegisterHandlers(r)
	return r
}

func doRequest(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCurrencyRoutes(t *testing.T) {
	router := newTestRouter(t,
		&fakeCurrencySvc{currencies: []model.Currency{{ID: 1, Code: "USD", Name: "US Dollar"}}},
		&fakeProductSvc{}, &fakeRecordSvc{}, &fakeMetricsSvc{},
	)

	t.Run("Should create a currency", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/currencies", `{"code":"EUR","name":"Euro"}`)

		require.Equal(t, http.StatusCreated, resp.Code)

		var currency model.Currency
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &currency))
		assert.Equal(t, "EUR", currency.Code)
	})

	t.Run("Should reject a non-ISO currency code with field details", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/currencies", `{"code":"ZZZ","name":"Nope"}`)

		require.Equal(t, http.StatusBadRequest, resp.Code)

		var body struct {
			Code    string `json:"code"`
			Details []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"details"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "validationError", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "Code", body.Details[0].Field)
		assert.Equal(t, "must be a valid ISO 4217 currency code", body.Details[0].Message)
	})

	t.Run("Should refuse deleting a referenced currency", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodDelete, "/api/v1/currencies/1", "")

		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Contains(t, resp.Body.String(), "CURRENCY_IN_USE")
	})

	t.Run("Should return 404 for an unknown currency", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/currencies/99", "")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestProductRoutes(t *testing.T) {
	router := newTestRouter(t,
		&fakeCurrencySvc{},
		&fakeProductSvc{products: []model.Product{{ID: 7, Name: "widget", IsActive: true}}},
		&fakeRecordSvc{}, &fakeMetricsSvc{},
	)

	t.Run("Should get a product", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/products/7", "")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "widget")
	})

	t.Run("Should return 404 for an unknown product", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/products/404", "")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("Should reject a non-numeric product id", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/products/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should bulk deactivate products", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/products/deactivate", `{"ids":[1,2,3]}`)

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Updated int64 `json:"updated"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, int64(3), body.Updated)
	})

	t.Run("Should reject a bulk request without ids", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/products/activate", `{"ids":[]}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestRecordRoutes(t *testing.T) {
	feedbackText := "outstanding build quality, would definitely buy again"
	router := newTestRouter(t,
		&fakeCurrencySvc{}, &fakeProductSvc{},
		&fakeRecordSvc{
			sales: []model.SalesData{{
				ID:         3,
				ProductID:  7,
				Date:       mustDate(t, "2026-02-01"),
				UnitsSold:  4,
				Revenue:    decimal.RequireFromString("100.00"),
				CurrencyID: 1,
			}},
			engagement: []model.UserEngagement{{
				ID:          4,
				ProductID:   7,
				Date:        mustDate(t, "2026-02-01"),
				ActiveUsers: 250,
				ChurnRate:   12.5,
			}},
			feedback: []model.CustomerFeedback{{
				ID:        5,
				ProductID: 7,
				Date:      mustDate(t, "2026-02-01"),
				Rating:    4.5,
				Feedback:  ptr.New(feedbackText),
			}},
		},
		&fakeMetricsSvc{},
	)

	t.Run("Should include revenue per unit on sales records", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/sales-data/3", "")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			RevenuePerUnit *string `json:"revenue_per_unit"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		require.NotNil(t, body.RevenuePerUnit)
		assert.Equal(t, "25", *body.RevenuePerUnit)
	})

	t.Run("Should include the churn bucket on engagement records", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/engagement/4", "")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"churn_bucket":"high"`)
	})

	t.Run("Should include star rating and preview on feedback records", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/feedback/5", "")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			RatingStars     int    `json:"rating_stars"`
			FeedbackPreview string `json:"feedback_preview"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 4, body.RatingStars)
		assert.Equal(t, feedbackText[:32]+"...", body.FeedbackPreview)
	})

	t.Run("Should reject a sales record with negative revenue", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/sales-data",
			`{"product_id":7,"date":"2026-02-01","units_sold":1,"revenue":"-5.00","currency_id":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should reject an out-of-scale rating", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/feedback",
			`{"product_id":7,"date":"2026-02-01","rating":7.5}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("Should reject a malformed record date", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/v1/engagement",
			`{"product_id":7,"date":"01-02-2026","active_users":10,"churn_rate":2}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestMetricsRoutes(t *testing.T) {
	router := newTestRouter(t,
		&fakeCurrencySvc{}, &fakeProductSvc{}, &fakeRecordSvc{},
		&fakeMetricsSvc{summaries: []model.ProductSummary{{
			Product:       model.Product{ID: 7, Name: "widget"},
			LatestRevenue: decimal.RequireFromString("99.90"),
			ActiveUsers:   340,
		}}},
	)

	t.Run("Should list product summaries", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/metrics/products", "")

		require.Equal(t, http.StatusOK, resp.Code)

		var summaries []model.ProductSummary
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, "widget", summaries[0].Product.Name)
	})

	t.Run("Should get a product's timeseries", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/metrics/products/7", "")
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Should return 404 for an unknown product", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/metrics/products/404", "")
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestAdminAndHealthRoutes(t *testing.T) {
	router := newTestRouter(t, &fakeCurrencySvc{}, &fakeProductSvc{}, &fakeRecordSvc{}, &fakeMetricsSvc{})

	t.Run("Should list admin descriptors", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/v1/admin/descriptors", "")

		require.Equal(t, http.StatusOK, resp.Code)

		var descriptors []struct {
			Entity string `json:"entity"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &descriptors))
		assert.Len(t, descriptors, 5)
	})

	t.Run("Should report healthy", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/healthz", "")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"ok"`)
	})
}
