package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendly/marketplace/pkg/health"
	"github.com/vendly/marketplace/pkg/httputil"
	pkgkafka "github.com/vendly/marketplace/pkg/kafka"

	"github.com/vendly/marketplace/internal/domain"
	"github.com/vendly/marketplace/internal/event"
	"github.com/vendly/marketplace/internal/notify"
	"github.com/vendly/marketplace/internal/service"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockStoreRepo struct {
	mock.Mock
}

func (m *mockStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *mockStoreRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *mockStoreRepo) List(ctx context.Context, filter domain.StoreFilter) ([]*domain.Store, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Store), args.Get(1).(int64), args.Error(2)
}

func (m *mockStoreRepo) Update(ctx context.Context, store *domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *mockStoreRepo) DeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) DeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListByProduct(ctx context.Context, productID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]*domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) ListByStore(ctx context.Context, storeID string, filter domain.ReviewFilter) ([]*domain.Review, int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).([]*domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ============================================================================
// Test fixtures
// ============================================================================

const (
	aliceID   = "550e8400-e29b-41d4-a716-446655440001"
	bobID     = "550e8400-e29b-41d4-a716-446655440002"
	storeID   = "550e8400-e29b-41d4-a716-446655440010"
	productID = "550e8400-e29b-41d4-a716-446655440020"
	reviewID  = "550e8400-e29b-41d4-a716-446655440030"
)

const testPassword = "correct-horse-battery"

var fixedTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func userFixture(id, username string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	return &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		CreatedAt:    fixedTime,
		UpdatedAt:    fixedTime,
	}
}

func storeFixture() *domain.Store {
	return &domain.Store{
		ID:          storeID,
		Name:        "Glass & Brass",
		Description: "Handmade glassware",
		VendorID:    aliceID,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}

func productFixture() *domain.Product {
	return &domain.Product{
		ID:          productID,
		StoreID:     storeID,
		Name:        "Amber Tumbler",
		Description: "Hand blown amber glass tumbler",
		Price:       decimalFromString("24.50"),
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}

func reviewFixture() *domain.Review {
	return &domain.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    bobID,
		Rating:    4,
		Comment:   "Lovely finish",
		CreatedAt: fixedTime,
		UpdatedAt: fixedTime,
	}
}

// ============================================================================
// Test helpers
// ============================================================================

type testEnv struct {
	users    *mockUserRepo
	stores   *mockStoreRepo
	products *mockProductRepo
	reviews  *mockReviewRepo
	router   http.Handler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEnv() *testEnv {
	logger := testLogger()

	// Publish failures are swallowed by the services, so an unreachable
	// broker keeps the tests hermetic.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"127.0.0.1:1"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)

	env := &testEnv{
		users:    new(mockUserRepo),
		stores:   new(mockStoreRepo),
		products: new(mockProductRepo),
		reviews:  new(mockReviewRepo),
	}

	userService := service.NewUserService(env.users, logger)
	storeService := service.NewStoreService(env.stores, env.users, notify.Noop{}, producer, logger)
	productService := service.NewProductService(env.products, env.stores, notify.Noop{}, producer, logger)
	reviewService := service.NewReviewService(env.reviews, env.products, env.stores, producer, logger)

	env.router = NewRouter(userService, storeService, productService, reviewService, health.NewHandler(), logger)
	return env
}

// grantLogin registers credential lookups for a fixture user so requests
// carrying its Basic auth header authenticate.
func (e *testEnv) grantLogin(user *domain.User) {
	e.users.On("GetByUsername", mock.Anything, user.Username).Return(user, nil)
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decimalFromString(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func strPtr(s string) *string { return &s }

func asUser(req *http.Request, username string) *http.Request {
	req.SetBasicAuth(username, testPassword)
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func marshalJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
