package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thalanas110/CarRentalAPI/internal/auth"
	"github.com/Thalanas110/CarRentalAPI/internal/middleware"
	"github.com/Thalanas110/CarRentalAPI/internal/model"
	"github.com/Thalanas110/CarRentalAPI/internal/service"
	appvalidator "github.com/Thalanas110/CarRentalAPI/internal/validator"
)

const testSecret = "test_secret"

// mockRentalService is a mock implementation of RentalServiceInterface.
type mockRentalService struct {
	createFn   func(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error)
	returnFn   func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error)
	cancelFn   func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.Rental, error)
	getFn      func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalView, error)
	listMineFn func(ctx context.Context, ident auth.Identity) ([]model.RentalView, error)
}

func (m *mockRentalService) Create(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, ident, req)
	}
	return &model.CreateRentalResponse{RentalID: 1, Status: model.RentalPending}, nil
}

func (m *mockRentalService) Return(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error) {
	if m.returnFn != nil {
		return m.returnFn(ctx, ident, rentalID)
	}
	return &model.ReturnRentalResponse{RentalID: rentalID, Status: model.RentalCompleted}, nil
}

func (m *mockRentalService) Cancel(ctx context.Context, ident auth.Identity, rentalID int64) (*model.Rental, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, ident, rentalID)
	}
	return &model.Rental{ID: rentalID, Status: model.RentalCancelled}, nil
}

func (m *mockRentalService) Get(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalView, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ident, rentalID)
	}
	return &model.RentalView{Rental: model.Rental{ID: rentalID}}, nil
}

func (m *mockRentalService) ListMine(ctx context.Context, ident auth.Identity) ([]model.RentalView, error) {
	if m.listMineFn != nil {
		return m.listMineFn(ctx, ident)
	}
	return []model.RentalView{}, nil
}

func setupRentalTestApp(mockSvc *mockRentalService) *fiber.App {
	app := fiber.New()
	authmw := middleware.NewAuth(testSecret)
	h := NewRentalHandler(mockSvc, appvalidator.New(), nil)
	app.Post("/api/rentals", authmw.Required, h.Create)
	app.Get("/api/rentals", authmw.Required, h.ListMine)
	app.Get("/api/rentals/:id", authmw.Required, h.Get)
	app.Post("/api/rentals/:id/return", authmw.Required, h.Return)
	app.Post("/api/rentals/:id/cancel", authmw.Required, h.Cancel)
	return app
}

func bearerFor(t *testing.T, ident auth.Identity) string {
	t.Helper()
	tok, err := auth.IssueToken(testSecret, ident, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func renterToken(t *testing.T) string {
	return bearerFor(t, auth.Identity{UserID: 7, Email: "dria@example.com", Role: model.RoleUser, Points: 50})
}

func TestRentalCreate_Success(t *testing.T) {
	var captured auth.Identity
	mockSvc := &mockRentalService{
		createFn: func(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
			captured = ident
			return &model.CreateRentalResponse{
				RentalID:      12,
				RentalType:    req.RentalType,
				DurationHours: req.DurationHours,
				Pricing:       model.RentalPricing{BasePrice: 1500, Total: 1500},
				Status:        model.RentalPending,
			}, nil
		},
	}
	app := setupRentalTestApp(mockSvc)

	body := `{"car_id": 3, "rental_type": "self_drive", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(7), captured.UserID, "identity from the token reaches the service")

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var created model.CreateRentalResponse
	require.NoError(t, json.Unmarshal(data, &created))
	assert.Equal(t, int64(12), created.RentalID)
	assert.Equal(t, model.RentalPending, created.Status)
}

func TestRentalCreate_NoToken(t *testing.T) {
	app := setupRentalTestApp(&mockRentalService{})

	body := `{"car_id": 3, "rental_type": "self_drive", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRentalCreate_ValidationErrors(t *testing.T) {
	app := setupRentalTestApp(&mockRentalService{})

	body := `{"car_id": 3, "rental_type": "teleport", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Contains(t, env.Errors, "rental_type")
	assert.Contains(t, env.Errors, "duration_hours")
}

func TestRentalCreate_InsufficientPoints(t *testing.T) {
	mockSvc := &mockRentalService{
		createFn: func(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
			return nil, service.ErrInsufficientPoints
		},
	}
	app := setupRentalTestApp(mockSvc)

	body := `{"car_id": 3, "rental_type": "self_drive", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, service.ErrInsufficientPoints.Error(), env.Message)
}

func TestRentalCreate_CarUnavailable(t *testing.T) {
	mockSvc := &mockRentalService{
		createFn: func(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
			return nil, service.ErrCarUnavailable
		},
	}
	app := setupRentalTestApp(mockSvc)

	body := `{"car_id": 3, "rental_type": "self_drive", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRentalCreate_PromoRejected(t *testing.T) {
	mockSvc := &mockRentalService{
		createFn: func(ctx context.Context, ident auth.Identity, req *model.CreateRentalRequest) (*model.CreateRentalResponse, error) {
			return nil, service.ErrPromoExpired
		},
	}
	app := setupRentalTestApp(mockSvc)

	body := `{"car_id": 3, "rental_type": "self_drive", "start_time": "2025-06-01T12:00:00Z", "duration_hours": 3, "promo_code": "SUMMER10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, service.ErrPromoExpired.Error(), env.Message)
}

func TestRentalReturn_Success(t *testing.T) {
	mockSvc := &mockRentalService{
		returnFn: func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error) {
			return &model.ReturnRentalResponse{
				RentalID:     rentalID,
				OvertimeFee:  400,
				TotalPrice:   2200,
				Status:       model.RentalCompleted,
				PointsEarned: 10,
			}, nil
		},
	}
	app := setupRentalTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/rentals/42/return", nil)
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var returned model.ReturnRentalResponse
	require.NoError(t, json.Unmarshal(data, &returned))
	assert.Equal(t, int64(42), returned.RentalID)
	assert.Equal(t, 400.0, returned.OvertimeFee)
	assert.Equal(t, 10, returned.PointsEarned)
}

func TestRentalReturn_NotActive(t *testing.T) {
	mockSvc := &mockRentalService{
		returnFn: func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.ReturnRentalResponse, error) {
			return nil, service.ErrInvalidTransition
		},
	}
	app := setupRentalTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/rentals/42/return", nil)
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRentalGet_BadID(t *testing.T) {
	app := setupRentalTestApp(&mockRentalService{})

	req := httptest.NewRequest(http.MethodGet, "/api/rentals/abc", nil)
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "invalid id", env.Message)
}

func TestRentalGet_StrangerGets403(t *testing.T) {
	mockSvc := &mockRentalService{
		getFn: func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.RentalView, error) {
			return nil, service.ErrNotOwner
		},
	}
	app := setupRentalTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/rentals/42", nil)
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRentalCancel_Success(t *testing.T) {
	mockSvc := &mockRentalService{
		cancelFn: func(ctx context.Context, ident auth.Identity, rentalID int64) (*model.Rental, error) {
			return &model.Rental{ID: rentalID, Status: model.RentalCancelled}, nil
		},
	}
	app := setupRentalTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/rentals/42/cancel", nil)
	req.Header.Set("Authorization", renterToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "rental cancelled", env.Message)
}
