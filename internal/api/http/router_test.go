package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "vehicle-rental-backend/internal/api/http"
	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"
	"vehicle-rental-backend/internal/storage"
	"vehicle-rental-backend/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *mux.Router
	tokens   security.TokenManager
	bookings *MockBookingService
	auth     *MockAuthService
	vehicles *MockVehicleService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := storage.NewLocalStore("http://localhost:8080", t.TempDir(), 1<<20)
	require.NoError(t, err)

	ts := &testServer{
		tokens:   security.NewTokenManager("test-secret-test-secret-test-secret", time.Hour, 24*time.Hour),
		bookings: new(MockBookingService),
		auth:     new(MockAuthService),
		vehicles: new(MockVehicleService),
	}
	ts.router = httpapi.NewRouter(httpapi.Dependencies{
		Auth:           ts.auth,
		Vehicles:       ts.vehicles,
		Bookings:       ts.bookings,
		Routes:         service.NewRouteService(),
		Photos:         store,
		Tokens:         ts.tokens,
		Health:         stubPinger{},
		MaxUploadBytes: 1 << 20,
	})
	return ts
}

func (ts *testServer) accessToken(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	token, err := ts.tokens.GenerateAccessToken(userID, userID+"@example.com", roles)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ts *testServer) do(method, path string, body any, auth string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	start := time.Date(2030, 1, 10, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:        "booking-1",
		LesseeID:  "lessee-1",
		LessorID:  "lessor-1",
		VehicleID: "vehicle-1",
		StartDate: start,
		EndDate:   start.Add(72 * time.Hour),
		Status:    status,
	}
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	t.Run("Public health check", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/health", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Missing token", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/v1/bookings/booking-1", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		w := ts.do(http.MethodGet, "/api/v1/bookings/booking-1", nil, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh token on an access route", func(t *testing.T) {
		refresh, err := ts.tokens.GenerateRefreshToken("lessee-1", "lessee-1@example.com")
		require.NoError(t, err)
		w := ts.do(http.MethodGet, "/api/v1/bookings/booking-1", nil, "Bearer "+refresh)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Access token on the refresh route", func(t *testing.T) {
		w := ts.do(http.MethodPost, "/api/v1/auth/refresh", nil, ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unhealthy database", func(t *testing.T) {
		router := httpapi.NewRouter(httpapi.Dependencies{Tokens: ts.tokens, Health: stubPinger{err: errors.New("down")}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := httpapi.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{domain.NewNotFoundError("booking", "x"), http.StatusNotFound},
		{domain.NewConflictError("taken"), http.StatusConflict},
		{domain.WrapConflict("stale", domain.ErrStaleBooking), http.StatusConflict},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, httpapi.StatusForError(tt.err), tt.err.Error())
	}
	assert.False(t, httpapi.IsClientError(errors.New("db exploded")))
}

func TestBookingHandler_Create(t *testing.T) {
	t.Run("Lessee comes from the token", func(t *testing.T) {
		ts := newTestServer(t)
		created := sampleBooking(domain.BookingStatusPending)
		ts.bookings.On("Create", mock.Anything, mock.MatchedBy(func(req service.CreateBookingRequest) bool {
			return req.LesseeID == "lessee-1" && req.VehicleID == "vehicle-1" && req.DailyRateCents == 10000
		})).Return(created, nil)

		w := ts.do(http.MethodPost, "/api/v1/bookings", map[string]any{
			"vehicle_id":             "vehicle-1",
			"lessor_id":              "lessor-1",
			"start_date":             "2030-01-10T10:00:00Z",
			"end_date":               "2030-01-13T10:00:00Z",
			"daily_rate_cents":       10000,
			"hourly_rate_cents":      2000,
			"security_deposit_cents": 20000,
		}, ts.accessToken(t, "lessee-1", "lessee"))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got domain.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "booking-1", got.ID)
		ts.bookings.AssertExpectations(t)
	})

	t.Run("Missing vehicle id", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(http.MethodPost, "/api/v1/bookings", map[string]any{
			"lessor_id":  "lessor-1",
			"start_date": "2030-01-10T10:00:00Z",
			"end_date":   "2030-01-13T10:00:00Z",
		}, ts.accessToken(t, "lessee-1", "lessee"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "vehicle_id")
		ts.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unavailable vehicle", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("Create", mock.Anything, mock.Anything).
			Return(nil, domain.NewConflictError("vehicle is not available for the selected dates"))

		w := ts.do(http.MethodPost, "/api/v1/bookings", map[string]any{
			"vehicle_id": "vehicle-1",
			"lessor_id":  "lessor-1",
			"start_date": "2030-01-10T10:00:00Z",
			"end_date":   "2030-01-13T10:00:00Z",
		}, ts.accessToken(t, "lessee-1", "lessee"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"vehicle is not available for the selected dates"}`, w.Body.String())
	})
}

func TestBookingHandler_Transitions(t *testing.T) {
	t.Run("Lessor confirms", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusPending), nil)
		ts.bookings.On("ConfirmBooking", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusConfirmed), nil)

		w := ts.do(http.MethodPost, "/api/v1/bookings/booking-1/confirm", nil, ts.accessToken(t, "lessor-1", "lessor"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
	})

	t.Run("Lessee cannot confirm", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusPending), nil)

		w := ts.do(http.MethodPost, "/api/v1/bookings/booking-1/confirm", nil, ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)
		ts.bookings.AssertNotCalled(t, "ConfirmBooking", mock.Anything, mock.Anything)
	})

	t.Run("Stranger cannot read", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusPending), nil)

		w := ts.do(http.MethodGet, "/api/v1/bookings/booking-1", nil, ts.accessToken(t, "someone-else", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Disallowed transition", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusCompleted), nil)
		ts.bookings.On("CancelBooking", mock.Anything, "booking-1", "too late").
			Return(nil, domain.NewConflictError("cannot move booking from completed to cancelled"))

		w := ts.do(http.MethodPost, "/api/v1/bookings/booking-1/cancel", map[string]string{"reason": "too late"},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Start requires mileage", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusConfirmed), nil)

		w := ts.do(http.MethodPost, "/api/v1/bookings/booking-1/start", nil, ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("End trip passes photos through", func(t *testing.T) {
		ts := newTestServer(t)
		photos := []string{"http://localhost:8080/api/v1/photos/booking-1-a.jpg"}
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusActive), nil)
		ts.bookings.On("EndTrip", mock.Anything, "booking-1", 12500, photos).Return(sampleBooking(domain.BookingStatusCompleted), nil)

		w := ts.do(http.MethodPost, "/api/v1/bookings/booking-1/end",
			map[string]any{"end_mileage": 12500, "end_photos": photos}, ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Unknown booking", func(t *testing.T) {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "missing").Return(nil, domain.NewNotFoundError("booking", "missing"))

		w := ts.do(http.MethodPost, "/api/v1/bookings/missing/confirm", nil, ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingHandler_Update(t *testing.T) {
	newServer := func(t *testing.T) *testServer {
		ts := newTestServer(t)
		ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusConfirmed), nil)
		return ts
	}

	t.Run("Admin records payment", func(t *testing.T) {
		ts := newServer(t)
		ts.bookings.On("Update", mock.Anything, "booking-1", mock.MatchedBy(func(p service.BookingPatch) bool {
			return p.PaymentStatus != nil && *p.PaymentStatus == domain.PaymentStatusCompleted
		})).Return(sampleBooking(domain.BookingStatusConfirmed), nil)

		w := ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"payment_status": "COMPLETED"},
			ts.accessToken(t, "admin-1", "admin"))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Parties cannot write payment fields", func(t *testing.T) {
		ts := newServer(t)
		for _, body := range []map[string]any{
			{"payment_status": "completed"},
			{"payment_transaction_id": "tx-1"},
			{"payment_method": "pix"},
			{"payment_date": "2030-01-09T10:00:00Z"},
		} {
			w := ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", body, ts.accessToken(t, "lessee-1", "lessee"))
			assert.Equal(t, http.StatusForbidden, w.Code, body)
			w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", body, ts.accessToken(t, "lessor-1", "lessor"))
			assert.Equal(t, http.StatusForbidden, w.Code, body)
		}
		ts.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Each party writes only its own review", func(t *testing.T) {
		ts := newServer(t)
		ts.bookings.On("Update", mock.Anything, "booking-1", mock.Anything).Return(sampleBooking(domain.BookingStatusConfirmed), nil)

		w := ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessee_rating": 5, "lessee_review": "great car"},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessor_rating": 5, "lessor_review": "careful driver"},
			ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessor_review": "self praise"},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessor_rating": 1},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessee_review": "rewritten"},
			ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		ts.bookings.AssertNumberOfCalls(t, "Update", 2)
	})

	t.Run("Either party edits return notes", func(t *testing.T) {
		ts := newServer(t)
		ts.bookings.On("Update", mock.Anything, "booking-1", mock.MatchedBy(func(p service.BookingPatch) bool {
			return p.ReturnNotes != nil && *p.ReturnNotes == "left at gate"
		})).Return(sampleBooking(domain.BookingStatusConfirmed), nil)

		w := ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"return_notes": "left at gate"},
			ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("Invalid input", func(t *testing.T) {
		ts := newServer(t)
		w := ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"lessee_rating": 9},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = ts.do(http.MethodPatch, "/api/v1/bookings/booking-1", map[string]any{"status": "completed"},
			ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingFlow_LessorIsVehicleOwner(t *testing.T) {
	tokens := security.NewTokenManager("test-secret-test-secret-test-secret", time.Hour, 24*time.Hour)
	bookings := newMemBookings()
	vehicles := &memVehicles{byID: map[string]domain.Vehicle{
		"vehicle-1": {ID: "vehicle-1", OwnerID: "owner-9", DailyRateCents: 10000},
	}}
	router := httpapi.NewRouter(httpapi.Dependencies{
		Bookings: service.NewBookingService(bookings, vehicles, service.NewRouteService(), nil, nil),
		Routes:   service.NewRouteService(),
		Tokens:   tokens,
		Health:   stubPinger{},
	})
	bearer := func(userID, role string) string {
		token, err := tokens.GenerateAccessToken(userID, userID+"@example.com", []string{role})
		require.NoError(t, err)
		return "Bearer " + token
	}
	send := func(method, path string, body any, auth string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Authorization", auth)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	request := map[string]any{
		"vehicle_id":             "vehicle-1",
		"start_date":             start.Format(time.RFC3339),
		"end_date":               start.Add(72 * time.Hour).Format(time.RFC3339),
		"daily_rate_cents":       10000,
		"hourly_rate_cents":      2000,
		"security_deposit_cents": 20000,
	}

	t.Run("Lessee naming themself lessor is rejected", func(t *testing.T) {
		spoofed := map[string]any{"lessor_id": "lessee-1"}
		for k, v := range request {
			spoofed[k] = v
		}
		w := send(http.MethodPost, "/api/v1/bookings", spoofed, bearer("lessee-1", "lessee"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "lessor does not own this vehicle")
		assert.Empty(t, bookings.byID)
	})

	var created domain.Booking
	t.Run("Lessor defaults to the owner", func(t *testing.T) {
		w := send(http.MethodPost, "/api/v1/bookings", request, bearer("lessee-1", "lessee"))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "owner-9", created.LessorID)
		assert.Equal(t, "lessee-1", created.LesseeID)
	})

	t.Run("Lessee cannot confirm their own request", func(t *testing.T) {
		require.NotEmpty(t, created.ID)
		w := send(http.MethodPost, "/api/v1/bookings/"+created.ID+"/confirm", nil, bearer("lessee-1", "lessor"))
		assert.Equal(t, http.StatusForbidden, w.Code)

		stored, err := bookings.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusPending, stored.Status)
	})

	t.Run("Owner confirms", func(t *testing.T) {
		require.NotEmpty(t, created.ID)
		w := send(http.MethodPost, "/api/v1/bookings/"+created.ID+"/confirm", nil, bearer("owner-9", "lessor"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
	})
}

func TestBookingHandler_Availability(t *testing.T) {
	ts := newTestServer(t)
	start := time.Date(2030, 1, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	ts.bookings.On("CheckVehicleAvailability", mock.Anything, "vehicle-1", start, end).Return(false, nil)

	w := ts.do(http.MethodGet,
		"/api/v1/bookings/availability?vehicle_id=vehicle-1&start_date=2030-01-10T10:00:00Z&end_date=2030-01-12T10:00:00Z", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"available":false}`, w.Body.String())

	w = ts.do(http.MethodGet, "/api/v1/bookings/availability?vehicle_id=vehicle-1&start_date=tomorrow", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_AdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	stats := &domain.BookingStats{TotalBookings: 4, ByStatus: map[domain.BookingStatus]int64{domain.BookingStatusPending: 4}}
	ts.bookings.On("GetBookingStats", mock.Anything).Return(stats, nil)
	ts.bookings.On("Remove", mock.Anything, "booking-1").Return(nil)

	w := ts.do(http.MethodGet, "/api/v1/bookings/stats", nil, ts.accessToken(t, "lessee-1", "lessee"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodGet, "/api/v1/bookings/stats", nil, ts.accessToken(t, "admin-1", "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_bookings":4`)

	w = ts.do(http.MethodDelete, "/api/v1/bookings/booking-1", nil, ts.accessToken(t, "admin-1", "admin"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthHandler(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		ts := newTestServer(t)
		user := &domain.User{ID: "user-1", Email: "ana@example.com", PasswordHash: "secret-hash"}
		ts.auth.On("Login", mock.Anything, "ana@example.com", "s3cretpass").Return(user, "access", "refresh", nil)

		w := ts.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ana@example.com", "password": "s3cretpass"}, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"access_token":"access"`)
		assert.NotContains(t, w.Body.String(), "secret-hash")
	})

	t.Run("Bad credentials", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.On("Login", mock.Anything, "ana@example.com", "nope-nope").Return(nil, "", "", service.ErrInvalidCredentials)

		w := ts.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ana@example.com", "password": "nope-nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Refresh", func(t *testing.T) {
		ts := newTestServer(t)
		refresh, err := ts.tokens.GenerateRefreshToken("user-1", "ana@example.com")
		require.NoError(t, err)
		ts.auth.On("RefreshToken", mock.Anything, "user-1").Return("new-access", nil)

		w := ts.do(http.MethodPost, "/api/v1/auth/refresh", nil, "Bearer "+refresh)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"access_token":"new-access"}`, w.Body.String())
	})
}

func TestVehicleHandler(t *testing.T) {
	t.Run("Only lessors list vehicles", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(http.MethodPost, "/api/v1/vehicles", map[string]any{}, ts.accessToken(t, "lessee-1", "lessee"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Owner comes from the token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.vehicles.On("CreateVehicle", mock.Anything, mock.MatchedBy(func(v *domain.Vehicle) bool {
			return v.OwnerID == "lessor-1" && v.DailyRateCents == 15000
		})).Return(nil)

		w := ts.do(http.MethodPost, "/api/v1/vehicles", map[string]any{
			"make": "Toyota", "model": "Corolla", "year": 2022, "license_plate": "ABC1D23",
			"type": "sedan", "fuel_type": "flex", "daily_rate_cents": 15000, "city": "Sao Paulo",
		}, ts.accessToken(t, "lessor-1", "lessor"))
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("Public listing", func(t *testing.T) {
		ts := newTestServer(t)
		ts.vehicles.On("ListVehicles", mock.Anything, "Campinas", int32(2), int32(10)).Return([]domain.Vehicle{{ID: "v1"}}, int32(11), nil)

		w := ts.do(http.MethodGet, "/api/v1/vehicles?city=Campinas&page=2&page_size=10", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":11`)
	})
}

func TestRouteHandler(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/routes/plan", map[string]any{
		"origin":      utils.Point{Latitude: -23.5614, Longitude: -46.6558},
		"destination": utils.Point{Latitude: -23.5505, Longitude: -46.6631},
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var route utils.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
	assert.Len(t, route.RoutePoints, 4)
	assert.Equal(t, 2, route.DurationMin)

	w = ts.do(http.MethodPost, "/api/v1/routes/plan", map[string]any{
		"origin":      utils.Point{Latitude: 123, Longitude: 0},
		"destination": utils.Point{Latitude: 0, Longitude: 0},
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/v1/routes/geofence", map[string]any{
		"point":     utils.Point{Latitude: -23.5505, Longitude: -46.6631},
		"center":    utils.Point{Latitude: -23.5614, Longitude: -46.6558},
		"radius_km": 2,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"within":true}`, w.Body.String())
}

func TestPhotoHandler(t *testing.T) {
	ts := newTestServer(t)
	ts.bookings.On("FindOne", mock.Anything, "booking-1").Return(sampleBooking(domain.BookingStatusActive), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/photos", strings.NewReader("fake-jpeg"))
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Authorization", ts.accessToken(t, "lessee-1", "lessee"))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	assert.True(t, strings.HasPrefix(uploaded["key"], "booking-1-"))
	assert.Equal(t, "http://localhost:8080/api/v1/photos/"+uploaded["key"], uploaded["url"])

	w = ts.do(http.MethodGet, "/api/v1/photos/"+uploaded["key"], nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	body, _ := io.ReadAll(w.Body)
	assert.Equal(t, "fake-jpeg", string(body))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/bookings/booking-1/photos", strings.NewReader("%PDF"))
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Authorization", ts.accessToken(t, "lessee-1", "lessee"))
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}
