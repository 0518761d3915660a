package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reserva/internal/availability"
	"reserva/internal/database"
	"reserva/internal/domain"
	"reserva/internal/middleware"
	"reserva/internal/modules/admin"
	"reserva/internal/modules/auth"
	"reserva/internal/modules/calendar"
	"reserva/internal/modules/catalog"
	"reserva/internal/modules/reservation"
	jwtsvc "reserva/internal/pkg/jwt"
	"reserva/internal/repository"
)

type E2ETestSuite struct {
	router    *gin.Engine
	db        *gorm.DB
	refresher *availability.Refresher

	meetingRoomID int64
	disneyID      int64
	netflixID     int64
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db), "failed to migrate")

	userRepo := repository.NewUserRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	intentionRepo := repository.NewIntentionRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	policy := availability.DefaultPolicy()

	snapshotStore := availability.NewSnapshotStore()
	refresher := availability.NewRefresher(reservationRepo, snapshotStore, policy, time.Minute, nil)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(resourceRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(
		reservationRepo, intentionRepo, catalogService, snapshotStore, policy, nil)
	reservationHandler := reservation.NewHandler(reservationService)

	calendarService := calendar.NewService(snapshotStore, catalogService, policy)
	calendarHandler := calendar.NewHandler(calendarService)

	adminService := admin.NewService(
		reservationRepo, intentionRepo, catalogService, snapshotStore, policy, nil)
	adminHandler := admin.NewHandler(adminService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		reservationHandler.RegisterProtectedRoutes(protected)
		calendarHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterProtectedRoutes(protected)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(middleware.AdminOnly())
		{
			adminHandler.RegisterAdminRoutes(adminGroup)
			authHandler.RegisterAdminRoutes(adminGroup)
			catalogHandler.RegisterAdminRoutes(adminGroup)
		}
	}

	// Seed an admin account and a small catalog.
	ctx := context.Background()
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, userRepo.Create(ctx, &domain.User{
		Email:        "admin@test.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
		IsActive:     true,
	}))

	meetingRoom := &domain.Resource{Name: "Meeting Room", SortOrder: 1, IsActive: true}
	require.NoError(t, resourceRepo.Create(ctx, meetingRoom))
	streaming := &domain.Resource{Name: "Streaming", GroupLane: "Streaming", SortOrder: 2, IsActive: true}
	require.NoError(t, resourceRepo.Create(ctx, streaming))
	disney := &domain.Resource{ParentID: &streaming.ID, Name: "Disney+", IsActive: true}
	require.NoError(t, resourceRepo.Create(ctx, disney))
	netflix := &domain.Resource{ParentID: &streaming.ID, Name: "Netflix", IsActive: true}
	require.NoError(t, resourceRepo.Create(ctx, netflix))

	return &E2ETestSuite{
		router:        r,
		db:            db,
		refresher:     refresher,
		meetingRoomID: meetingRoom.ID,
		disneyID:      disney.ID,
		netflixID:     netflix.ID,
	}
}

func (s *E2ETestSuite) refresh(t *testing.T) {
	require.NoError(t, s.refresher.RefreshOnce(context.Background()))
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, TestResponse) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (s *E2ETestSuite) register(t *testing.T, email string) string {
	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return resp.Data["token"].(string)
}

func (s *E2ETestSuite) loginAdmin(t *testing.T) string {
	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "admin@test.local",
		"password": "admin123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return resp.Data["token"].(string)
}

// bookableSlot returns a slot comfortably outside the 48h lock window.
func bookableSlot(hour int) (time.Time, time.Time) {
	day := time.Now().UTC().AddDate(0, 0, 5)
	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func TestBookingFlow(t *testing.T) {
	s := setupTestSuite(t)
	userToken := s.register(t, "user1@test.local")
	s.refresh(t)

	start, end := bookableSlot(9)

	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", gin.H{
		"target_id":      s.meetingRoomID,
		"start_time":     start.Format(time.RFC3339),
		"end_time":       end.Format(time.RFC3339),
		"usage_location": "Pedagogy / Room 3",
		"activity":       "Planning",
	}, userToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := resp.Data["reservation"].(map[string]interface{})
	assert.Equal(t, "pending", created["status"])

	w, resp = s.makeRequest(t, http.MethodGet, "/api/v1/reservations/mine", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data["reservations"], 1)
}

func TestConflictAndIntentionFlow(t *testing.T) {
	s := setupTestSuite(t)
	first := s.register(t, "first@test.local")
	second := s.register(t, "second@test.local")
	s.refresh(t)

	start, end := bookableSlot(10)
	payload := gin.H{
		"target_id":  s.disneyID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}

	w, _ := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", payload, first)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	s.refresh(t)

	// The same slot is now pending-blocked for the second user.
	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", payload, second)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SOFT_CONFLICT", resp.Error.Code)
	details := resp.Error.Details.(map[string]interface{})
	assert.Equal(t, true, details["intention_allowed"])

	// The fallback: declare an intention for the same slot.
	w, _ = s.makeRequest(t, http.MethodPost, "/api/v1/intentions", payload, second)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestApprovalMakesConflictHard(t *testing.T) {
	s := setupTestSuite(t)
	first := s.register(t, "first@test.local")
	second := s.register(t, "second@test.local")
	adminToken := s.loginAdmin(t)
	s.refresh(t)

	start, end := bookableSlot(11)
	payload := gin.H{
		"target_id":  s.meetingRoomID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}

	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", payload, first)
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp.Data["reservation"].(map[string]interface{})
	id := int64(created["id"].(float64))

	w, _ = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reservations/%d/approve", id), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.refresh(t)

	w, resp = s.makeRequest(t, http.MethodPost, "/api/v1/reservations", payload, second)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "HARD_CONFLICT", resp.Error.Code)
}

func TestRefuseRequiresReason(t *testing.T) {
	s := setupTestSuite(t)
	first := s.register(t, "first@test.local")
	adminToken := s.loginAdmin(t)
	s.refresh(t)

	start, end := bookableSlot(14)
	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", gin.H{
		"target_id":  s.meetingRoomID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}, first)
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp.Data["reservation"].(map[string]interface{})
	id := int64(created["id"].(float64))

	w, _ = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reservations/%d/refuse", id), gin.H{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/reservations/%d/refuse", id), gin.H{
		"reason": "room under maintenance",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	refused := resp.Data["reservation"].(map[string]interface{})
	assert.Equal(t, "refused", refused["status"])
}

func TestCancelFlow(t *testing.T) {
	s := setupTestSuite(t)
	userToken := s.register(t, "user@test.local")
	s.refresh(t)

	start, end := bookableSlot(9)
	w, resp := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", gin.H{
		"target_id":  s.meetingRoomID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}, userToken)
	require.Equal(t, http.StatusCreated, w.Code)
	created := resp.Data["reservation"].(map[string]interface{})
	id := int64(created["id"].(float64))

	// Missing reason is rejected.
	w, _ = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", id), gin.H{}, userToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", id), gin.H{
		"reason": "meeting moved",
	}, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cancelled := resp.Data["reservation"].(map[string]interface{})
	assert.Equal(t, "cancelled", cancelled["status"])
}

func TestCancelCutoffRejected(t *testing.T) {
	s := setupTestSuite(t)
	userToken := s.register(t, "late@test.local")

	// Insert a reservation starting in two hours directly, below the cutoff.
	reservationRepo := repository.NewReservationRepository(s.db)
	user, err := repository.NewUserRepository(s.db).GetByEmail(context.Background(), "late@test.local")
	require.NoError(t, err)

	res := &domain.Reservation{
		UserID:     user.ID,
		ResourceID: s.meetingRoomID,
		TargetID:   s.meetingRoomID,
		StartTime:  time.Now().Add(2 * time.Hour),
		EndTime:    time.Now().Add(3 * time.Hour),
		Status:     domain.ReservationApproved,
	}
	require.NoError(t, reservationRepo.Create(context.Background(), res))

	w, resp := s.makeRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", res.ID), gin.H{
		"reason": "too late anyway",
	}, userToken)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CANCEL_CUTOFF", resp.Error.Code)
}

func TestCalendarShowsLaneUnion(t *testing.T) {
	s := setupTestSuite(t)
	userToken := s.register(t, "viewer@test.local")
	s.refresh(t)

	start, end := bookableSlot(15)
	w, _ := s.makeRequest(t, http.MethodPost, "/api/v1/reservations", gin.H{
		"target_id":  s.netflixID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}, userToken)
	require.Equal(t, http.StatusCreated, w.Code)
	s.refresh(t)

	// Disney+ shares the Streaming lane, so Netflix's booking paints its day.
	w, resp := s.makeRequest(t, http.MethodGet,
		fmt.Sprintf("/api/v1/availability/days?target_id=%d", s.disneyID), nil, userToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	days := resp.Data["days"].([]interface{})
	key := start.Format("2006-01-02")
	var found bool
	for _, raw := range days {
		d := raw.(map[string]interface{})
		if d["date"] == key {
			found = true
			assert.Equal(t, "has_pending", d["status"])
		}
	}
	assert.True(t, found, "expected day %s in calendar", key)
}

func TestAdminSurfaceRequiresRole(t *testing.T) {
	s := setupTestSuite(t)
	userToken := s.register(t, "user@test.local")

	w, _ := s.makeRequest(t, http.MethodGet, "/api/v1/admin/dashboard", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := s.loginAdmin(t)
	w, resp := s.makeRequest(t, http.MethodGet, "/api/v1/admin/dashboard", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp.Data, "pending_count")
}
