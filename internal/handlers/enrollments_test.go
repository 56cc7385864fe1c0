package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"camp-hub-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnrollmentStore struct {
	created  []models.Enrollment
	byUser   map[string][]models.Enrollment
	deleted  []int64
	failWith error
}

func (s *stubEnrollmentStore) Create(_ context.Context, e *models.Enrollment) error {
	if s.failWith != nil {
		return s.failWith
	}
	e.ID = int64(len(s.created) + 1)
	e.CreatedAt = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s.created = append(s.created, *e)
	return nil
}

func (s *stubEnrollmentStore) ListByUser(_ context.Context, userID string) ([]models.Enrollment, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.byUser[userID], nil
}

func (s *stubEnrollmentStore) Delete(_ context.Context, id int64) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func enrollmentRouter(store *stubEnrollmentStore) http.Handler {
	h := NewEnrollmentHandler(store)
	r := chi.NewRouter()
	r.Get("/api/enrollments", h.List)
	r.Post("/api/enrollments", h.Create)
	r.Delete("/api/enrollments/{id}", h.Delete)
	return r
}

func TestCreateEnrollment(t *testing.T) {
	store := &stubEnrollmentStore{}
	router := enrollmentRouter(store)

	body := `{
		"user_id": "ana@example.com",
		"camp_id": 3,
		"start_date": "2026-07-06T00:00:00Z",
		"end_date": "2026-07-10T00:00:00Z",
		"form_data": {"child_first_name": "Leo", "child_last_name": "Ruiz"}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Enrollment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "ana@example.com", created.UserID)
	assert.Equal(t, int64(3), created.CampID)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, store.created, 1)
}

func TestCreateEnrollmentValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"camp_id": 3, "start_date": "2026-07-06T00:00:00Z", "end_date": "2026-07-10T00:00:00Z"}`},
		{"missing camp_id", `{"user_id": "ana@example.com", "start_date": "2026-07-06T00:00:00Z", "end_date": "2026-07-10T00:00:00Z"}`},
		{"missing dates", `{"user_id": "ana@example.com", "camp_id": 3}`},
		{"malformed json", `{"user_id": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubEnrollmentStore{}
			req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			enrollmentRouter(store).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, store.created)
		})
	}
}

func TestListEnrollmentsRequiresUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	rec := httptest.NewRecorder()
	enrollmentRouter(&stubEnrollmentStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user_id is required", resp.Error)
}

func TestListEnrollmentsByUser(t *testing.T) {
	store := &stubEnrollmentStore{byUser: map[string][]models.Enrollment{
		"ana@example.com": {
			{ID: 2, UserID: "ana@example.com", CampID: 5},
			{ID: 1, UserID: "ana@example.com", CampID: 3},
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments?user_id=ana@example.com", nil)
	rec := httptest.NewRecorder()
	enrollmentRouter(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.Enrollment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestDeleteEnrollment(t *testing.T) {
	store := &stubEnrollmentStore{}
	req := httptest.NewRequest(http.MethodDelete, "/api/enrollments/7", nil)
	rec := httptest.NewRecorder()
	enrollmentRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{7}, store.deleted)
}

func TestDeleteEnrollmentInvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/enrollments/abc", nil)
	rec := httptest.NewRecorder()
	enrollmentRouter(&stubEnrollmentStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnrollmentStoreFailureIs500(t *testing.T) {
	store := &stubEnrollmentStore{failWith: errors.New("connection refused")}
	body := `{"user_id": "ana@example.com", "camp_id": 3, "start_date": "2026-07-06T00:00:00Z", "end_date": "2026-07-10T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	enrollmentRouter(store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
