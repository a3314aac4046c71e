package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/securefold/server/internal/api/handlers"
	"github.com/securefold/server/internal/models"
	"github.com/securefold/server/internal/repositories"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubAlerts struct {
	result    bool
	calls     int
	lastEmail string
	lastPhoto string
}

func (s *stubAlerts) SendAlert(ctx context.Context, email string, latitude, longitude *float64, photoBase64 string) bool {
	s.calls++
	s.lastEmail = email
	s.lastPhoto = photoBase64
	return s.result
}

type testEnv struct {
	db     *gorm.DB
	router http.Handler
	alerts *stubAlerts
}

var dbSeq atomic.Int64

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	alerts := &stubAlerts{result: true}
	h := handlers.New(
		repositories.NewUserStore(db),
		repositories.NewDocumentStore(db),
		repositories.NewAccessStore(db),
		alerts,
	)
	return &testEnv{db: db, router: SetupRouter(h), alerts: alerts}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	return l
}

func (e *testEnv) createUser(t *testing.T, email, pin string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/users", map[string]string{"email": email, "pin": pin})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody(t, rec)["id"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	env := newEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "running", decodeBody(t, rec)["status"])

	rec = env.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "healthy", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	require.NoError(t, err)
}

func TestUserLifecycle(t *testing.T) {
	env := newEnv(t)

	userID := env.createUser(t, "a@example.com", "1234")

	t.Run("response hides the digest", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/users/"+userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "a@example.com", body["email"])
		require.NotContains(t, rec.Body.String(), "pin_hash")
		require.NotContains(t, rec.Body.String(), "1234")
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users", map[string]string{"email": "a@example.com", "pin": "0000"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate check ignores casing", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users", map[string]string{"email": "A@Example.com", "pin": "0000"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lookup by email ignores casing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/users/by-email/A@EXAMPLE.COM", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, userID, decodeBody(t, rec)["id"])
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/users/"+uuid.NewString(), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/users/by-email/nobody@example.com", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	verify := func(pin string) bool {
		rec := env.do(t, http.MethodPost, "/api/v1/users/verify-pin", map[string]string{"user_id": userID, "pin": pin})
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody(t, rec)["success"].(bool)
	}

	t.Run("verify pin", func(t *testing.T) {
		require.True(t, verify("1234"))
		require.False(t, verify("0000"))
	})

	t.Run("verify for unknown user is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/users/verify-pin", map[string]string{"user_id": uuid.NewString(), "pin": "1234"})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("change pin with wrong old pin is 401", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/users/"+userID+"/pin?old_pin=9999&new_pin=5678", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.True(t, verify("1234"))
	})

	t.Run("change pin", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/users/"+userID+"/pin?old_pin=1234&new_pin=5678", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, verify("1234"))
		require.True(t, verify("5678"))
	})
}

func TestCreateUserValidation(t *testing.T) {
	env := newEnv(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing pin", map[string]string{"email": "a@example.com"}},
		{"missing email", map[string]string{"pin": "1234"}},
		{"malformed email", map[string]string{"email": "not-an-email", "pin": "1234"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/users", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDocumentFlow(t *testing.T) {
	env := newEnv(t)
	userID := env.createUser(t, "docs@example.com", "1234")

	newDoc := func(docType, name string) map[string]string {
		return map[string]string{
			"user_id":      userID,
			"doc_type":     docType,
			"name":         name,
			"image_base64": "aW1hZ2U=",
		}
	}

	t.Run("unknown owner is 404", func(t *testing.T) {
		body := newDoc("id", "License")
		body["user_id"] = uuid.NewString()
		rec := env.do(t, http.MethodPost, "/api/v1/documents", body)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown doc type is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/documents", newDoc("passport", "Passport"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var docID string
	t.Run("create", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rec := env.do(t, http.MethodPost, "/api/v1/documents", newDoc("id", fmt.Sprintf("License %d", i)))
			require.Equal(t, http.StatusOK, rec.Code)
			docID = decodeBody(t, rec)["id"].(string)
		}
		rec := env.do(t, http.MethodPost, "/api/v1/documents", newDoc("insurance", "Policy"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("list all", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/documents/"+userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeList(t, rec), 4)
	})

	t.Run("list by type", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/documents/"+userID+"/id", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		docs := decodeList(t, rec)
		require.Len(t, docs, 3)
		for _, d := range docs {
			require.Equal(t, "id", d["doc_type"])
		}
	})

	t.Run("update name only", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/documents/"+docID, map[string]string{"name": "Renewed"})
		require.Equal(t, http.StatusOK, rec.Code)

		var doc models.Document
		require.NoError(t, env.db.Where("id = ?", docID).First(&doc).Error)
		require.Equal(t, "Renewed", doc.Name)
		require.Equal(t, "aW1hZ2U=", doc.ImageBase64)
	})

	t.Run("delete is not idempotent", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/documents/"+docID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodDelete, "/api/v1/documents/"+docID, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAccessLedger(t *testing.T) {
	env := newEnv(t)
	userID := env.createUser(t, "ledger@example.com", "1234")

	t.Run("log access", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/access-log", map[string]any{
			"user_id":          userID,
			"officer_name":     "Officer Smith",
			"badge_number":     "12345",
			"latitude":         40.7128,
			"longitude":        -74.0060,
			"documents_viewed": []string{"doc-1"},
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "Officer Smith", body["officer_name"])
		require.NotEmpty(t, body["id"])
	})

	t.Run("missing officer fields is 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/access-log", map[string]any{"user_id": userID})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/access-log/"+userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeList(t, rec), 1)
	})

	t.Run("export", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/access-log/"+userID+"/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "ledger@example.com", body["user_email"])
		require.Equal(t, float64(1), body["total_accesses"])

		_, err := time.Parse(time.RFC3339, body["export_date"].(string))
		require.NoError(t, err)

		logs := body["logs"].([]any)
		require.Len(t, logs, 1)
		entry := logs[0].(map[string]any)
		_, err = time.Parse(time.RFC3339, entry["timestamp"].(string))
		require.NoError(t, err)
		require.Equal(t, "12345", entry["badge_number"])
	})

	t.Run("export for missing user reports Unknown", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/access-log/"+uuid.NewString()+"/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, "Unknown", body["user_email"])
		require.Equal(t, float64(0), body["total_accesses"])
	})
}

func TestFailedAttempts(t *testing.T) {
	env := newEnv(t)
	userID := env.createUser(t, "victim@example.com", "1234")

	t.Run("log attempt", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/failed-attempt", map[string]any{
			"user_id":  userID,
			"latitude": 40.7128,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decodeBody(t, rec)["success"].(bool))
	})

	t.Run("listing projects reduced fields", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/failed-attempts/"+userID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		attempts := decodeList(t, rec)
		require.Len(t, attempts, 1)
		require.Contains(t, attempts[0], "timestamp")
		require.NotContains(t, attempts[0], "has_photo")
		require.NotContains(t, attempts[0], "user_id")
	})
}

func TestFailedAttemptAlert(t *testing.T) {
	photo := "data:image/jpeg;base64,cGhvdG8="

	t.Run("persists attempt and photo, reports dispatch success", func(t *testing.T) {
		env := newEnv(t)
		userID := env.createUser(t, "victim@example.com", "1234")

		rec := env.do(t, http.MethodPost, "/api/v1/failed-attempt/alert", map[string]any{
			"user_id":        userID,
			"email":          "victim@example.com",
			"latitude":       40.7128,
			"longitude":      -74.0060,
			"intruder_photo": photo,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, decodeBody(t, rec)["success"].(bool))
		require.Equal(t, 1, env.alerts.calls)
		require.Equal(t, photo, env.alerts.lastPhoto)

		var attempts []models.FailedAttempt
		require.NoError(t, env.db.Where("user_id = ?", userID).Find(&attempts).Error)
		require.Len(t, attempts, 1)
		require.True(t, attempts[0].HasPhoto)

		var photos []models.IntruderPhoto
		require.NoError(t, env.db.Where("attempt_id = ?", attempts[0].ID).Find(&photos).Error)
		require.Len(t, photos, 1)
	})

	t.Run("dispatch failure still persists exactly one attempt", func(t *testing.T) {
		env := newEnv(t)
		env.alerts.result = false
		userID := env.createUser(t, "victim@example.com", "1234")

		rec := env.do(t, http.MethodPost, "/api/v1/failed-attempt/alert", map[string]any{
			"user_id": userID,
			"email":   "victim@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		require.False(t, body["success"].(bool))
		require.Contains(t, body["message"], "Failed to send")

		var attempts []models.FailedAttempt
		require.NoError(t, env.db.Where("user_id = ?", userID).Find(&attempts).Error)
		require.Len(t, attempts, 1)
		require.False(t, attempts[0].HasPhoto)

		var photos []models.IntruderPhoto
		require.NoError(t, env.db.Where("user_id = ?", userID).Find(&photos).Error)
		require.Empty(t, photos)
	})

	t.Run("malformed email is 400 and writes nothing", func(t *testing.T) {
		env := newEnv(t)
		userID := env.createUser(t, "victim@example.com", "1234")

		rec := env.do(t, http.MethodPost, "/api/v1/failed-attempt/alert", map[string]any{
			"user_id": userID,
			"email":   "not-an-email",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Zero(t, env.alerts.calls)

		var attempts []models.FailedAttempt
		require.NoError(t, env.db.Where("user_id = ?", userID).Find(&attempts).Error)
		require.Empty(t, attempts)
	})
}
