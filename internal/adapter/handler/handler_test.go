package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/srgjo27/hotel_frontdesk/internal/adapter/handler"
	"github.com/srgjo27/hotel_frontdesk/internal/adapter/repository/memory"
	"github.com/srgjo27/hotel_frontdesk/internal/config"
	"github.com/srgjo27/hotel_frontdesk/internal/core/services"
	"github.com/srgjo27/hotel_frontdesk/internal/platform/metrics"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string                 `json:"kind"`
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Meta    map[string]interface{} `json:"meta"`
	} `json:"error"`
}

func newRouter(t *testing.T, auth config.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New("handler_test")
	svc, err := services.NewFrontDeskService(context.Background(), memory.NewInventory(memory.DemoRooms()), nil, zap.NewNop(), m)
	require.NoError(t, err)

	return handler.NewRouter(handler.NewFrontDeskHandler(svc), handler.RouterConfig{
		Auth:    auth,
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}, zap.NewNop(), m)
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestHandler_GuestStayOverHTTP(t *testing.T) {
	r := newRouter(t, config.AuthConfig{})

	w, env := do(t, r, http.MethodPost, "/api/v1/rooms/r2/check-in", map[string]string{"fullName": "Mr. Karim"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	w, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r2/folio/charges", map[string]interface{}{"category": "ROOM_RENT", "description": "1 night", "amount": 3000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r2/folio/charges", map[string]interface{}{"category": "DINING", "description": "Lunch", "amount": 900})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r2/folio/payments", map[string]interface{}{"method": "CASH", "amount": 2000})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/rooms/r2/check-out", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Kind)
	assert.Equal(t, float64(1900), env.Error.Meta["balance"])

	w, env = do(t, r, http.MethodGet, "/api/v1/rooms/r2/folio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var folio struct {
		Total            int64 `json:"total"`
		Paid             int64 `json:"paid"`
		Balance          int64 `json:"balance"`
		SuggestedPayment int64 `json:"suggestedPayment"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &folio))
	assert.Equal(t, int64(3900), folio.Total)
	assert.Equal(t, int64(1900), folio.SuggestedPayment)

	w, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r2/folio/payments", map[string]interface{}{"method": "CASH", "amount": 1900})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = do(t, r, http.MethodPost, "/api/v1/rooms/r2/check-out", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var room struct {
		Status    string `json:"status"`
		Condition string `json:"condition"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &room))
	assert.Equal(t, "AVAILABLE", room.Status)
	assert.Equal(t, "DIRTY", room.Condition)

	w, _ = do(t, r, http.MethodGet, "/api/v1/rooms/r2/stay", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	r := newRouter(t, config.AuthConfig{})
	_, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r1/check-in", map[string]string{"fullName": "Guest"})

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantKind   string
	}{
		{"unknown room", http.MethodGet, "/api/v1/rooms/r99", nil, http.StatusNotFound, "NOT_FOUND"},
		{"occupied room", http.MethodPost, "/api/v1/rooms/r1/check-in", map[string]string{"fullName": "Other"}, http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
		{"short name", http.MethodPost, "/api/v1/rooms/r5/check-in", map[string]string{"fullName": "K"}, http.StatusBadRequest, "VALIDATION"},
		{"zero amount", http.MethodPost, "/api/v1/rooms/r1/folio/charges", map[string]interface{}{"category": "BAR", "description": "Bar", "amount": 0}, http.StatusBadRequest, "VALIDATION"},
		{"malformed body", http.MethodPost, "/api/v1/rooms/r1/folio/payments", "not an object", http.StatusBadRequest, "VALIDATION"},
		{"no folio", http.MethodGet, "/api/v1/rooms/r5/folio", nil, http.StatusNotFound, "NOT_FOUND"},
		{"bad status edit", http.MethodPatch, "/api/v1/rooms/r1", map[string]string{"status": "GONE"}, http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantKind, env.Error.Kind)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestHandler_ConflictOnStaleActiveStay(t *testing.T) {
	r := newRouter(t, config.AuthConfig{})
	_, _ = do(t, r, http.MethodPost, "/api/v1/rooms/r1/check-in", map[string]string{"fullName": "Guest"})
	w, _ := do(t, r, http.MethodPatch, "/api/v1/rooms/r1", map[string]string{"status": "AVAILABLE"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/rooms/r1/check-in", map[string]string{"fullName": "Second"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Kind)
}

func TestHandler_ListRoomsByBuilding(t *testing.T) {
	r := newRouter(t, config.AuthConfig{})

	w, env := do(t, r, http.MethodGet, "/api/v1/buildings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var buildings []string
	require.NoError(t, json.Unmarshal(env.Data, &buildings))
	assert.Equal(t, []string{"BLDG 72", "BLDG 73", "SHWAPNOLOK"}, buildings)

	w, env = do(t, r, http.MethodGet, "/api/v1/rooms?building=BLDG%2073", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rooms []struct {
		ID      string   `json:"id"`
		Actions []string `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "r4", rooms[0].ID)
	assert.Equal(t, []string{"CHECK_IN"}, rooms[1].Actions)
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, handler.OperatorClaims{
		Name: "Desk One",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHandler_OperatorAuth(t *testing.T) {
	required := config.AuthConfig{Required: true, JWTSecret: testSecret}
	optional := config.AuthConfig{JWTSecret: testSecret}

	tests := []struct {
		name       string
		auth       config.AuthConfig
		header     string
		wantStatus int
	}{
		{"required without token", required, "", http.StatusUnauthorized},
		{"required with token", required, "Bearer " + signToken(t, testSecret, "op-1"), http.StatusOK},
		{"wrong secret", required, "Bearer " + signToken(t, "other", "op-1"), http.StatusUnauthorized},
		{"no subject", required, "Bearer " + signToken(t, testSecret, ""), http.StatusUnauthorized},
		{"optional without token", optional, "", http.StatusOK},
		{"optional with garbage", optional, "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(t, tt.auth)
			var headers []string
			if tt.header != "" {
				headers = []string{"Authorization", tt.header}
			}

			w, env := do(t, r, http.MethodGet, "/api/v1/buildings", nil, headers...)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				require.NotNil(t, env.Error)
				assert.Equal(t, "UNAUTHORIZED", env.Error.Kind)
			}
		})
	}
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	r := newRouter(t, config.AuthConfig{Required: true, JWTSecret: testSecret})

	w, _ := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, _ = do(t, r, http.MethodGet, "/api/v1/buildings", nil)
	w, _ = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "handler_test_http_requests_total")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
