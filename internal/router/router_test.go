// internal/router/router_test.go
package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise/siteqa-backend/internal/apperr"
	"github.com/sitewise/siteqa-backend/internal/config"
	"github.com/sitewise/siteqa-backend/internal/store/memstore"
	"github.com/sitewise/siteqa-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "router-test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Storage: config.StorageConfig{Driver: "memory"},
	}
	return Initialize(memstore.New(), cfg)
}

// nextIP hands each test its own client address so the per-IP rate
// limiter buckets stay independent between tests.
var ipCounter int

func doJSON(t *testing.T, r *gin.Engine, ip, method, path, token string, body interface{}) (int, utils.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = ip + ":52000"
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func testIP(t *testing.T) string {
	t.Helper()
	ipCounter++
	return fmt.Sprintf("10.1.1.%d", ipCounter)
}

func registerAndLogin(t *testing.T, r *gin.Engine, ip, email, role string) string {
	t.Helper()
	code, resp := doJSON(t, r, ip, http.MethodPost, "/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "Passw0rd123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, code)
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	token, ok := data["access_token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = testIP(t) + ":52000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	r := newTestRouter(t)
	ip := testIP(t)

	code, resp := doJSON(t, r, ip, http.MethodGet, "/v1/templates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeUnauthorized), resp.Error.Code)
}

func TestTemplateAdminOnlyWrites(t *testing.T) {
	r := newTestRouter(t)
	ip := testIP(t)
	adminToken := registerAndLogin(t, r, ip, "admin@example.com", "admin")
	inspectorToken := registerAndLogin(t, r, ip, "inspector@example.com", "inspector")

	payload := gin.H{
		"name":  "Concrete Works",
		"items": []gin.H{{"description": "Check formwork"}},
	}

	code, resp := doJSON(t, r, ip, http.MethodPost, "/v1/templates", inspectorToken, payload)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeForbidden), resp.Error.Code)

	code, resp = doJSON(t, r, ip, http.MethodPost, "/v1/templates", adminToken, payload)
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)

	// Reads are open to any authenticated role.
	code, resp = doJSON(t, r, ip, http.MethodGet, "/v1/templates", inspectorToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestNotFoundEnvelope(t *testing.T) {
	r := newTestRouter(t)
	ip := testIP(t)
	token := registerAndLogin(t, r, ip, "viewer@example.com", "viewer")

	code, resp := doJSON(t, r, ip, http.MethodGet, "/v1/templates/2f9d9f7e-0000-4000-8000-000000000000", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeNotFound), resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestInstantiateAndRecordFlow(t *testing.T) {
	r := newTestRouter(t)
	ip := testIP(t)
	token := registerAndLogin(t, r, ip, "supervisor@example.com", "supervisor")

	code, resp := doJSON(t, r, ip, http.MethodPost, "/v1/projects", token, gin.H{
		"name":           "Bypass Stage 2",
		"project_number": "PRJ-900",
	})
	require.Equal(t, http.StatusCreated, code)
	projectID := resp.Data.(map[string]interface{})["id"].(string)

	code, resp = doJSON(t, r, ip, http.MethodPost, "/v1/lots", token, gin.H{
		"project_id": projectID,
		"lot_number": "LOT-900",
	})
	require.Equal(t, http.StatusCreated, code)
	lotID := resp.Data.(map[string]interface{})["id"].(string)

	// Supervisors cannot create templates; seed one through an admin.
	adminToken := registerAndLogin(t, r, ip, "admin2@example.com", "admin")
	code, resp = doJSON(t, r, ip, http.MethodPost, "/v1/templates", adminToken, gin.H{
		"name":  "Pavement Checklist",
		"items": []gin.H{{"description": "Check subgrade"}, {"description": "Check base course"}},
	})
	require.Equal(t, http.StatusCreated, code)
	templateID := resp.Data.(map[string]interface{})["id"].(string)

	code, resp = doJSON(t, r, ip, http.MethodPost, "/v1/itps/from-template", token, gin.H{
		"template_id": templateID,
		"lot_id":      lotID,
	})
	require.Equal(t, http.StatusCreated, code)
	instance := resp.Data.(map[string]interface{})
	items := instance["items"].([]interface{})
	require.Len(t, items, 2)
	itemID := items[0].(map[string]interface{})["id"].(string)

	code, resp = doJSON(t, r, ip, http.MethodPost, "/v1/lots/"+lotID+"/conformance", token, gin.H{
		"itp_item_id": itemID,
		"result":      "PASS",
	})
	require.Equal(t, http.StatusCreated, code)
	record := resp.Data.(map[string]interface{})
	assert.Equal(t, "PASS", record["result"])
	assert.Equal(t, false, record["is_non_conformance"])

	code, resp = doJSON(t, r, ip, http.MethodGet, "/v1/lots/"+lotID+"/itps/"+instance["id"].(string)+"/progress", token, nil)
	require.Equal(t, http.StatusOK, code)
	progress := resp.Data.(map[string]interface{})
	assert.EqualValues(t, 2, progress["total_items"])
	assert.EqualValues(t, 1, progress["passed_items"])
	assert.EqualValues(t, 50, progress["percentage"])
}

func TestInvalidUUIDPathParam(t *testing.T) {
	r := newTestRouter(t)
	ip := testIP(t)
	token := registerAndLogin(t, r, ip, "viewer2@example.com", "viewer")

	code, resp := doJSON(t, r, ip, http.MethodGet, "/v1/lots/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.CodeValidation), resp.Error.Code)
}
