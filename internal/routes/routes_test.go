package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"droppay/internal/config"
	"droppay/internal/metrics"
	"droppay/internal/models"
	"droppay/internal/pinetwork"
	"droppay/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const merchantWallet = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// fakePi stands in for both the Pi platform API and Horizon.
type fakePi struct {
	approvals atomic.Int32
	adStatus  atomic.Int32
}

func (f *fakePi) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, "/approve"):
		f.approvals.Add(1)
		if strings.Contains(path, "/payments/bad/") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"already_approved"}`)
			return
		}
		_, _ = io.WriteString(w, `{"identifier":"pay-1","status":{"developer_approved":true}}`)
	case strings.HasSuffix(path, "/complete"):
		_, _ = io.WriteString(w, `{"identifier":"pay-1","status":{"developer_completed":true}}`)
	case strings.HasPrefix(path, "/ads_network/status/"):
		f.adStatus.Add(1)
		_, _ = io.WriteString(w, `{"identifier":"ad","mediator_ack_status":"granted"}`)
	case path == "/me":
		_, _ = io.WriteString(w, `{"uid":"uid-1","username":"alice"}`)
	case path == "/transactions/tx-ok":
		_, _ = io.WriteString(w, `{"id":"tx-ok","hash":"tx-ok","successful":true}`)
	case path == "/transactions/tx-ok/operations":
		_, _ = io.WriteString(w, fmt.Sprintf(
			`{"_embedded":{"records":[{"type":"create_account"},{"type":"payment","from":"GSENDER","to":"%s","amount":"10.0000000"}]}}`,
			merchantWallet))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status":404}`)
	}
}

type testApp struct {
	app *fiber.App
	db  *gorm.DB
	pi  *fakePi
}

func newTestApp(t *testing.T, secrets config.SecretSource) *testApp {
	t.Helper()
	pi := &fakePi{}
	srv := httptest.NewServer(http.HandlerFunc(pi.handler))
	t.Cleanup(srv.Close)

	db := testutil.NewTestDB(t)
	app := fiber.New()
	SetupRoutes(app, db, Options{
		PiClient: pinetwork.New(pinetwork.Config{APIBase: srv.URL, HorizonBase: srv.URL}),
		Secrets:  secrets,
		Metrics:  metrics.NewPrometheus("test"),
	})
	return &testApp{app: app, db: db, pi: pi}
}

var allSecrets = config.MapSecrets{
	config.PiAPIKey:       "pi-key",
	config.ServiceRoleKey: "service-role",
	config.JWTSecret:      "jwt-secret",
}

func (a *testApp) do(t *testing.T, method, path, body, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// signup creates the merchant through the API and returns its session.
func (a *testApp) signup(t *testing.T) (string, string) {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/merchants",
		fmt.Sprintf(`{"piUserId":"uid-1","piUsername":"alice","walletAddress":"%s","accessToken":"tok"}`, merchantWallet), "")
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, status, body)
	merchant := body["merchant"].(map[string]interface{})
	return merchant["id"].(string), body["session_token"].(string)
}

func TestPreflightReturns200(t *testing.T) {
	a := newTestApp(t, allSecrets)
	req := httptest.NewRequest(http.MethodOptions, "/api/payments/approve", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestApproveRoute(t *testing.T) {
	t.Run("missing api key is 500 before upstream", func(t *testing.T) {
		a := newTestApp(t, config.MapSecrets{})
		status, body := a.do(t, http.MethodPost, "/api/payments/approve", `{"paymentId":"pay-1"}`, "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "PI_API_KEY is not configured", body["error"])
		assert.Zero(t, a.pi.approvals.Load())
	})

	t.Run("missing payment id is 400", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		status, _ := a.do(t, http.MethodPost, "/api/payments/approve", `{}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("inactive link is 400 without upstream", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		m := testutil.SeedMerchant(t, a.db, "uid-x", "xavier")
		link := testutil.SeedLink(t, a.db, models.LinkKindPayment, m.ID, "1", false)

		status, _ := a.do(t, http.MethodPost, "/api/payments/approve",
			fmt.Sprintf(`{"paymentId":"pay-1","paymentLinkId":"%s"}`, link.ID), "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Zero(t, a.pi.approvals.Load())
	})

	t.Run("success returns upstream body", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		status, body := a.do(t, http.MethodPost, "/api/payments/approve", `{"paymentId":"pay-1"}`, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "pay-1", body["identifier"])
	})

	t.Run("upstream rejection is 502 with details", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		status, body := a.do(t, http.MethodPost, "/api/payments/approve", `{"paymentId":"bad"}`, "")
		assert.Equal(t, http.StatusBadGateway, status)
		details := body["details"].(map[string]interface{})
		assert.Equal(t, "already_approved", details["error"])
	})
}

func TestMerchantRoutes(t *testing.T) {
	t.Run("missing service credential is 500", func(t *testing.T) {
		a := newTestApp(t, config.MapSecrets{config.JWTSecret: "jwt"})
		status, body := a.do(t, http.MethodPost, "/api/merchants", `{"piUserId":"uid-1","piUsername":"alice"}`, "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "SERVICE_ROLE_KEY is not configured", body["error"])
	})

	t.Run("create is idempotent", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		payload := `{"piUserId":"uid-1","piUsername":"alice"}`

		status, first := a.do(t, http.MethodPost, "/api/merchants", payload, "")
		assert.Equal(t, http.StatusCreated, status)
		status, second := a.do(t, http.MethodPost, "/api/merchants", payload, "")
		assert.Equal(t, http.StatusOK, status)

		firstID := first["merchant"].(map[string]interface{})["id"]
		secondID := second["merchant"].(map[string]interface{})["id"]
		assert.Equal(t, firstID, secondID)
	})

	t.Run("no session without access token", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		id, _ := a.signup(t)

		status, body := a.do(t, http.MethodPost, "/api/merchants", `{"piUserId":"uid-1","piUsername":"whatever"}`, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, body["merchant"].(map[string]interface{})["id"])
		assert.NotContains(t, body, "session_token")
	})

	t.Run("bad wallet address is 400", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		status, _ := a.do(t, http.MethodPost, "/api/merchants", `{"piUserId":"uid-1","piUsername":"alice","walletAddress":"nope"}`, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("session protects profile", func(t *testing.T) {
		a := newTestApp(t, allSecrets)
		id, token := a.signup(t)

		status, _ := a.do(t, http.MethodGet, "/api/merchants/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, status)

		status, body := a.do(t, http.MethodGet, "/api/merchants/me", "", token)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, body["id"])

		status, _ = a.do(t, http.MethodGet, "/api/admin/merchants", "", token)
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestRewardRoute(t *testing.T) {
	a := newTestApp(t, allSecrets)
	id, token := a.signup(t)
	payload := fmt.Sprintf(`{"adId":"ad-1","merchantId":"%s","piUsername":"alice"}`, id)

	status, first := a.do(t, http.MethodPost, "/api/rewards/verify", payload, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "granted", first["status"])
	assert.Equal(t, false, first["alreadyProcessed"])

	status, second := a.do(t, http.MethodPost, "/api/rewards/verify", payload, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, second["alreadyProcessed"])
	assert.Equal(t, int32(1), a.pi.adStatus.Load())

	var m models.Merchant
	require.NoError(t, a.db.First(&m, "id = ?", id).Error)
	assert.InDelta(t, 0.005, m.AvailableBalance.InexactFloat64(), 1e-9)

	status, notes := a.do(t, http.MethodGet, "/api/notifications", "", token)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, notes["data"], 1)
}

func TestVerifyRoute(t *testing.T) {
	a := newTestApp(t, allSecrets)

	status, body := a.do(t, http.MethodPost, "/api/payments/verify",
		fmt.Sprintf(`{"txid":"tx-ok","expectedAmount":10,"merchantWallet":"%s"}`, strings.ToLower(merchantWallet)), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "GSENDER", body["sender"])

	status, body = a.do(t, http.MethodPost, "/api/payments/verify", `{"txid":"tx-missing","expectedAmount":1}`, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["verified"])
	assert.NotEmpty(t, body["error"])
}

func TestLinkAndWalletRoutes(t *testing.T) {
	a := newTestApp(t, allSecrets)
	_, token := a.signup(t)

	status, link := a.do(t, http.MethodPost, "/api/links", `{"title":"Coffee","amount":"3.5"}`, token)
	require.Equal(t, http.StatusCreated, status)

	status, public := a.do(t, http.MethodGet, "/api/links/"+link["slug"].(string), "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Coffee", public["title"])

	status, key := a.do(t, http.MethodPost, "/api/merchants/apikey", "", token)
	require.Equal(t, http.StatusCreated, status)

	req := httptest.NewRequest(http.MethodPost, "/api/links", strings.NewReader(`{"title":"Tea","amount":2,"checkout":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", key["api_key"].(string))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	status, _ = a.do(t, http.MethodPost, "/api/links/"+link["id"].(string)+"/deactivate", "", token)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(t, http.MethodGet, "/api/links/"+link["slug"].(string), "", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body := a.do(t, http.MethodPost, "/api/wallet/withdraw", `{"amount":"1"}`, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient available balance", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, allSecrets)
	a.do(t, http.MethodGet, "/health", "", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "test_http_requests_total")
}
