package presentation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medigo/orders-service/internal/application"
	"github.com/medigo/orders-service/internal/delivery"
	"github.com/medigo/orders-service/internal/domain"
	"github.com/medigo/orders-service/internal/logger"
	"github.com/medigo/orders-service/internal/repository"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

func newTestServer(tick time.Duration) (*httptest.Server, *delivery.Simulator) {
	store := repository.NewOrderStore()
	sim := delivery.NewSimulator(store, nil, tick)
	svc := application.NewOrdersService(store, nil, "", sim, nil)

	r := chi.NewRouter()
	NewOrdersHandler(svc).Register(r)
	NewAuthHandler(application.NewAuthService(repository.NewMemoryUserRepository(), "test-secret")).Register(r)
	NewChatHandler(application.NewChatService("", "")).Register(r)
	NewSystemHandler("ping").Register(r)

	return httptest.NewServer(r), sim
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

// Create → verify → poll, the whole demo checkout flow over HTTP.
func TestCheckoutFlowDemoMode(t *testing.T) {
	srv, sim := newTestServer(100 * time.Millisecond)
	defer srv.Close()
	defer sim.StopAll()

	resp, created := postJSON(t, srv.URL+"/api/payments/create-order",
		map[string]any{"amount": 100})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", created["keyId"])
	orderID := created["orderId"].(string)
	require.NotEmpty(t, orderID)

	resp, verified := postJSON(t, srv.URL+"/api/payments/verify",
		map[string]any{"orderId": orderID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, verified["ok"])
	assert.Equal(t, orderID, verified["orderId"])

	// Immediately after verify: paid, no position yet.
	resp, status := getJSON(t, srv.URL+"/api/order-status/"+orderID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(domain.StatusPaid), status["status"])
	assert.Nil(t, status["delivery"])

	// Poll until the courier leaves, then check the first waypoint.
	deadline := time.After(3 * time.Second)
	for {
		_, status = getJSON(t, srv.URL+"/api/order-status/"+orderID)
		if status["status"] == string(domain.StatusOutForDelivery) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("order stuck at %v", status["status"])
		case <-time.After(5 * time.Millisecond):
		}
	}
	pos := status["delivery"].(map[string]any)
	assert.Equal(t, delivery.DefaultRoute[0].Lat, pos["lat"])
	assert.Equal(t, delivery.DefaultRoute[0].Lng, pos["lng"])

	// And eventually delivered, terminally.
	for {
		_, status = getJSON(t, srv.URL+"/api/order-status/"+orderID)
		if status["status"] == string(domain.StatusDelivered) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("order stuck at %v", status["status"])
		case <-time.After(5 * time.Millisecond):
		}
	}
	time.Sleep(120 * time.Millisecond)
	_, status = getJSON(t, srv.URL+"/api/order-status/"+orderID)
	assert.Equal(t, string(domain.StatusDelivered), status["status"])
}

func TestVerifyValidation(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	resp, body := postJSON(t, srv.URL+"/api/payments/verify", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing orderId", body["error"])

	resp, body = postJSON(t, srv.URL+"/api/payments/verify",
		map[string]any{"orderId": "order_ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", body["error"])
}

func TestOrderStatusNotFound(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	resp, body := getJSON(t, srv.URL+"/api/order-status/order_ghost")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Order not found", body["error"])
}

func TestCreateOrderStringAmount(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	// Legacy clients send the amount as a string; it must coerce, not 400.
	resp, created := postJSON(t, srv.URL+"/api/payments/create-order",
		map[string]any{"amount": "250", "currency": "INR"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	orderID := created["orderId"].(string)
	_, status := getJSON(t, srv.URL+"/api/order-status/"+orderID)
	assert.Equal(t, float64(250), status["amount"])
}

func TestAuthEndpoints(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	resp, body := postJSON(t, srv.URL+"/api/auth/signup",
		map[string]any{"name": "Asha", "email": "asha@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User created", body["message"])

	resp, body = postJSON(t, srv.URL+"/api/auth/signup",
		map[string]any{"name": "Asha", "email": "asha@example.com", "password": "hunter2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, body = postJSON(t, srv.URL+"/api/auth/login",
		map[string]any{"email": "asha@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, body = postJSON(t, srv.URL+"/api/auth/login",
		map[string]any{"email": "asha@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Wrong password", body["error"])
}

func TestChatEndpoint(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	resp, body := postJSON(t, srv.URL+"/api/chat", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing message", body["error"])

	resp, body = postJSON(t, srv.URL+"/api/chat",
		map[string]any{"message": "track my order"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["reply"], "Track Order")
}

func TestPing(t *testing.T) {
	srv, sim := newTestServer(time.Hour)
	defer srv.Close()
	defer sim.StopAll()

	resp, body := getJSON(t, srv.URL+"/api/ping")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ping", body["message"])
}
