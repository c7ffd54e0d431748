package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"safaipak-api-server/config"
	"safaipak-api-server/internal/auth"
	"safaipak-api-server/internal/database"
	"safaipak-api-server/internal/models"
	"safaipak-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		CORS: config.CORSConfig{AllowOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T, mutate ...func(*Dependencies)) (*gin.Engine, *Dependencies) {
	t.Helper()
	deps := &Dependencies{
		Config: testConfig(),
		Store:  database.NewMemoryStore(),
		Log:    zap.NewNop(),
		Hub:    socket.NewHub(zap.NewNop()),
	}
	for _, m := range mutate {
		m(deps)
	}
	return SetupRouter(*deps), deps
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createBooking(t *testing.T, r http.Handler, body map[string]any) map[string]any {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/bookings", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func createProvider(t *testing.T, r http.Handler, body map[string]any) map[string]any {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/providers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

var ali = map[string]any{"name": "Ali", "phone": "0300-1111111", "city": "Lahore", "serviceType": "Pest Control"}

func TestBookingLifecycleScenarios(t *testing.T) {
	r, _ := newTestRouter(t)

	// Create.
	created := createBooking(t, r, ali)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, 0.0, created["amount"])
	id, _ := created["_id"].(string)
	require.NotEmpty(t, id)

	// Confirm with an empty body leaves the provider unset.
	w := do(t, r, http.MethodPatch, "/api/bookings/"+id+"/confirm", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	confirmed := decode[map[string]any](t, w)
	assert.Equal(t, "confirmed", confirmed["status"])
	assert.NotContains(t, confirmed, "providerId")

	// Unknown status is rejected and nothing changes.
	w = do(t, r, http.MethodPut, "/api/bookings/"+id, map[string]any{"status": "unknown"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	failure := decode[map[string]string](t, w)
	assert.Equal(t, "Invalid status. Must be one of: pending, confirmed, in-progress, completed, cancelled", failure["message"])
	assert.NotEmpty(t, failure["error"])

	w = do(t, r, http.MethodGet, "/api/bookings/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", decode[map[string]any](t, w)["status"])
}

func TestEmptyDashboard(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalBookings":0,"totalProviders":0,"pendingBookings":0,"completedBookings":0,"completionRate":0}`, w.Body.String())
}

func TestProvidersOrderedByRating(t *testing.T) {
	r, _ := newTestRouter(t)
	createProvider(t, r, map[string]any{"name": "Three", "email": "three@x.pk", "phone": "1", "city": "Karachi", "rating": 3})
	createProvider(t, r, map[string]any{"name": "Five", "email": "five@x.pk", "phone": "2", "city": "Karachi", "rating": 5})
	createProvider(t, r, map[string]any{"name": "Elsewhere", "email": "e@x.pk", "phone": "3", "city": "Lahore", "rating": 4})

	w := do(t, r, http.MethodGet, "/api/providers?city=Karachi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Provider](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Five", list[0].Name)
	assert.Equal(t, "Three", list[1].Name)
}

func TestProviderFilters(t *testing.T) {
	r, _ := newTestRouter(t)
	createProvider(t, r, map[string]any{"name": "Open", "email": "o@x.pk", "phone": "1", "city": "Lahore", "specialization": []string{"Pest Control"}})
	closed := createProvider(t, r, map[string]any{"name": "Closed", "email": "c@x.pk", "phone": "1", "city": "Lahore", "available": false})
	assert.Equal(t, false, closed["available"])
	assert.Equal(t, false, closed["verified"])
	assert.Equal(t, "pending", closed["status"])

	list := decode[[]models.Provider](t, do(t, r, http.MethodGet, "/api/providers?available=true", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Open", list[0].Name)

	// Anything other than "true" reads as false.
	list = decode[[]models.Provider](t, do(t, r, http.MethodGet, "/api/providers?available=no", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Closed", list[0].Name)

	list = decode[[]models.Provider](t, do(t, r, http.MethodGet, "/api/providers?available=true&specialization=Pest%20Control", nil))
	assert.Len(t, list, 1)

	list = decode[[]models.Provider](t, do(t, r, http.MethodGet, "/api/providers?available=true&verified=true", nil))
	assert.Empty(t, list)
}

func TestValidationAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/bookings", map[string]any{"name": "Ali", "city": "Lahore"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "Could not create booking", body["message"])
	assert.Contains(t, body["error"], "'phone'")
	assert.Contains(t, body["error"], "'serviceType'")

	w = do(t, r, http.MethodPost, "/api/bookings", map[string]any{"name": "  ", "phone": "1", "city": "Lahore", "serviceType": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/bookings", `{"name": 12}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/providers", map[string]any{"name": "x", "phone": "1", "city": "Lahore"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, path := range []string{"/api/bookings/nope", "/api/providers/nope", "/api/analytics/provider/nope"} {
		w = do(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, decode[map[string]string](t, w)["message"], "not found")
	}

	w = do(t, r, http.MethodPut, "/api/bookings/nope", map[string]any{"amount": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodPatch, "/api/bookings/nope/confirm", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodPut, "/api/providers/nope", map[string]any{"verified": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIdempotentReads(t *testing.T) {
	r, _ := newTestRouter(t)
	b := createBooking(t, r, ali)
	p := createProvider(t, r, map[string]any{"name": "P", "email": "p@x.pk", "phone": "1", "city": "Lahore"})

	for _, path := range []string{"/api/bookings/" + b["_id"].(string), "/api/providers/" + p["_id"].(string)} {
		first := do(t, r, http.MethodGet, path, nil)
		second := do(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
	}
}

func TestBookingListFilters(t *testing.T) {
	r, _ := newTestRouter(t)
	createBooking(t, r, ali)
	createBooking(t, r, map[string]any{"name": "Sara", "phone": "0333-2222222", "city": "Karachi", "serviceType": "Disinfection"})

	list := decode[[]models.Booking](t, do(t, r, http.MethodGet, "/api/bookings", nil))
	require.Len(t, list, 2)
	assert.Equal(t, "Sara", list[0].Name)

	list = decode[[]models.Booking](t, do(t, r, http.MethodGet, "/api/bookings?phone=0300-1111111", nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Ali", list[0].Name)

	w := do(t, r, http.MethodGet, "/api/bookings?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	p := createProvider(t, r, map[string]any{"name": "Tech", "email": "t@x.pk", "phone": "1", "city": "Lahore", "rating": 4.5})
	pid := p["_id"].(string)

	b := createBooking(t, r, ali)
	w := do(t, r, http.MethodPut, "/api/bookings/"+b["_id"].(string), map[string]any{"status": "completed", "providerId": pid, "amount": 2000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	createBooking(t, r, map[string]any{"name": "Sara", "phone": "1", "city": "Karachi", "serviceType": "Disinfection"})

	w = do(t, r, http.MethodGet, "/api/analytics/dashboard", nil)
	assert.JSONEq(t, `{"totalBookings":2,"totalProviders":0,"pendingBookings":1,"completedBookings":1,"completionRate":50}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/analytics/demand?city=lahore", nil)
	assert.JSONEq(t, `[{"city":"Lahore","serviceType":"Pest Control","count":1}]`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/analytics/provider/"+pid, nil)
	assert.JSONEq(t, `{"provider":{"name":"Tech","rating":4.5,"totalJobs":0},"bookings":{"total":1,"completed":1,"pending":0},"earnings":{"total":2000}}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/analytics/location", nil)
	require.Equal(t, http.StatusOK, w.Code)
	loc := decode[map[string]any](t, w)
	assert.Equal(t, []any{}, loc["serviceGaps"])
	assert.Equal(t, 1.0, loc["providerDensity"])
	assert.Len(t, loc["demandHotspots"], 2)
}

func TestReviewEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	b := createBooking(t, r, ali)
	bid := b["_id"].(string)

	w := do(t, r, http.MethodPost, "/api/reviews", map[string]any{"bookingId": bid, "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Ali", decode[map[string]any](t, w)["customerName"])

	w = do(t, r, http.MethodPost, "/api/reviews", map[string]any{"bookingId": bid, "rating": 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/reviews", map[string]any{"customerName": "Ayesha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list := decode[[]models.Review](t, do(t, r, http.MethodGet, "/api/reviews?bookingId="+bid, nil))
	require.Len(t, list, 1)
	assert.Equal(t, "Great", list[0].Comment)
}

func TestHealthAndCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "SafaiPak API", health["service"])
	assert.Equal(t, "memory", health["store"])

	w = do(t, r, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[[]models.ServiceCategory](t, w)
	assert.Len(t, catalog, len(models.ServiceCatalog))
}

func TestCORSHeaders(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/services", nil, "Origin", "http://localhost:5173")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	r, _ := newTestRouter(t, func(d *Dependencies) {
		d.Config.RateLimit = config.RateLimitConfig{PerMinute: 1, Burst: 2}
	})
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/", nil).Code)
	w := do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["message"])
}

func TestAdminAuth(t *testing.T) {
	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret: "test", Expiration: time.Hour, AdminEmail: "admin@safaipak.pk", AdminPassword: "pw",
	})
	require.NoError(t, err)
	r, _ := newTestRouter(t, func(d *Dependencies) { d.Auth = manager })

	p := createProvider(t, r, map[string]any{"name": "P", "email": "p@x.pk", "phone": "1", "city": "Lahore"})
	path := "/api/providers/" + p["_id"].(string)

	w := do(t, r, http.MethodPut, path, map[string]any{"verified": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@safaipak.pk", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@safaipak.pk", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, token)

	w = do(t, r, http.MethodPut, path, map[string]any{"verified": true}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, w)["verified"])

	other, err := manager.GenerateJWT("someone@x.pk", "customer")
	require.NoError(t, err)
	w = do(t, r, http.MethodPut, path, map[string]any{"verified": false}, "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Public routes stay public.
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, path, nil).Code)
}

func TestLoginRouteAbsentWithoutAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.pk", "password": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fakeUploader struct {
	key, contentType, body string
}

func (f *fakeUploader) UploadFile(_ context.Context, file io.Reader, key, contentType string) (string, error) {
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.key, f.contentType, f.body = key, contentType, string(b)
	return "https://cdn.test/" + key, nil
}

func uploadRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "license.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentUpload(t *testing.T) {
	uploader := &fakeUploader{}
	r, _ := newTestRouter(t, func(d *Dependencies) { d.Uploader = uploader })
	p := createProvider(t, r, map[string]any{"name": "P", "email": "p@x.pk", "phone": "1", "city": "Lahore"})
	pid := p["_id"].(string)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/providers/"+pid+"/documents"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var updated models.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Documents, 1)
	assert.Equal(t, "license.pdf", updated.Documents[0].FileName)
	assert.True(t, strings.HasPrefix(updated.Documents[0].URL, "https://cdn.test/providers/"+pid+"/documents/"))
	assert.Equal(t, "%PDF-1.4", uploader.body)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/providers/missing/documents"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/providers/"+pid+"/documents", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentUploadDisabled(t *testing.T) {
	r, _ := newTestRouter(t)
	p := createProvider(t, r, map[string]any{"name": "P", "email": "p@x.pk", "phone": "1", "city": "Lahore"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "/api/providers/"+p["_id"].(string)+"/documents"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWebSocketReceivesAssignment(t *testing.T) {
	r, deps := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	p := createProvider(t, r, map[string]any{"name": "P", "email": "p@x.pk", "phone": "1", "city": "Lahore"})
	pid := p["_id"].(string)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?providerId=" + pid
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return deps.Hub.Connected(pid) }, time.Second, 10*time.Millisecond)

	b := createBooking(t, r, ali)
	w := do(t, r, http.MethodPatch, "/api/bookings/"+b["_id"].(string)+"/confirm", map[string]any{"providerId": pid})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event socket.BookingEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, socket.EventBookingAssigned, event.Event)
	assert.Equal(t, b["_id"], event.Booking.ID)

	w = do(t, r, http.MethodPut, "/api/bookings/"+b["_id"].(string), map[string]any{"status": "in-progress"})
	require.Equal(t, http.StatusOK, w.Code)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, socket.EventBookingStatusChanged, event.Event)
	assert.Equal(t, models.StatusInProgress, event.Booking.Status)
}

func TestWebSocketRequiresProvider(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/ws", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmWithEmptyChunkedBody(t *testing.T) {
	r, _ := newTestRouter(t)
	b := createBooking(t, r, ali)

	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+b["_id"].(string)+"/confirm", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode[map[string]any](t, w)["status"])

	w = do(t, r, http.MethodPatch, "/api/bookings/"+b["_id"].(string)+"/confirm", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmTerminalBookingRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createBooking(t, r, ali)["_id"].(string)

	w := do(t, r, http.MethodPut, "/api/bookings/"+id, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPatch, "/api/bookings/"+id+"/confirm", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Booking is already completed; its status can no longer change", decode[map[string]any](t, w)["message"])

	w = do(t, r, http.MethodGet, "/api/bookings/"+id, nil)
	assert.Equal(t, "completed", decode[map[string]any](t, w)["status"])
}
