package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar365/orderapp/internal/api/middleware"
	"github.com/Tushar365/orderapp/internal/domain"
	"github.com/Tushar365/orderapp/internal/drive"
	"github.com/Tushar365/orderapp/internal/repository"
	"github.com/Tushar365/orderapp/internal/service"
	"github.com/Tushar365/orderapp/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memOrderRepo struct {
	orders map[string]*domain.Order
	lines  map[string][]*domain.OrderLine
}

func (r *memOrderRepo) Create(ctx context.Context, order *domain.Order, lines []*domain.OrderLine) error {
	r.orders[order.OrderID] = order
	r.lines[order.OrderID] = lines
	return nil
}

func (r *memOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "order", ID: orderID}
	}
	return order, nil
}

func (r *memOrderRepo) Exists(ctx context.Context, orderID string) (bool, error) {
	_, ok := r.orders[orderID]
	return ok, nil
}

func (r *memOrderRepo) UpdateBilling(ctx context.Context, orderID string, patch domain.BillingPatch) (bool, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	return true, nil
}

func (r *memOrderRepo) UpdatePrescription(ctx context.Context, orderID, prescriptionURL string) (bool, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return false, nil
	}
	order.PrescriptionURL = prescriptionURL
	return true, nil
}

func (r *memOrderRepo) List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type memLineRepo struct {
	orders *memOrderRepo
}

func (r *memLineRepo) GetByOrderID(ctx context.Context, orderID string) ([]*domain.OrderLine, error) {
	return r.orders.lines[orderID], nil
}

func (r *memLineRepo) UpdateByOrderIDAndName(ctx context.Context, orderID, name string, patch domain.LinePatch) (bool, error) {
	return false, nil
}

type memIdemRepo struct {
	keys map[string]*domain.IdempotencyKey
}

func (r *memIdemRepo) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	return r.keys[key], nil
}

func (r *memIdemRepo) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	r.keys[key.Key] = key
	return nil
}

type memMirror struct {
	rows map[string][][]string
}

func (m *memMirror) Append(ctx context.Context, tab string, rows [][]string) error {
	m.rows[tab] = append(m.rows[tab], rows...)
	return nil
}

func (m *memMirror) ReadAll(ctx context.Context, tab string) ([][]string, error) {
	return m.rows[tab], nil
}

type memUploader struct {
	configured bool
	uploaded   []string
}

func (u *memUploader) Configured() bool { return u.configured }

func (u *memUploader) Upload(ctx context.Context, filename, mimeType string, content []byte) (*drive.UploadResult, error) {
	u.uploaded = append(u.uploaded, filename)
	return &drive.UploadResult{FileID: "f1", FileURL: "https://drive.example/f/1"}, nil
}

type testEnv struct {
	router   *gin.Engine
	repos    *repository.Repositories
	orders   *memOrderRepo
	mirror   *memMirror
	uploader *memUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	orders := &memOrderRepo{orders: map[string]*domain.Order{}, lines: map[string][]*domain.OrderLine{}}
	repos := &repository.Repositories{
		Order:          orders,
		OrderLine:      &memLineRepo{orders: orders},
		IdempotencyKey: &memIdemRepo{keys: map[string]*domain.IdempotencyKey{}},
	}
	mirror := &memMirror{rows: map[string][][]string{}}
	uploader := &memUploader{configured: true}

	assembler := service.NewAssembler([]string{"110001", "110002"})
	reconciler := service.NewSheetReconciler(mirror, repos, "Orders", "Medicines", logger)
	svc := service.NewOrderService(repos, assembler, reconciler, logger)

	router := gin.New()
	submit := router.Group("/v1")
	submit.Use(middleware.IdempotencyMiddleware(repos, logger))
	submit.POST("/orders", HandleSubmitOrder(svc, repos, logger))
	submit.POST("/orders/quick", HandleQuickOrder(svc, repos, logger))
	router.GET("/v1/orders/:id", HandleGetOrder(svc, logger))
	router.POST("/v1/prescriptions", HandleUploadPrescription(uploader, svc, logger))
	router.POST("/v1/sync-sheet", HandleSyncSheet(reconciler, "shh", logger))
	router.GET("/v1/admin/orders", HandleListOrders(repos, logger))
	router.POST("/v1/admin/orders/:id/status", HandleUpdateStatus(svc, logger))

	return &testEnv{router: router, repos: repos, orders: orders, mirror: mirror, uploader: uploader}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func validSubmitPayload() map[string]any {
	return map[string]any{
		"customerName": "Asha Verma",
		"patientName":  "Ravi Verma",
		"mobile":       "9876543210",
		"address":      "12 MG Road",
		"pincode":      "110001",
		"medicines": []map[string]any{
			{"name": "Dolo 650", "category": "Branded", "mrp": 100, "discount": 10, "quantity": 2},
			{"name": "Metformin 500", "category": "Generic", "mrp": 50, "discount": 20, "quantity": 1},
		},
		"paymentMethod": "cod",
	}
}

func TestSubmitOrder_Created(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}

	var resp SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.OrderID == "" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.SheetSync != "ok" {
		t.Errorf("sheetSync = %q, want ok", resp.SheetSync)
	}
	if _, ok := env.orders.orders[resp.OrderID]; !ok {
		t.Errorf("order %q not persisted", resp.OrderID)
	}
	if len(env.mirror.rows["Orders"]) != 1 || len(env.mirror.rows["Medicines"]) != 2 {
		t.Errorf("mirror rows = %d orders, %d medicines",
			len(env.mirror.rows["Orders"]), len(env.mirror.rows["Medicines"]))
	}
}

func TestSubmitOrder_OutOfAreaPincode(t *testing.T) {
	env := newTestEnv(t)

	payload := validSubmitPayload()
	payload["pincode"] = "560001"
	w := env.doJSON(t, http.MethodPost, "/v1/orders", payload, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}

	var resp struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["pincode"] == "" {
		t.Errorf("expected pincode detail, got %v", resp.Details)
	}
	if len(env.orders.orders) != 0 {
		t.Error("order persisted despite validation failure")
	}
}

func TestSubmitOrder_BindingRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	payload := validSubmitPayload()
	delete(payload, "mobile")
	w := env.doJSON(t, http.MethodPost, "/v1/orders", payload, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", w.Code)
	}
}

func TestSubmitOrder_IdempotencyReplay(t *testing.T) {
	env := newTestEnv(t)
	headers := map[string]string{"Idempotency-Key": "key-1"}

	w := env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), headers)
	if w.Code != http.StatusCreated {
		t.Fatalf("first submit code = %d, body %s", w.Code, w.Body.String())
	}
	var first SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}

	// Same key, same payload: replay acknowledges the existing order
	w = env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), headers)
	if w.Code != http.StatusOK {
		t.Fatalf("replay code = %d, want 200", w.Code)
	}
	var replay SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &replay); err != nil {
		t.Fatal(err)
	}
	if replay.OrderID != first.OrderID {
		t.Errorf("replay order ID %q != original %q", replay.OrderID, first.OrderID)
	}
	if len(env.orders.orders) != 1 {
		t.Errorf("order count = %d, want 1", len(env.orders.orders))
	}

	// Same key, different payload: conflict
	payload := validSubmitPayload()
	payload["address"] = "99 Other Street"
	w = env.doJSON(t, http.MethodPost, "/v1/orders", payload, headers)
	if w.Code != http.StatusConflict {
		t.Fatalf("conflicting payload code = %d, want 409", w.Code)
	}
}

func TestQuickOrder_PatientDefaultsToCustomer(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/orders/quick", map[string]any{
		"name":    "Asha Verma",
		"contact": "9876543210",
		"address": "12 MG Road",
		"pincode": "110001",
		"medicines": []map[string]any{
			{"name": "Dolo 650", "mrp": 100, "quantity": 1},
		},
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}

	var resp SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	order := env.orders.orders[resp.OrderID]
	if order.PatientName != "Asha Verma" {
		t.Errorf("patient name = %q, want customer name", order.PatientName)
	}
	// Quick order medicines carry no category, so everything is generic
	if order.BrandedAmount != 0 {
		t.Errorf("branded amount = %v, want 0", order.BrandedAmount)
	}
	if order.PaymentMethod != domain.PaymentMethodCOD {
		t.Errorf("payment method = %q, want cod default", order.PaymentMethod)
	}
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), nil)
	var created SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	w = env.doJSON(t, http.MethodGet, "/v1/orders/"+created.OrderID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get code = %d", w.Code)
	}
	var resp OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OrderID != created.OrderID || len(resp.Medicines) != 2 {
		t.Errorf("unexpected order response %+v", resp)
	}

	w = env.doJSON(t, http.MethodGet, "/v1/orders/ORD-missing", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order code = %d, want 404", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), nil)
	var created SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// Lowercase wire value is accepted
	w = env.doJSON(t, http.MethodPost, "/v1/admin/orders/"+created.OrderID+"/status", map[string]any{"status": "shipped"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("update code = %d, body %s", w.Code, w.Body.String())
	}
	if env.orders.orders[created.OrderID].Status != domain.OrderStatusShipped {
		t.Errorf("status = %q, want Shipped", env.orders.orders[created.OrderID].Status)
	}

	w = env.doJSON(t, http.MethodPost, "/v1/admin/orders/"+created.OrderID+"/status", map[string]any{"status": "teleported"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status code = %d, want 400", w.Code)
	}

	w = env.doJSON(t, http.MethodPost, "/v1/admin/orders/ORD-missing/status", map[string]any{"status": "shipped"}, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order code = %d, want 404", w.Code)
	}
}

func TestListOrders_StatusFilter(t *testing.T) {
	env := newTestEnv(t)

	env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), nil)

	w := env.doJSON(t, http.MethodGet, "/v1/admin/orders?status=processing", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code = %d", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Count)
	}

	w = env.doJSON(t, http.MethodGet, "/v1/admin/orders?status=nonsense", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status code = %d, want 400", w.Code)
	}
}

func TestSyncSheet_SecretRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/sync-sheet", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret code = %d, want 401", w.Code)
	}

	w = env.doJSON(t, http.MethodPost, "/v1/sync-sheet", nil, map[string]string{"X-Sync-Secret": "shh"})
	if w.Code != http.StatusOK {
		t.Fatalf("sync code = %d, body %s", w.Code, w.Body.String())
	}
}

func TestUploadPrescription_AttachesToOrder(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/v1/orders", validSubmitPayload(), nil)
	var created SubmitOrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "scan.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 fake")); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("orderId", created.OrderID); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/prescriptions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload code = %d, body %s", rec.Code, rec.Body.String())
	}

	if len(env.uploader.uploaded) != 1 || env.uploader.uploaded[0] != created.OrderID+".pdf" {
		t.Errorf("uploaded filenames = %v", env.uploader.uploaded)
	}
	if env.orders.orders[created.OrderID].PrescriptionURL != "https://drive.example/f/1" {
		t.Errorf("prescription URL = %q", env.orders.orders[created.OrderID].PrescriptionURL)
	}
}

func TestUploadPrescription_Unconfigured(t *testing.T) {
	env := newTestEnv(t)
	env.uploader.configured = false

	req := httptest.NewRequest(http.MethodPost, "/v1/prescriptions", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d, want 503", w.Code)
	}
}
