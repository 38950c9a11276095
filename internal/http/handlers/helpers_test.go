package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// ---------- flexible service stubs ----------
//
// Each stub implements its contract with overridable func fields; nil fields
// fall back to harmless zero behavior so tests only wire what they assert.

type stubAuthSvc struct {
	register func(context.Context, string, string, string, string) (*domain.User, *services.TokenPair, error)
	login    func(context.Context, string, string) (*domain.User, *services.TokenPair, error)
	refresh  func(context.Context, string) (*services.TokenPair, error)
	me       func(context.Context, string) (*domain.User, error)
}

func (s stubAuthSvc) Register(ctx context.Context, name, email, phone, password string) (*domain.User, *services.TokenPair, error) {
	if s.register != nil {
		return s.register(ctx, name, email, phone, password)
	}
	return &domain.User{ID: "u1", Name: name, Email: email, Role: domain.RoleCustomer}, &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s stubAuthSvc) Login(ctx context.Context, email, password string) (*domain.User, *services.TokenPair, error) {
	if s.login != nil {
		return s.login(ctx, email, password)
	}
	return &domain.User{ID: "u1", Email: email, Role: domain.RoleCustomer}, &services.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s stubAuthSvc) Refresh(ctx context.Context, token string) (*services.TokenPair, error) {
	if s.refresh != nil {
		return s.refresh(ctx, token)
	}
	return &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (s stubAuthSvc) Me(ctx context.Context, userID string) (*domain.User, error) {
	if s.me != nil {
		return s.me(ctx, userID)
	}
	return &domain.User{ID: userID, Role: domain.RoleCustomer, Active: true}, nil
}

type stubMenuSvc struct {
	createCategory func(context.Context, string, int) (*domain.Category, error)
	listItems      func(context.Context, repo.MenuItemFilter) ([]domain.MenuItem, error)
	getItem        func(context.Context, string) (*domain.MenuItem, error)
	createItem     func(context.Context, *domain.MenuItem) (*domain.MenuItem, error)
	updateItem     func(context.Context, string, map[string]any) (*domain.MenuItem, error)
	importXLSX     func(context.Context, io.Reader) (*services.ImportResult, error)
}

func (s stubMenuSvc) CreateCategory(ctx context.Context, name string, position int) (*domain.Category, error) {
	if s.createCategory != nil {
		return s.createCategory(ctx, name, position)
	}
	return &domain.Category{ID: "cat1", Name: name, Position: position, Active: true}, nil
}

func (s stubMenuSvc) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	return nil, nil
}

func (s stubMenuSvc) UpdateCategory(ctx context.Context, id, name string, position int, active bool) (*domain.Category, error) {
	return &domain.Category{ID: id, Name: name, Position: position, Active: active}, nil
}

func (s stubMenuSvc) DeleteCategory(ctx context.Context, id string) error { return nil }

func (s stubMenuSvc) CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if s.createItem != nil {
		return s.createItem(ctx, item)
	}
	item.ID = "item1"
	return item, nil
}

func (s stubMenuSvc) ListItems(ctx context.Context, filter repo.MenuItemFilter) ([]domain.MenuItem, error) {
	if s.listItems != nil {
		return s.listItems(ctx, filter)
	}
	return nil, nil
}

func (s stubMenuSvc) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	if s.getItem != nil {
		return s.getItem(ctx, id)
	}
	return &domain.MenuItem{ID: id, Name: "Jollof", Price: 2500, Available: true}, nil
}

func (s stubMenuSvc) UpdateItem(ctx context.Context, id string, fields map[string]any) (*domain.MenuItem, error) {
	if s.updateItem != nil {
		return s.updateItem(ctx, id, fields)
	}
	return &domain.MenuItem{ID: id}, nil
}

func (s stubMenuSvc) SetAvailability(ctx context.Context, id string, available bool) error { return nil }
func (s stubMenuSvc) DeleteItem(ctx context.Context, id string) error                      { return nil }

func (s stubMenuSvc) ImportXLSX(ctx context.Context, r io.Reader) (*services.ImportResult, error) {
	if s.importXLSX != nil {
		return s.importXLSX(ctx, r)
	}
	return &services.ImportResult{}, nil
}

func (s stubMenuSvc) ExportXLSX(ctx context.Context, w io.Writer) error { return nil }

type stubOrderSvc struct {
	create       func(context.Context, string, string, services.OrderInput) (*domain.Order, bool, error)
	get          func(context.Context, string, string) (*domain.Order, error)
	track        func(context.Context, string) (*domain.Order, error)
	cancel       func(context.Context, string, string) (*domain.Order, error)
	updateStatus func(context.Context, string, string) (*domain.Order, error)
	listByStatus func(context.Context, string, int, int) ([]domain.Order, int64, error)
	stats        func(context.Context) (*services.OrderStats, error)
}

func (s stubOrderSvc) Create(ctx context.Context, userID, idemKey string, in services.OrderInput) (*domain.Order, bool, error) {
	if s.create != nil {
		return s.create(ctx, userID, idemKey, in)
	}
	return &domain.Order{ID: "o1", Number: "ORD_20250615_0001", Status: domain.StatusPending}, false, nil
}

func (s stubOrderSvc) Get(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	if s.get != nil {
		return s.get(ctx, id, requesterID)
	}
	return &domain.Order{ID: id}, nil
}

func (s stubOrderSvc) Track(ctx context.Context, number string) (*domain.Order, error) {
	if s.track != nil {
		return s.track(ctx, number)
	}
	return &domain.Order{ID: "o1", Number: number}, nil
}

func (s stubOrderSvc) ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error) {
	return nil, 0, nil
}

func (s stubOrderSvc) ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error) {
	if s.listByStatus != nil {
		return s.listByStatus(ctx, status, page, pageSize)
	}
	return nil, 0, nil
}

func (s stubOrderSvc) KitchenQueue(ctx context.Context) ([]domain.Order, error) { return nil, nil }

func (s stubOrderSvc) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if s.updateStatus != nil {
		return s.updateStatus(ctx, id, status)
	}
	return &domain.Order{ID: id, Status: status}, nil
}

func (s stubOrderSvc) Cancel(ctx context.Context, id, requesterID string) (*domain.Order, error) {
	if s.cancel != nil {
		return s.cancel(ctx, id, requesterID)
	}
	return &domain.Order{ID: id, Status: domain.StatusCancelled}, nil
}

func (s stubOrderSvc) Stats(ctx context.Context) (*services.OrderStats, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return &services.OrderStats{SessionID: "s1", Day: "2025-06-15", Total: 3}, nil
}

type stubPaymentSvc struct {
	initCharge    func(context.Context, string, string) (*paystack.InitResult, *domain.Payment, error)
	verifyCharge  func(context.Context, string) (*domain.Payment, error)
	handleWebhook func(context.Context, []byte, string) error
	recordCash    func(context.Context, string, string) (*domain.Payment, error)
}

func (s stubPaymentSvc) InitCharge(ctx context.Context, orderID, email string) (*paystack.InitResult, *domain.Payment, error) {
	if s.initCharge != nil {
		return s.initCharge(ctx, orderID, email)
	}
	return &paystack.InitResult{Reference: "PAY_X", AuthorizationURL: "https://paystack.test/x"},
		&domain.Payment{ID: "p1", OrderID: orderID, Reference: "PAY_X", Status: "pending"}, nil
}

func (s stubPaymentSvc) VerifyCharge(ctx context.Context, reference string) (*domain.Payment, error) {
	if s.verifyCharge != nil {
		return s.verifyCharge(ctx, reference)
	}
	return &domain.Payment{Reference: reference, Status: "success"}, nil
}

func (s stubPaymentSvc) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.handleWebhook != nil {
		return s.handleWebhook(ctx, body, signature)
	}
	return nil
}

func (s stubPaymentSvc) RecordCash(ctx context.Context, orderID, actorID string) (*domain.Payment, error) {
	if s.recordCash != nil {
		return s.recordCash(ctx, orderID, actorID)
	}
	return &domain.Payment{ID: "p1", OrderID: orderID, Status: "success"}, nil
}

func (s stubPaymentSvc) ListForOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return nil, nil
}

type stubSessionSvc struct {
	open    func(context.Context, string) (*domain.DaySession, error)
	close_  func(context.Context, string) (*domain.DaySession, error)
	current func(context.Context) (*domain.DaySession, error)
}

func (s stubSessionSvc) Open(ctx context.Context, actorID string) (*domain.DaySession, error) {
	if s.open != nil {
		return s.open(ctx, actorID)
	}
	return &domain.DaySession{ID: "s1", Day: "2025-06-15", Open: true, OpenedBy: actorID}, nil
}

func (s stubSessionSvc) Close(ctx context.Context, actorID string) (*domain.DaySession, error) {
	if s.close_ != nil {
		return s.close_(ctx, actorID)
	}
	return &domain.DaySession{ID: "s1", Day: "2025-06-15", Open: false}, nil
}

func (s stubSessionSvc) Current(ctx context.Context) (*domain.DaySession, error) {
	if s.current != nil {
		return s.current(ctx)
	}
	return &domain.DaySession{ID: "s1", Day: "2025-06-15", Open: true}, nil
}

type stubChatSvc struct {
	post    func(context.Context, string, *domain.User, string) (*domain.ChatMessage, error)
	history func(context.Context, string, string, string, int, int) ([]domain.ChatMessage, int64, error)
}

func (s stubChatSvc) Post(ctx context.Context, room string, sender *domain.User, body string) (*domain.ChatMessage, error) {
	if s.post != nil {
		return s.post(ctx, room, sender, body)
	}
	return &domain.ChatMessage{ID: "m1", Room: room, Body: body, SenderID: sender.ID}, nil
}

func (s stubChatSvc) History(ctx context.Context, room, role, userID string, page, pageSize int) ([]domain.ChatMessage, int64, error) {
	if s.history != nil {
		return s.history(ctx, room, role, userID, page, pageSize)
	}
	return nil, 0, nil
}

type stubSettingsSvc struct {
	set func(context.Context, string, string, string) (*domain.SystemSetting, error)
	get func(context.Context, string) (*domain.SystemSetting, error)
}

func (s stubSettingsSvc) List(ctx context.Context) ([]domain.SystemSetting, error) { return nil, nil }

func (s stubSettingsSvc) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	if s.get != nil {
		return s.get(ctx, key)
	}
	return &domain.SystemSetting{Key: key, Value: "v"}, nil
}

func (s stubSettingsSvc) Set(ctx context.Context, actorID, key, value string) (*domain.SystemSetting, error) {
	if s.set != nil {
		return s.set(ctx, actorID, key, value)
	}
	return &domain.SystemSetting{Key: key, Value: value, UpdatedBy: actorID}, nil
}

func (s stubSettingsSvc) AuditPage(ctx context.Context, action string, page, pageSize int) ([]domain.AuditLog, int64, error) {
	return nil, 0, nil
}

type stubStaffSvc struct {
	createStaff func(context.Context, string, string, string, string, string, string) (*domain.User, error)
}

func (s stubStaffSvc) CreateStaff(ctx context.Context, actorID, name, email, phone, password, role string) (*domain.User, error) {
	if s.createStaff != nil {
		return s.createStaff(ctx, actorID, name, email, phone, password, role)
	}
	return &domain.User{ID: "st1", Name: name, Email: email, Role: role, Active: true}, nil
}

func (s stubStaffSvc) ListByRole(ctx context.Context, role string, page, pageSize int) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (s stubStaffSvc) UpdateProfile(ctx context.Context, actorID, userID, name, phone string) (*domain.User, error) {
	return &domain.User{ID: userID, Name: name, Phone: phone}, nil
}

func (s stubStaffSvc) SetActive(ctx context.Context, actorID, userID string, active bool) error {
	return nil
}

type stubReportSvc struct {
	forDay func(context.Context, string) (*services.DayReport, error)
}

func (s stubReportSvc) ForDay(ctx context.Context, day string) (*services.DayReport, error) {
	if s.forDay != nil {
		return s.forDay(ctx, day)
	}
	return &services.DayReport{Day: "2025-06-15", Orders: 2, GrossSales: 11000}, nil
}

func (s stubReportSvc) ExportXLSX(ctx context.Context, day string, w io.Writer) error { return nil }

// ---------- construction helpers ----------

// stubs bundles one of every stub so tests override only what they need.
type stubs struct {
	auth     stubAuthSvc
	menu     stubMenuSvc
	orders   stubOrderSvc
	payments stubPaymentSvc
	sessions stubSessionSvc
	chat     stubChatSvc
	settings stubSettingsSvc
	staff    stubStaffSvc
	reports  stubReportSvc
	opts     Options
}

func newStubHandlers(s stubs) *Handlers {
	return New(s.auth, s.menu, s.orders, s.payments, s.sessions, s.chat, s.settings, s.staff, s.reports, s.opts)
}

// asUser injects an authenticated identity the way the auth middleware would.
func asUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxUserRole, role)
		c.Next()
	}
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
