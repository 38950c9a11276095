// Package handlers provides HTTP handler implementations for the public API.
//
// This file wires the handler set: abstract service contracts (so transport
// stays decoupled from business logic and tests can substitute fakes), the
// Handlers aggregate, and shared request helpers.
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/paystack"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/utils"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/ws"
)

//
// Service contracts (context-aware)
//

// AuthService defines account and token operations consumed by HTTP handlers.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*domain.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// MenuService defines category and menu item operations.
type MenuService interface {
	CreateCategory(ctx context.Context, name string, position int) (*domain.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id, name string, position int, active bool) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	ListItems(ctx context.Context, filter repo.MenuItemFilter) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, fields map[string]any) (*domain.MenuItem, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	DeleteItem(ctx context.Context, id string) error
	ImportXLSX(ctx context.Context, r io.Reader) (*services.ImportResult, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

// OrderService defines order lifecycle operations.
type OrderService interface {
	Create(ctx context.Context, userID, idemKey string, in services.OrderInput) (*domain.Order, bool, error)
	Get(ctx context.Context, id, requesterID string) (*domain.Order, error)
	Track(ctx context.Context, number string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Order, int64, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int) ([]domain.Order, int64, error)
	KitchenQueue(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Cancel(ctx context.Context, id, requesterID string) (*domain.Order, error)
	Stats(ctx context.Context) (*services.OrderStats, error)
}

// PaymentService defines charge and settlement operations.
type PaymentService interface {
	InitCharge(ctx context.Context, orderID, email string) (*paystack.InitResult, *domain.Payment, error)
	VerifyCharge(ctx context.Context, reference string) (*domain.Payment, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	RecordCash(ctx context.Context, orderID, actorID string) (*domain.Payment, error)
	ListForOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
}

// SessionService defines day-session operations.
type SessionService interface {
	Open(ctx context.Context, actorID string) (*domain.DaySession, error)
	Close(ctx context.Context, actorID string) (*domain.DaySession, error)
	Current(ctx context.Context) (*domain.DaySession, error)
}

// ChatService defines room-chat operations.
type ChatService interface {
	Post(ctx context.Context, room string, sender *domain.User, body string) (*domain.ChatMessage, error)
	History(ctx context.Context, room, role, userID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
}

// SettingsService defines system settings and audit reads.
type SettingsService interface {
	List(ctx context.Context) ([]domain.SystemSetting, error)
	Get(ctx context.Context, key string) (*domain.SystemSetting, error)
	Set(ctx context.Context, actorID, key, value string) (*domain.SystemSetting, error)
	AuditPage(ctx context.Context, action string, page, pageSize int) ([]domain.AuditLog, int64, error)
}

// StaffService defines admin account management.
type StaffService interface {
	CreateStaff(ctx context.Context, actorID, name, email, phone, password, role string) (*domain.User, error)
	ListByRole(ctx context.Context, role string, page, pageSize int) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, actorID, userID, name, phone string) (*domain.User, error)
	SetActive(ctx context.Context, actorID, userID string, active bool) error
}

// ReportService defines daily sales reporting.
type ReportService interface {
	ForDay(ctx context.Context, day string) (*services.DayReport, error)
	ExportXLSX(ctx context.Context, day string, w io.Writer) error
}

//
// Handler wiring
//

// Handlers groups every HTTP endpoint of the API. It depends on abstract
// service contracts so transport concerns stay separate from business logic.
type Handlers struct {
	authSvc     AuthService
	menuSvc     MenuService
	orderSvc    OrderService
	paymentSvc  PaymentService
	sessionSvc  SessionService
	chatSvc     ChatService
	settingsSvc SettingsService
	staffSvc    StaffService
	reportSvc   ReportService

	hub         *ws.Hub
	wsOpts      ws.ClientOptions
	tokenParser middleware.TokenParser

	uploadDir      string
	maxUploadBytes int64
}

// Options carries the non-service dependencies of the handler set.
type Options struct {
	Hub            *ws.Hub
	WSOpts         ws.ClientOptions
	TokenParser    middleware.TokenParser
	UploadDir      string
	MaxUploadBytes int64
}

// New constructs a Handlers instance bound to the given services.
func New(
	auth AuthService,
	menu MenuService,
	orders OrderService,
	payments PaymentService,
	sessions SessionService,
	chat ChatService,
	settings SettingsService,
	staff StaffService,
	reports ReportService,
	opts Options,
) *Handlers {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	return &Handlers{
		authSvc:        auth,
		menuSvc:        menu,
		orderSvc:       orders,
		paymentSvc:     payments,
		sessionSvc:     sessions,
		chatSvc:        chat,
		settingsSvc:    settings,
		staffSvc:       staff,
		reportSvc:      reports,
		hub:            opts.Hub,
		wsOpts:         opts.WSOpts,
		tokenParser:    opts.TokenParser,
		uploadDir:      opts.UploadDir,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// paginate builds the metadata block for a page of total rows.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	page = utils.AtoiDefault(c.Query("page"), 1)
	return utils.ClampPage(page, utils.AtoiDefault(c.Query("page_size"), 0), 20, 100)
}

// currentUser loads the authenticated account, failing the request when the
// token's subject no longer resolves.
func (h *Handlers) currentUser(c *gin.Context) (*domain.User, bool) {
	u, err := h.authSvc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "account not found")
		return nil, false
	}
	return u, true
}
