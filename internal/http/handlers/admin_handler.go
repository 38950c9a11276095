// Admin-only endpoints: staff accounts, system settings, audit trail, and
// daily sales reports.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/http/middleware"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// CreateStaffRequest provisions a staff account.
type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// UpdateStaffRequest edits a staff member's profile.
type UpdateStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// ActiveRequest enables or disables an account.
type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SettingRequest writes one system setting.
type SettingRequest struct {
	Value string `json:"value" binding:"required"`
}

// StaffListResponse is a paginated page of staff accounts.
type StaffListResponse struct {
	Users      any        `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// AuditListResponse is a paginated page of audit entries, newest first.
type AuditListResponse struct {
	Entries    any        `json:"entries"`
	Pagination Pagination `json:"pagination"`
}

// CreateStaff godoc
// @ID          createStaff
// @Summary     Provision a staff account
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateStaffRequest  true  "Account"
// @Success     201  {object}  domain.User
// @Failure     409  {object}  handlers.ErrorResponse "Email already registered"
// @Router      /admin/staff [post]
func (h *Handlers) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email, role, and a password of at least 8 characters are required")
		return
	}
	user, err := h.staffSvc.CreateStaff(c.Request.Context(), middleware.UserID(c), req.Name, req.Email, req.Phone, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			fail(c, http.StatusConflict, ErrCodeEmailTaken, "email is already registered")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown staff role")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create account")
		}
		return
	}
	ok(c, http.StatusCreated, user)
}

// ListStaff godoc
// @ID          listStaff
// @Summary     List accounts by role
// @Tags        Admin
// @Produce     json
// @Param       role       query  string  false  "Filter by role"
// @Param       page       query  int     false  "Page, 1-based"
// @Param       page_size  query  int     false  "Page size, max 100"
// @Success     200  {object}  handlers.StaffListResponse
// @Router      /admin/staff [get]
func (h *Handlers) ListStaff(c *gin.Context) {
	page, pageSize := clampPagination(c)
	users, total, err := h.staffSvc.ListByRole(c.Request.Context(), c.Query("role"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list accounts")
		return
	}
	ok(c, http.StatusOK, StaffListResponse{Users: users, Pagination: paginate(page, pageSize, total)})
}

// UpdateStaff godoc
// @ID          updateStaff
// @Summary     Edit a staff member's profile
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       id    path  string                       true  "User ID"
// @Param       body  body  handlers.UpdateStaffRequest  true  "Profile"
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/staff/{id} [put]
func (h *Handlers) UpdateStaff(c *gin.Context) {
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	user, err := h.staffSvc.UpdateProfile(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Name, req.Phone)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
		return
	}
	ok(c, http.StatusOK, user)
}

// SetStaffActive godoc
// @ID          setStaffActive
// @Summary     Enable or disable an account
// @Tags        Admin
// @Accept      json
// @Param       id    path  string                  true  "User ID"
// @Param       body  body  handlers.ActiveRequest  true  "Active flag"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/staff/{id}/active [put]
func (h *Handlers) SetStaffActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "active flag required")
		return
	}
	if err := h.staffSvc.SetActive(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.Active); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "account not found")
		return
	}
	noContent(c)
}

// ListSettings godoc
// @ID          listSettings
// @Summary     List system settings
// @Tags        Admin
// @Produce     json
// @Success     200  {array}  domain.SystemSetting
// @Router      /admin/settings [get]
func (h *Handlers) ListSettings(c *gin.Context) {
	settings, err := h.settingsSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list settings")
		return
	}
	ok(c, http.StatusOK, settings)
}

// GetSetting godoc
// @ID          getSetting
// @Summary     Read one system setting
// @Tags        Admin
// @Produce     json
// @Param       key  path  string  true  "Setting key"
// @Success     200  {object}  domain.SystemSetting
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/settings/{key} [get]
func (h *Handlers) GetSetting(c *gin.Context) {
	setting, err := h.settingsSvc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "setting not found")
		return
	}
	ok(c, http.StatusOK, setting)
}

// SetSetting godoc
// @ID          setSetting
// @Summary     Write one system setting
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       key   path  string                   true  "Setting key"
// @Param       body  body  handlers.SettingRequest  true  "Value"
// @Success     200  {object}  domain.SystemSetting
// @Failure     400  {object}  handlers.ErrorResponse "Value fails validation"
// @Router      /admin/settings/{key} [put]
func (h *Handlers) SetSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value required")
		return
	}
	setting, err := h.settingsSvc.Set(c.Request.Context(), middleware.UserID(c), c.Param("key"), req.Value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSetting) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value is not valid for this setting")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not save setting")
		return
	}
	ok(c, http.StatusOK, setting)
}

// AuditTrail godoc
// @ID          auditTrail
// @Summary     Page through the audit trail
// @Tags        Admin
// @Produce     json
// @Param       action     query  string  false  "Filter by action, e.g. staff.create"
// @Param       page       query  int     false  "Page, 1-based"
// @Param       page_size  query  int     false  "Page size, max 100"
// @Success     200  {object}  handlers.AuditListResponse
// @Router      /admin/audit [get]
func (h *Handlers) AuditTrail(c *gin.Context) {
	page, pageSize := clampPagination(c)
	entries, total, err := h.settingsSvc.AuditPage(c.Request.Context(), c.Query("action"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not load audit trail")
		return
	}
	ok(c, http.StatusOK, AuditListResponse{Entries: entries, Pagination: paginate(page, pageSize, total)})
}

// DayReport godoc
// @ID          dayReport
// @Summary     Daily sales summary
// @Tags        Admin
// @Produce     json
// @Param       day  query  string  false  "Day as YYYY-MM-DD, defaults to today"
// @Success     200  {object}  services.DayReport
// @Failure     404  {object}  handlers.ErrorResponse "No session for that day"
// @Router      /admin/reports/day [get]
func (h *Handlers) DayReport(c *gin.Context) {
	report, err := h.reportSvc.ForDay(c.Request.Context(), c.Query("day"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, repo.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no session for that day")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not build report")
		return
	}
	ok(c, http.StatusOK, report)
}

// ExportDayReport godoc
// @ID          exportDayReport
// @Summary     Download the daily sales report as a spreadsheet
// @Tags        Admin
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       day  query  string  false  "Day as YYYY-MM-DD, defaults to today"
// @Success     200  {file}  file
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/reports/day/export [get]
func (h *Handlers) ExportDayReport(c *gin.Context) {
	day := c.Query("day")
	report, err := h.reportSvc.ForDay(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, repo.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "no session for that day")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not build report")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="report-`+report.Day+`.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.reportSvc.ExportXLSX(c.Request.Context(), report.Day, c.Writer); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "export failed")
	}
}
