// Menu HTTP handlers.
//
// Public (no auth):
//   - GET /menu/categories
//   - GET /menu/items
//   - GET /menu/items/{id}
//
// Admin:
//   - POST/PUT/DELETE under /admin/menu/... plus availability toggle and
//     spreadsheet import/export for bulk management.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/domain"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/repo"
	"github.com/samuelamofa/Restaurant-Management-System-sub000/internal/services"
)

// CategoryRequest is the JSON payload for creating or updating a category.
type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

// MenuItemRequest is the JSON payload for creating a menu item. Price is in
// minor currency units.
type MenuItemRequest struct {
	CategoryID  string `json:"category_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=1"`
	Image       string `json:"image"`
	Position    int    `json:"position"`
	Available   *bool  `json:"available"`
}

// MenuItemPatch is the JSON payload for a partial item update. Only fields
// that are present are applied.
type MenuItemPatch struct {
	CategoryID  *string `json:"category_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Image       *string `json:"image"`
	Position    *int    `json:"position"`
	Available   *bool   `json:"available"`
}

// AvailabilityRequest toggles the sold-out switch.
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List menu categories
// @Tags        Menu
// @Produce     json
// @Param       all  query  bool  false  "Include inactive categories (staff views)"
// @Success     200  {array}  domain.Category
// @Router      /menu/categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	cats, err := h.menuSvc.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list categories")
		return
	}
	ok(c, http.StatusOK, cats)
}

// ListMenuItems godoc
// @ID          listMenuItems
// @Summary     List menu items
// @Tags        Menu
// @Produce     json
// @Param       category_id  query  string  false  "Filter by category"
// @Param       available    query  bool    false  "Only available items"
// @Success     200  {array}  domain.MenuItem
// @Router      /menu/items [get]
func (h *Handlers) ListMenuItems(c *gin.Context) {
	filter := repo.MenuItemFilter{
		CategoryID:    c.Query("category_id"),
		AvailableOnly: c.Query("available") == "true",
	}
	items, err := h.menuSvc.ListItems(c.Request.Context(), filter)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list menu items")
		return
	}
	ok(c, http.StatusOK, items)
}

// GetMenuItem godoc
// @ID          getMenuItem
// @Summary     Fetch one menu item
// @Tags        Menu
// @Produce     json
// @Param       id  path  string  true  "Menu item ID"
// @Success     200  {object}  domain.MenuItem
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /menu/items/{id} [get]
func (h *Handlers) GetMenuItem(c *gin.Context) {
	item, err := h.menuSvc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "menu item not found")
		return
	}
	ok(c, http.StatusOK, item)
}

// CreateCategory godoc
// @ID          createCategory
// @Summary     Create a category
// @Tags        Menu
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CategoryRequest  true  "Category"
// @Success     201  {object}  domain.Category
// @Failure     409  {object}  handlers.ErrorResponse "Name already exists"
// @Router      /admin/menu/categories [post]
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	cat, err := h.menuSvc.CreateCategory(c.Request.Context(), req.Name, req.Position)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			fail(c, http.StatusConflict, ErrCodeConflict, "category name already exists")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category name required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create category")
		}
		return
	}
	ok(c, http.StatusCreated, cat)
}

// UpdateCategory godoc
// @ID          updateCategory
// @Summary     Rename, reorder, or toggle a category
// @Tags        Menu
// @Accept      json
// @Produce     json
// @Param       id    path  string                    true  "Category ID"
// @Param       body  body  handlers.CategoryRequest  true  "Category"
// @Success     200  {object}  domain.Category
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/menu/categories/{id} [put]
func (h *Handlers) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	cat, err := h.menuSvc.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name, req.Position, active)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category name required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update category")
		}
		return
	}
	ok(c, http.StatusOK, cat)
}

// DeleteCategory godoc
// @ID          deleteCategory
// @Summary     Delete a category
// @Tags        Menu
// @Param       id  path  string  true  "Category ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/menu/categories/{id} [delete]
func (h *Handlers) DeleteCategory(c *gin.Context) {
	if err := h.menuSvc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		return
	}
	noContent(c)
}

// CreateMenuItem godoc
// @ID          createMenuItem
// @Summary     Create a menu item
// @Tags        Menu
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.MenuItemRequest  true  "Menu item"
// @Success     201  {object}  domain.MenuItem
// @Failure     404  {object}  handlers.ErrorResponse "Category not found"
// @Router      /admin/menu/items [post]
func (h *Handlers) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	item := &domain.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Position:    req.Position,
		Available:   true,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	created, err := h.menuSvc.CreateItem(c.Request.Context(), item)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and a positive price are required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not create menu item")
		}
		return
	}
	ok(c, http.StatusCreated, created)
}

// UpdateMenuItem godoc
// @ID          updateMenuItem
// @Summary     Partially update a menu item
// @Tags        Menu
// @Accept      json
// @Produce     json
// @Param       id    path  string                  true  "Menu item ID"
// @Param       body  body  handlers.MenuItemPatch  true  "Fields to change"
// @Success     200  {object}  domain.MenuItem
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/menu/items/{id} [patch]
func (h *Handlers) UpdateMenuItem(c *gin.Context) {
	var req MenuItemPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	fields := map[string]any{}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}

	item, err := h.menuSvc.UpdateItem(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMenuItemNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "menu item not found")
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		case errors.Is(err, services.ErrInvalidSetting):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "no valid fields to update")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not update menu item")
		}
		return
	}
	ok(c, http.StatusOK, item)
}

// SetMenuItemAvailability godoc
// @ID          setMenuItemAvailability
// @Summary     Toggle the sold-out switch for an item
// @Tags        Menu
// @Accept      json
// @Param       id    path  string                        true  "Menu item ID"
// @Param       body  body  handlers.AvailabilityRequest  true  "Availability"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/menu/items/{id}/availability [put]
func (h *Handlers) SetMenuItemAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "available flag required")
		return
	}
	if err := h.menuSvc.SetAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "menu item not found")
		return
	}
	noContent(c)
}

// DeleteMenuItem godoc
// @ID          deleteMenuItem
// @Summary     Delete a menu item
// @Tags        Menu
// @Param       id  path  string  true  "Menu item ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/menu/items/{id} [delete]
func (h *Handlers) DeleteMenuItem(c *gin.Context) {
	if err := h.menuSvc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "menu item not found")
		return
	}
	noContent(c)
}

// ImportMenu godoc
// @ID          importMenu
// @Summary     Bulk-import menu items from a spreadsheet
// @Description Accepts an .xlsx upload under the "file" form field. Bad rows
// @Description are skipped and reported, never aborting the whole import.
// @Tags        Menu
// @Accept      multipart/form-data
// @Produce     json
// @Param       file  formData  file  true  "Workbook"
// @Success     200  {object}  services.ImportResult
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /admin/menu/import [post]
func (h *Handlers) ImportMenu(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file form field required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read upload")
		return
	}
	defer f.Close()

	res, err := h.menuSvc.ImportXLSX(c.Request.Context(), f)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeImportFailed, "not a readable workbook")
		return
	}
	ok(c, http.StatusOK, res)
}

// ExportMenu godoc
// @ID          exportMenu
// @Summary     Export the full menu as a spreadsheet
// @Tags        Menu
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success     200  {file}  file
// @Router      /admin/menu/export [get]
func (h *Handlers) ExportMenu(c *gin.Context) {
	filename := "menu-" + time.Now().UTC().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.menuSvc.ExportXLSX(c.Request.Context(), c.Writer); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "export failed")
	}
}
