package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/logger"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/metrics"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/middleware"
)

const latestItemCount = 10

// CatalogHandler serves the browsable HTML catalog: public reads plus
// owner-gated create/edit/delete.
type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Register wires the catalog routes. The :id segment is a category id on
// browse/new routes and an item id on edit/delete routes, matching the
// original URL scheme.
func (h *CatalogHandler) Register(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/catalog", h.Index)
	r.GET("/catalog/:id", h.Category)
	r.GET("/catalog/:id/:itemID", h.Item)

	gate := middleware.RequireLogin()
	r.GET("/catalog/:id/new", gate, h.NewItemForm)
	r.POST("/catalog/:id/new", gate, h.CreateItem)
	r.GET("/catalog/:id/edit", gate, h.EditItemForm)
	r.POST("/catalog/:id/edit", gate, h.EditItem)
	r.GET("/catalog/:id/delete", gate, h.DeleteItemForm)
	r.POST("/catalog/:id/delete", gate, h.DeleteItem)
}

// Index shows all categories and the ten latest items.
func (h *CatalogHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	cats, err := h.svc.ListCategories(ctx)
	if err != nil {
		logger.Errorf("index: list categories: %v", err)
		errorPage(c, http.StatusInternalServerError)
		return
	}
	latest, err := h.svc.LatestItems(ctx, latestItemCount)
	if err != nil {
		logger.Errorf("index: latest items: %v", err)
		errorPage(c, http.StatusInternalServerError)
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", pageData(c, gin.H{"Categories": cats, "Latest": latest}))
}

// Category shows the items of one category.
func (h *CatalogHandler) Category(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	cat, err := h.svc.GetCategory(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	items, err := h.svc.ItemsByCategory(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "category.tmpl", pageData(c, gin.H{"Category": cat, "Items": items}))
}

// Item shows one item's detail page.
func (h *CatalogHandler) Item(c *gin.Context) {
	ctx := c.Request.Context()
	catID, ok1 := parseID(c.Param("id"))
	itemID, ok2 := parseID(c.Param("itemID"))
	if !ok1 || !ok2 {
		notFoundPage(c)
		return
	}
	cat, err := h.svc.GetCategory(ctx, catID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	item, err := h.svc.GetItem(ctx, itemID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	isOwner := false
	if s := middleware.CurrentSession(c); s != nil && s.UserID == item.UserID {
		isOwner = true
	}
	c.HTML(http.StatusOK, "item.tmpl", pageData(c, gin.H{"Item": item, "Category": cat, "IsOwner": isOwner}))
}

func (h *CatalogHandler) NewItemForm(c *gin.Context) {
	catID, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	cats, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "new.tmpl", pageData(c, gin.H{"Categories": cats, "CategoryID": catID}))
}

// CreateItem handles the new-item form post. The category comes from the
// form select, falling back to the path segment.
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	ctx := c.Request.Context()
	s := middleware.CurrentSession(c)
	catID, ok := parseID(c.PostForm("category"))
	if !ok {
		catID, ok = parseID(c.Param("id"))
		if !ok {
			notFoundPage(c)
			return
		}
	}
	item, err := h.svc.CreateItem(ctx, s.UserID, catID, c.PostForm("name"), c.PostForm("description"))
	if err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			cats, lerr := h.svc.ListCategories(ctx)
			if lerr != nil {
				h.renderError(c, lerr)
				return
			}
			middleware.SetFlash(c, "Name is required.")
			c.HTML(http.StatusBadRequest, "new.tmpl", pageData(c, gin.H{"Categories": cats, "CategoryID": catID}))
			return
		}
		h.renderError(c, err)
		return
	}
	metrics.ItemWrites.WithLabelValues("create").Inc()
	middleware.SetFlash(c, "Item successfully created.")
	c.Redirect(http.StatusFound, itemURL(item))
}

func (h *CatalogHandler) EditItemForm(c *gin.Context) {
	ctx := c.Request.Context()
	itemID, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	item, err := h.svc.GetItem(ctx, itemID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	// only the owner sees the form; everyone else lands on the detail view
	s := middleware.CurrentSession(c)
	if s.UserID != item.UserID {
		c.Redirect(http.StatusFound, itemURL(item))
		return
	}
	cats, err := h.svc.ListCategories(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit.tmpl", pageData(c, gin.H{"Item": item, "Categories": cats}))
}

func (h *CatalogHandler) EditItem(c *gin.Context) {
	ctx := c.Request.Context()
	itemID, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	s := middleware.CurrentSession(c)
	fields := catalog.EditFields{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}
	if catID, ok := parseID(c.PostForm("category")); ok {
		fields.CategoryID = catID
	}
	item, err := h.svc.EditItem(ctx, itemID, s.UserID, fields)
	if err != nil {
		if errors.Is(err, catalog.ErrForbidden) {
			h.redirectToItem(c, itemID)
			return
		}
		h.renderError(c, err)
		return
	}
	metrics.ItemWrites.WithLabelValues("update").Inc()
	middleware.SetFlash(c, "Item successfully updated.")
	c.Redirect(http.StatusFound, itemURL(item))
}

func (h *CatalogHandler) DeleteItemForm(c *gin.Context) {
	ctx := c.Request.Context()
	itemID, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	item, err := h.svc.GetItem(ctx, itemID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	s := middleware.CurrentSession(c)
	if s.UserID != item.UserID {
		c.Redirect(http.StatusFound, itemURL(item))
		return
	}
	c.HTML(http.StatusOK, "delete.tmpl", pageData(c, gin.H{"Item": item}))
}

func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	itemID, ok := parseID(c.Param("id"))
	if !ok {
		notFoundPage(c)
		return
	}
	s := middleware.CurrentSession(c)
	item, err := h.svc.GetItem(ctx, itemID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if err := h.svc.DeleteItem(ctx, itemID, s.UserID); err != nil {
		if errors.Is(err, catalog.ErrForbidden) {
			c.Redirect(http.StatusFound, itemURL(item))
			return
		}
		h.renderError(c, err)
		return
	}
	metrics.ItemWrites.WithLabelValues("delete").Inc()
	middleware.SetFlash(c, "Item successfully deleted.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/catalog/%d", item.CategoryID))
}

func (h *CatalogHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		notFoundPage(c)
		return
	}
	logger.Errorf("catalog handler: %v", err)
	errorPage(c, http.StatusInternalServerError)
}

func (h *CatalogHandler) redirectToItem(c *gin.Context, itemID uint) {
	item, err := h.svc.GetItem(c.Request.Context(), itemID)
	if err != nil {
		notFoundPage(c)
		return
	}
	c.Redirect(http.StatusFound, itemURL(item))
}

func itemURL(i *models.Item) string {
	return fmt.Sprintf("/catalog/%d/%d", i.CategoryID, i.ID)
}
