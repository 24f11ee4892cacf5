package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/logger"
	"github.com/animeshelf/animeshelf/backend/catalog-service/pkg/metrics"
)

// APIHandler serves the read-only JSON mirror of the catalog.
type APIHandler struct {
	svc *catalog.Service
}

func NewAPIHandler(svc *catalog.Service) *APIHandler {
	return &APIHandler{svc: svc}
}

func (h *APIHandler) Register(r *gin.Engine) {
	r.GET("/api", h.Catalog)
	r.GET("/catalog/api", h.Catalog)
	r.GET("/api/:categoryID", h.Category)
	r.GET("/api/:categoryID/:itemID", h.Item)
}

// Catalog returns every category with its items.
func (h *APIHandler) Catalog(c *gin.Context) {
	metrics.APIRequests.WithLabelValues("catalog").Inc()
	ctx := c.Request.Context()
	cats, err := h.svc.ListCategories(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}
	out := make([]models.CategoryView, 0, len(cats))
	for _, cat := range cats {
		view := cat.Serialize()
		items, err := h.svc.ItemsByCategory(ctx, cat.ID)
		if err != nil {
			h.serverError(c, err)
			return
		}
		for _, i := range items {
			view.Items = append(view.Items, i.Serialize())
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"Categories": out})
}

// Category returns the items of one category.
func (h *APIHandler) Category(c *gin.Context) {
	metrics.APIRequests.WithLabelValues("category").Inc()
	id, ok := parseID(c.Param("categoryID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}
	items, err := h.svc.ItemsByCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	views := make([]models.ItemView, 0, len(items))
	for _, i := range items {
		views = append(views, i.Serialize())
	}
	c.JSON(http.StatusOK, gin.H{"Items": views})
}

// Item returns a single item. The item must belong to the category in the
// path; a mismatch is treated the same as an unknown item.
func (h *APIHandler) Item(c *gin.Context) {
	metrics.APIRequests.WithLabelValues("item").Inc()
	catID, ok1 := parseID(c.Param("categoryID"))
	itemID, ok2 := parseID(c.Param("itemID"))
	if !ok1 || !ok2 {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	item, err := h.svc.GetItem(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		h.serverError(c, err)
		return
	}
	if item.CategoryID != catID {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"Item": item.Serialize()})
}

func (h *APIHandler) serverError(c *gin.Context, err error) {
	logger.Errorf("api handler: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
