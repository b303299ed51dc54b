package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
	"mindshelf/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase libraryin.Usecase
}

func NewHTTPHandler(usecase libraryin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/items", h.ListItems)
	rg.POST("/items/url", h.IngestURL)
	rg.POST("/items/document", h.IngestDocument)
	rg.GET("/items/:id", h.GetItem)
	rg.DELETE("/items/:id", h.Delete)
	rg.PATCH("/items/:id/status", h.UpdateStatus)
	rg.POST("/items/:id/reanalyze", h.Reanalyze)
	rg.POST("/items/:id/highlights", h.ApplyHighlight)
	rg.GET("/tags", h.ListTags)
	rg.POST("/reindex", h.Reindex)
}

// GET /api/items
func (h *HTTPHandler) ListItems(c *gin.Context) {
	items, err := h.usecase.ListItems(c.Request.Context())
	if err != nil {
		httpx.RespondDomainError(c, "list_items_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"items": items})
}

// POST /api/items/url
func (h *HTTPHandler) IngestURL(c *gin.Context) {
	var req dto.IngestURLInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := h.usecase.IngestURL(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "ingest_url_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"item": item})
}

// POST /api/items/document
func (h *HTTPHandler) IngestDocument(c *gin.Context) {
	var req dto.IngestDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := h.usecase.IngestDocument(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "ingest_document_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"item": item})
}

// GET /api/items/:id
func (h *HTTPHandler) GetItem(c *gin.Context) {
	item, err := h.usecase.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondDomainError(c, "item_not_found", err)
		return
	}
	httpx.RespondOK(c, gin.H{"item": item})
}

// DELETE /api/items/:id
func (h *HTTPHandler) Delete(c *gin.Context) {
	if err := h.usecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpx.RespondDomainError(c, "delete_item_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PATCH /api/items/:id/status
func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.ItemID = c.Param("id")
	item, err := h.usecase.UpdateStatus(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "update_status_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"item": item})
}

// POST /api/items/:id/reanalyze
func (h *HTTPHandler) Reanalyze(c *gin.Context) {
	item, err := h.usecase.Reanalyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondDomainError(c, "reanalyze_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"item": item})
}

// POST /api/items/:id/highlights
func (h *HTTPHandler) ApplyHighlight(c *gin.Context) {
	var req dto.HighlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.ItemID = c.Param("id")
	item, err := h.usecase.ApplyHighlight(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "highlight_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"item": item})
}

// GET /api/tags
func (h *HTTPHandler) ListTags(c *gin.Context) {
	tags, err := h.usecase.ListTags(c.Request.Context())
	if err != nil {
		httpx.RespondDomainError(c, "list_tags_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"tags": tags})
}

// POST /api/reindex
func (h *HTTPHandler) Reindex(c *gin.Context) {
	if err := h.usecase.Reindex(c.Request.Context(), dto.ReindexInput{}); err != nil {
		httpx.RespondDomainError(c, "reindex_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
