package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/reader/dto"
	readerin "mindshelf/internal/modules/reader/port/in"
	"mindshelf/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase readerin.Usecase
}

func NewHTTPHandler(usecase readerin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/reader/:id/open", h.Open)
	rg.POST("/reader/:id/highlights", h.Highlight)
}

// POST /api/reader/:id/open
func (h *HTTPHandler) Open(c *gin.Context) {
	var req dto.OpenInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	req.ItemID = c.Param("id")
	doc, err := h.usecase.Open(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "reader_open_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"document": doc})
}

// POST /api/reader/:id/highlights
func (h *HTTPHandler) Highlight(c *gin.Context) {
	var req dto.HighlightInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.ItemID = c.Param("id")
	doc, err := h.usecase.Highlight(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "reader_highlight_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"document": doc})
}
