package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/brain/dto"
	brainin "mindshelf/internal/modules/brain/port/in"
	"mindshelf/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase brainin.Usecase
}

func NewHTTPHandler(usecase brainin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/brain", h.Get)
	rg.PUT("/brain", h.Edit)
	rg.POST("/brain/merge", h.Merge)
}

// GET /api/brain
func (h *HTTPHandler) Get(c *gin.Context) {
	brain, err := h.usecase.Get(c.Request.Context())
	if err != nil {
		httpx.RespondDomainError(c, "brain_load_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"brain": brain})
}

// PUT /api/brain
func (h *HTTPHandler) Edit(c *gin.Context) {
	var req dto.EditInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	brain, err := h.usecase.Edit(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "brain_edit_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"brain": brain})
}

// POST /api/brain/merge
func (h *HTTPHandler) Merge(c *gin.Context) {
	var req dto.MergeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.usecase.Merge(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "brain_merge_failed", err)
		return
	}
	httpx.RespondOK(c, out)
}
