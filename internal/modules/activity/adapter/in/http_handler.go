package in

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/activity/dto"
	activityin "mindshelf/internal/modules/activity/port/in"
	"mindshelf/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase activityin.Usecase
}

func NewHTTPHandler(usecase activityin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/activity", h.Summary)
	rg.GET("/journal", h.ListEntries)
	rg.POST("/journal", h.PostEntry)
}

// GET /api/activity
func (h *HTTPHandler) Summary(c *gin.Context) {
	summary, err := h.usecase.Summary(c.Request.Context())
	if err != nil {
		httpx.RespondDomainError(c, "activity_summary_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"activity": summary})
}

// GET /api/journal?limit=50
func (h *HTTPHandler) ListEntries(c *gin.Context) {
	limit := 50
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	entries, err := h.usecase.ListEntries(c.Request.Context(), limit)
	if err != nil {
		httpx.RespondDomainError(c, "list_journal_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"entries": entries})
}

// POST /api/journal
func (h *HTTPHandler) PostEntry(c *gin.Context) {
	var req dto.PostEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry, err := h.usecase.PostEntry(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "post_journal_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}
