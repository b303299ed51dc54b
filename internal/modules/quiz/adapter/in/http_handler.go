package in

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/quiz/dto"
	quizin "mindshelf/internal/modules/quiz/port/in"
	"mindshelf/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase quizin.Usecase
}

func NewHTTPHandler(usecase quizin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/quiz/sessions", h.Start)
	rg.GET("/quiz/sessions/:id", h.Get)
	rg.DELETE("/quiz/sessions/:id", h.Discard)
	rg.POST("/quiz/sessions/:id/answer", h.Answer)
	rg.POST("/quiz/sessions/:id/advance", h.Advance)
	rg.POST("/quiz/sessions/:id/retry", h.Retry)
}

// POST /api/quiz/sessions
func (h *HTTPHandler) Start(c *gin.Context) {
	var req dto.StartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.usecase.Start(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "quiz_start_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GET /api/quiz/sessions/:id
func (h *HTTPHandler) Get(c *gin.Context) {
	session, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondDomainError(c, "quiz_not_found", err)
		return
	}
	httpx.RespondOK(c, gin.H{"session": session})
}

// POST /api/quiz/sessions/:id/answer
func (h *HTTPHandler) Answer(c *gin.Context) {
	var req dto.AnswerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.SessionID = c.Param("id")
	session, err := h.usecase.Answer(c.Request.Context(), req)
	if err != nil {
		httpx.RespondDomainError(c, "quiz_answer_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"session": session})
}

// POST /api/quiz/sessions/:id/advance
func (h *HTTPHandler) Advance(c *gin.Context) {
	session, err := h.usecase.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondDomainError(c, "quiz_advance_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"session": session})
}

// POST /api/quiz/sessions/:id/retry
func (h *HTTPHandler) Retry(c *gin.Context) {
	session, err := h.usecase.Retry(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpx.RespondDomainError(c, "quiz_retry_failed", err)
		return
	}
	httpx.RespondOK(c, gin.H{"session": session})
}

// DELETE /api/quiz/sessions/:id
func (h *HTTPHandler) Discard(c *gin.Context) {
	if err := h.usecase.Discard(c.Request.Context(), c.Param("id")); err != nil {
		httpx.RespondDomainError(c, "quiz_discard_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
