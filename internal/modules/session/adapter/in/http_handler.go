package in

import (
	"github.com/gin-gonic/gin"

	sessionin "mindshelf/internal/modules/session/port/in"
	"mindshelf/internal/platform/httpx"
)

// HTTPHandler only reports the session the server was started with;
// switching sessions requires a restart.
type HTTPHandler struct {
	usecase sessionin.Usecase
}

func NewHTTPHandler(usecase sessionin.Usecase) *HTTPHandler {
	return &HTTPHandler{usecase: usecase}
}

func (h *HTTPHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/session", h.Current)
}

// GET /api/session
func (h *HTTPHandler) Current(c *gin.Context) {
	s, err := h.usecase.Current(c.Request.Context())
	if err != nil {
		httpx.RespondDomainError(c, "no_active_session", err)
		return
	}
	httpx.RespondOK(c, gin.H{"session": s})
}
