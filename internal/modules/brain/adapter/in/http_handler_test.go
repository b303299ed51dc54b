package in

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/brain/dto"
	apperrors "mindshelf/internal/platform/errors"
)

type fakeUsecase struct {
	content string
}

func (f *fakeUsecase) Get(context.Context) (dto.BrainOutput, error) {
	return dto.BrainOutput{Content: f.content}, nil
}

func (f *fakeUsecase) Edit(_ context.Context, input dto.EditInput) (dto.BrainOutput, error) {
	f.content = input.Content
	return dto.BrainOutput{Content: f.content, Revision: 1}, nil
}

func (f *fakeUsecase) Merge(_ context.Context, input dto.MergeInput) (dto.MergeOutput, error) {
	switch input.ItemID {
	case "fresh":
		return dto.MergeOutput{}, fmt.Errorf("%w: quiz not passed", apperrors.ErrMergeNotEligible)
	case "flaky":
		return dto.MergeOutput{}, fmt.Errorf("%w: model down", apperrors.ErrMergeFailed)
	}
	f.content += "\n\nmerged"
	return dto.MergeOutput{Brain: dto.BrainOutput{Content: f.content}, ItemID: input.ItemID, Proposal: "merged"}, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHTTPHandlerBrainRoutes(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	r := gin.New()
	NewHTTPHandler(uc).Register(r.Group("/api"))

	if w := do(r, http.MethodPut, "/api/brain", `{"content":"# Brain"}`); w.Code != http.StatusOK || uc.content != "# Brain" {
		t.Fatalf("edit: %d %q", w.Code, uc.content)
	}
	w := do(r, http.MethodPost, "/api/brain/merge", `{"item_id":"item-1"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"proposal":"merged"`) {
		t.Fatalf("merge: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/brain", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `# Brain\n\nmerged`) {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}
}

func TestHTTPHandlerBrainMergeErrors(t *testing.T) {
	t.Parallel()
	r := gin.New()
	NewHTTPHandler(&fakeUsecase{}).Register(r.Group("/api"))

	if w := do(r, http.MethodPost, "/api/brain/merge", `{"item_id":"fresh"}`); w.Code != http.StatusConflict {
		t.Fatalf("not eligible: expected 409, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/brain/merge", `{"item_id":"flaky"}`); w.Code != http.StatusBadGateway {
		t.Fatalf("proposal failure: expected 502, got %d", w.Code)
	}
}
