package in

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mindshelf/internal/modules/activity/dto"
	apperrors "mindshelf/internal/platform/errors"
)

type fakeUsecase struct {
	posted []string
	limit  int
}

func (f *fakeUsecase) Record(context.Context) (dto.RecordOutput, error) {
	return dto.RecordOutput{Day: "2026-04-01", Count: 1}, nil
}

func (f *fakeUsecase) RecordOn(_ context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	return dto.RecordOutput{Day: input.Day, Count: 1}, nil
}

func (f *fakeUsecase) Summary(context.Context) (dto.SummaryOutput, error) {
	return dto.SummaryOutput{Total: 6, Level: 2, Streak: 1}, nil
}

func (f *fakeUsecase) PostEntry(_ context.Context, input dto.PostEntryInput) (dto.JournalEntryOutput, error) {
	if strings.TrimSpace(input.Body) == "" {
		return dto.JournalEntryOutput{}, fmt.Errorf("%w: body", apperrors.ErrInvalidInput)
	}
	f.posted = append(f.posted, input.Body)
	return dto.JournalEntryOutput{ID: "j1", Body: input.Body}, nil
}

func (f *fakeUsecase) ListEntries(_ context.Context, limit int) ([]dto.JournalEntryOutput, error) {
	f.limit = limit
	return []dto.JournalEntryOutput{{ID: "j1", Body: "hi"}}, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newRouter(uc *fakeUsecase) *gin.Engine {
	r := gin.New()
	NewHTTPHandler(uc).Register(r.Group("/api"))
	return r
}

func TestHTTPHandlerSummaryAndJournal(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	r := newRouter(uc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Activity dto.SummaryOutput `json:"activity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Activity.Level != 2 {
		t.Fatalf("unexpected summary: %+v", body.Activity)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/journal", strings.NewReader(`{"body":"read two papers"}`)))
	if rec.Code != http.StatusCreated || len(uc.posted) != 1 {
		t.Fatalf("expected 201 and one post, got %d / %v", rec.Code, uc.posted)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/journal?limit=7", nil))
	if rec.Code != http.StatusOK || uc.limit != 7 {
		t.Fatalf("expected limit 7, got %d (status %d)", uc.limit, rec.Code)
	}
}

func TestHTTPHandlerMapsInvalidInput(t *testing.T) {
	t.Parallel()
	r := newRouter(&fakeUsecase{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/journal", strings.NewReader(`{"body":"  "}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "post_journal_failed") {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}
