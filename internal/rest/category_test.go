package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resaleMarket/business/category"
	"resaleMarket/domain"

	"github.com/labstack/echo/v4"
)

type fakeCategoryService struct {
	err error
}

func (f *fakeCategoryService) GetAllCategories(context.Context) ([]domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Category{{ID: 1, Name: "Jeans"}}, nil
}

func (f *fakeCategoryService) GetCategoryByID(_ context.Context, id int64) (domain.Category, error) {
	if f.err != nil {
		return domain.Category{}, f.err
	}
	return domain.Category{ID: id, Name: "Jeans"}, nil
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{"ok", "1", nil, http.StatusOK},
		{"not numeric", "abc", nil, http.StatusBadRequest},
		{"invalid", "0", category.ErrInvalidCategoryID, http.StatusBadRequest},
		{"missing", "9", category.ErrCategoryNotFound, http.StatusNotFound},
		{"db error", "2", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCategoryHandler(&fakeCategoryService{err: tt.err}, time.Second)

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			c.SetPath("/api/v1/categories/:id")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)

			if err := h.GetCategoryByID(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestCategoryHandler_GetAllCategories(t *testing.T) {
	h := NewCategoryHandler(&fakeCategoryService{}, time.Second)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil), rec)

	if err := h.GetAllCategories(c); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
