package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"resaleMarket/business/category"
	"resaleMarket/domain"
	"resaleMarket/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (domain.Category, error)
}

type CategoryHandler struct {
	categoryService CategoryService
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService, timeout time.Duration) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		timeout:         timeout,
	}
}

func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	categories, err := h.categoryService.GetAllCategories(ctx)
	if err != nil {
		logger.Error("Failed to find all categories", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get categories"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(categories))
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cat, err := h.categoryService.GetCategoryByID(ctx, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrInvalidCategoryID):
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		case errors.Is(err, category.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to find category", "category_id", categoryID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to get category"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cat))
}
