package http

import (
	"fmt"
	"net/http"
	"stock-screener/internal/dto"
	"stock-screener/internal/service"
	"stock-screener/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupScreen(base *echo.Group) {
	v1 := base.Group("/v1/screen")
	{
		v1.POST("", h.Screen)
		v1.POST("/export", h.ExportScreen)
	}
}

func (h *HttpAPIHandler) Screen(c echo.Context) error {
	req := new(dto.ScreenRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.ScreenerService.Screen(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Screen completed", result))
}

func (h *HttpAPIHandler) ExportScreen(c echo.Context) error {
	req := new(dto.ScreenRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	result, err := h.service.ScreenerService.Screen(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}

	filename := service.ExportFilename(utils.TimeNowWIB())
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set("X-Screen-Run-ID", result.RunID)
	c.Response().WriteHeader(http.StatusOK)
	return h.service.ScreenerService.ExportCSV(c.Response(), result.Stocks)
}
