package http

import (
	"net/http"
	"stock-screener/internal/dto"
	"strings"

	"github.com/labstack/echo/v4"
)

type listStocksQuery struct {
	Symbols        string `query:"symbols"`
	Sector         string `query:"sector"`
	WithIndicators bool   `query:"with_indicators"`
}

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	v1 := base.Group("/v1/stocks")
	{
		v1.GET("", h.ListStocks)
		v1.GET("/:symbol", h.GetStock)
		v1.GET("/:symbol/indicators", h.GetStockIndicators)
		v1.GET("/:symbol/history", h.GetStockHistory)
		v1.POST("/:symbol/indicators/refresh", h.RefreshStockIndicators)
	}
}

func (h *HttpAPIHandler) ListStocks(c echo.Context) error {
	query := new(listStocksQuery)
	if err := c.Bind(query); err != nil {
		resp := dto.NewBadRequestResponse("invalid query")
		return c.JSON(resp.Code, resp)
	}

	var symbols []string
	if query.Symbols != "" {
		symbols = strings.Split(query.Symbols, ",")
	}
	stocks, err := h.service.StockService.List(c.Request().Context(), dto.GetStocksParam{
		Symbols:        symbols,
		Sector:         query.Sector,
		WithIndicators: query.WithIndicators,
	})
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stocks retrieved", stocks))
}

func (h *HttpAPIHandler) GetStock(c echo.Context) error {
	stock, err := h.service.StockService.Get(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Stock retrieved", stock))
}

func (h *HttpAPIHandler) GetStockIndicators(c echo.Context) error {
	indicators, err := h.service.StockService.Indicators(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Indicators retrieved", indicators))
}

func (h *HttpAPIHandler) GetStockHistory(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = dto.DefaultPeriod
	}
	history, err := h.service.StockService.History(c.Request().Context(), c.Param("symbol"), period)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("History retrieved", history))
}

func (h *HttpAPIHandler) RefreshStockIndicators(c echo.Context) error {
	indicators, err := h.service.IndicatorService.Refresh(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Indicators refreshed", indicators))
}
