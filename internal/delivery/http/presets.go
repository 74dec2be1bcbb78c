package http

import (
	"net/http"
	"stock-screener/internal/dto"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPresets(base *echo.Group) {
	v1 := base.Group("/v1/presets")
	{
		v1.GET("", h.ListPresets)
		v1.POST("", h.CreatePreset)
		v1.GET("/:id", h.GetPreset)
		v1.PUT("/:id", h.UpdatePreset)
		v1.DELETE("/:id", h.DeletePreset)
		v1.POST("/:id/screen", h.ScreenPreset)
	}
}

func presetID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidPresetID(c echo.Context) error {
	resp := dto.NewBadRequestResponse("invalid preset id")
	return c.JSON(resp.Code, resp)
}

func (h *HttpAPIHandler) ListPresets(c echo.Context) error {
	presets, err := h.service.PresetService.List(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Presets retrieved", presets))
}

func (h *HttpAPIHandler) CreatePreset(c echo.Context) error {
	req := new(dto.UpsertPresetRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	preset, err := h.service.PresetService.Create(c.Request().Context(), *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewCreatedResponse("Preset created", preset))
}

func (h *HttpAPIHandler) GetPreset(c echo.Context) error {
	id, ok := presetID(c)
	if !ok {
		return invalidPresetID(c)
	}
	preset, err := h.service.PresetService.Get(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Preset retrieved", preset))
}

func (h *HttpAPIHandler) UpdatePreset(c echo.Context) error {
	id, ok := presetID(c)
	if !ok {
		return invalidPresetID(c)
	}
	req := new(dto.UpsertPresetRequest)
	if resp := h.bind(c, req); resp != nil {
		return c.JSON(resp.Code, resp)
	}

	preset, err := h.service.PresetService.Update(c.Request().Context(), id, *req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Preset updated", preset))
}

func (h *HttpAPIHandler) DeletePreset(c echo.Context) error {
	id, ok := presetID(c)
	if !ok {
		return invalidPresetID(c)
	}
	if err := h.service.PresetService.Delete(c.Request().Context(), id); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Preset deleted", nil))
}

func (h *HttpAPIHandler) ScreenPreset(c echo.Context) error {
	id, ok := presetID(c)
	if !ok {
		return invalidPresetID(c)
	}
	result, err := h.service.ScreenerService.ScreenPreset(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Screen completed", result))
}
