package http

import (
	"context"
	"errors"
	"net/http"
	"stock-screener/internal/dto"
	"stock-screener/internal/repository"
	"stock-screener/internal/service"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	log       *logger.Logger
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, log *logger.Logger) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		log:       log,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	h.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
	})

	base := h.echo.Group("/api")
	h.SetupScreen(base)
	h.SetupStocks(base)
	h.SetupPresets(base)
	h.SetupJobs(base)
}

// bind decodes and validates a request body into req.
func (h *HttpAPIHandler) bind(c echo.Context, req interface{}) *dto.BaseResponse {
	if err := c.Bind(req); err != nil {
		return dto.NewBadRequestResponse("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationResponse(err)
	}
	return nil
}

// validationResponse lists one "field: rule" entry per failed validation tag.
func validationResponse(err error) *dto.BaseResponse {
	var fieldErrs goValidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewBadRequestResponse(err.Error())
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details = append(details, fe.Namespace()+": "+rule)
	}
	return dto.NewBadRequestResponse("validation failed", details...)
}

// errorResponse maps service errors to status codes. Unknown errors are logged and reported as 500.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	var response *dto.BaseResponse
	switch {
	case errors.Is(err, repository.ErrStockNotFound),
		errors.Is(err, repository.ErrPresetNotFound),
		errors.Is(err, service.ErrJobNotFound):
		response = dto.NewErrorResponse(http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicatePreset):
		response = dto.NewErrorResponse(http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrNoPriceData):
		response = dto.NewErrorResponse(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response = dto.NewErrorResponse(http.StatusServiceUnavailable, "request cancelled")
	default:
		h.log.ErrorContext(c.Request().Context(), "Request failed",
			logger.ErrorField(err),
			logger.StringField("path", c.Path()),
		)
		response = dto.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(response.Code, response)
}
