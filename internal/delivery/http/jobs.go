package http

import (
	"net/http"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.GET("", h.ListJobs)
		v1.POST("/run", h.RunJobs)
	}
}

func (h *HttpAPIHandler) ListJobs(c echo.Context) error {
	param := new(model.GetJobParam)
	if err := c.Bind(param); err != nil {
		resp := dto.NewBadRequestResponse("invalid query")
		return c.JSON(resp.Code, resp)
	}
	if param.WithTaskHistory == nil {
		limit := 5
		param.WithTaskHistory = &model.GetTaskExecutionHistoryParam{Limit: &limit}
	}

	jobs, err := h.service.SchedulerService.GetJobSchedule(c.Request().Context(), *param)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Jobs retrieved", jobs))
}

// RunJobs starts one job when job_id is given, otherwise every due schedule.
func (h *HttpAPIHandler) RunJobs(c echo.Context) error {
	req := new(dto.RunJobRequest)
	if c.Request().ContentLength > 0 {
		if err := c.Bind(req); err != nil {
			resp := dto.NewBadRequestResponse("invalid request body")
			return c.JSON(resp.Code, resp)
		}
	}

	ctx := c.Request().Context()
	if req.JobID != 0 {
		if err := h.service.SchedulerService.RunJobTask(ctx, req.JobID); err != nil {
			return h.errorResponse(c, err)
		}
		return c.JSON(http.StatusAccepted, dto.NewAcceptedResponse("Job started", req))
	}

	if err := h.service.SchedulerService.Execute(ctx); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Start running jobs", nil))
}
