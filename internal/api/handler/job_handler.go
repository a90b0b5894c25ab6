package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/core/ports"
)

// JobHandler handles the job lifecycle routes.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

type jobRequest struct {
	Title       string   `form:"title" json:"title" validate:"required,max=200"`
	Description string   `form:"description" json:"description" validate:"required"`
	Wage        *float64 `form:"wage" json:"wage" validate:"required,gte=0"`
	Location    string   `form:"location" json:"location" validate:"required"`
	Deadline    string   `form:"deadline" json:"deadline"`
}

func (h *JobHandler) bindJob(c echo.Context) (ports.JobInput, error) {
	var req jobRequest
	if err := c.Bind(&req); err != nil {
		return ports.JobInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload: wage must be a number")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := c.Validate(&req); err != nil {
		return ports.JobInput{}, err
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return ports.JobInput{}, err
	}
	return ports.JobInput{
		Title:       req.Title,
		Description: req.Description,
		Wage:        *req.Wage,
		Location:    req.Location,
		Deadline:    deadline,
	}, nil
}

// NewForm renders the create-job form.
func (h *JobHandler) NewForm(c echo.Context) error {
	return render(c, "Create Job", nil)
}

// Create posts a new job.
//
// @Summary      Post a job
// @Tags         jobs
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      jobRequest  true  "Job"
// @Success      201   {object}  domain.Job
// @Success      302
// @Failure      400   {object}  ErrorBody
// @Failure      403   {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	in, err := h.bindJob(c)
	if err != nil {
		return err
	}

	job, err := h.service.CreateJob(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return done(c, "/jobs/active?created=1", http.StatusCreated, job)
}

// EditForm loads a job into its edit form. Poster only.
//
// @Summary      Load a job for editing
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  Page
// @Failure      403  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id}/edit [get]
func (h *JobHandler) EditForm(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	job, err := h.service.GetForEdit(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, "Edit Job: "+job.Title, job)
}

// Update overwrites the editable fields of a job. Poster only.
//
// @Summary      Edit a job
// @Tags         jobs
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string      true  "Job ID"
// @Param        body  body      jobRequest  true  "Job"
// @Success      200   {object}  domain.Job
// @Success      302
// @Failure      400   {object}  ErrorBody
// @Failure      403   {object}  ErrorBody
// @Failure      404   {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id}/edit [post]
func (h *JobHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	in, err := h.bindJob(c)
	if err != nil {
		return err
	}

	job, err := h.service.UpdateJob(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return done(c, "/jobs/active?updated=1", http.StatusOK, job)
}

// Active lists the actor's current jobs.
//
// @Summary      Active jobs
// @Description  Posters see their open and active jobs, workers the jobs they applied to.
// @Tags         jobs
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /jobs/active [get]
func (h *JobHandler) Active(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	jobs, err := h.service.ListActive(c.Request().Context(), actor, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return render(c, "Active Jobs", jobs)
}

// Past lists the actor's completed jobs.
//
// @Summary      Past jobs
// @Tags         jobs
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /jobs/past [get]
func (h *JobHandler) Past(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	jobs, err := h.service.ListPast(c.Request().Context(), actor, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return render(c, "Past Jobs", jobs)
}

// Available lists open jobs for workers.
//
// @Summary      Available jobs
// @Tags         jobs
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  Page
// @Failure      403  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/available [get]
func (h *JobHandler) Available(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	board, err := h.service.ListAvailable(c.Request().Context(), actor, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return render(c, "Available Jobs", board)
}

// Apply claims an open job for the acting worker.
//
// @Summary      Apply to a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Success      302
// @Failure      400  {object}  ErrorBody  "job not available"
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id}/apply [post]
func (h *JobHandler) Apply(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	job, err := h.service.Apply(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return done(c, "/jobs/active?applied=1", http.StatusOK, job)
}

// Complete marks a job completed.
//
// @Summary      Complete a job
// @Description  Allowed for the poster or the applied worker.
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Success      302
// @Failure      400  {object}  ErrorBody  "job already completed"
// @Failure      403  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id}/complete [post]
func (h *JobHandler) Complete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	job, err := h.service.Complete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return done(c, "/jobs/past?completed=1", http.StatusOK, job)
}

// Delete removes a job owned by the acting poster.
//
// @Summary      Delete a job
// @Tags         jobs
// @Param        id   path  string  true  "Job ID"
// @Success      204
// @Success      302
// @Failure      403  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id}/delete [post]
func (h *JobHandler) Delete(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteJob(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return done(c, "/jobs/active?deleted=1", http.StatusNoContent, nil)
}

// Detail shows a job with both parties. Poster or applied worker only.
//
// @Summary      Job detail
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  Page
// @Failure      403  {object}  ErrorBody
// @Failure      404  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /jobs/{id} [get]
func (h *JobHandler) Detail(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	summary, err := h.service.GetDetail(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return render(c, summary.Title, summary)
}
