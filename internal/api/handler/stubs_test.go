package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

var (
	poster = domain.Identity{ID: "p1", Role: domain.RolePoster, Name: "Ann"}
	worker = domain.Identity{ID: "w1", Role: domain.RoleWorker, Name: "Bea"}
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newRequest builds a context for method and target. A JSON body switches
// the request to a JSON client; a form body to a browser form post.
func newRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	switch {
	case strings.HasPrefix(body, "{"):
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	case body != "":
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asJSONClient(c echo.Context) {
	c.Request().Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
}

func signIn(c echo.Context, id domain.Identity) {
	c.Set(middleware.KeyUserID, id.ID)
	c.Set(middleware.KeyRole, id.Role)
	c.Set(middleware.KeyName, id.Name)
}

type stubAuthService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (string, *domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ParseToken(string) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrInvalidCredentials
}

type stubPhotos struct {
	name string
	err  error
}

func (s *stubPhotos) SavePhoto(filename string, r io.Reader) (string, error) {
	s.name = filename
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, r)
	return "/uploads/abc.png", nil
}

// stubJobService answers every call with the configured job and error.
type stubJobService struct {
	job   *domain.Job
	err   error
	input ports.JobInput
	id    string
	query string
	actor domain.Identity
}

func (s *stubJobService) record(actor domain.Identity, id string) {
	s.actor = actor
	s.id = id
}

func (s *stubJobService) CreateJob(_ context.Context, actor domain.Identity, in ports.JobInput) (*domain.Job, error) {
	s.record(actor, "")
	s.input = in
	return s.job, s.err
}

func (s *stubJobService) GetForEdit(_ context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	s.record(actor, id)
	return s.job, s.err
}

func (s *stubJobService) UpdateJob(_ context.Context, actor domain.Identity, id string, in ports.JobInput) (*domain.Job, error) {
	s.record(actor, id)
	s.input = in
	return s.job, s.err
}

func (s *stubJobService) Apply(_ context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	s.record(actor, id)
	return s.job, s.err
}

func (s *stubJobService) Complete(_ context.Context, actor domain.Identity, id string) (*domain.Job, error) {
	s.record(actor, id)
	return s.job, s.err
}

func (s *stubJobService) DeleteJob(_ context.Context, actor domain.Identity, id string) error {
	s.record(actor, id)
	return s.err
}

func (s *stubJobService) GetDetail(_ context.Context, actor domain.Identity, id string) (*ports.JobSummary, error) {
	s.record(actor, id)
	if s.err != nil {
		return nil, s.err
	}
	return &ports.JobSummary{Job: s.job}, nil
}

func (s *stubJobService) ListActive(_ context.Context, actor domain.Identity, query string) ([]ports.JobSummary, error) {
	s.record(actor, "")
	s.query = query
	return []ports.JobSummary{{Job: s.job}}, s.err
}

func (s *stubJobService) ListPast(_ context.Context, actor domain.Identity, query string) ([]ports.JobSummary, error) {
	s.record(actor, "")
	s.query = query
	return nil, s.err
}

func (s *stubJobService) ListAvailable(_ context.Context, actor domain.Identity, query string) (*ports.AvailableJobs, error) {
	s.record(actor, "")
	s.query = query
	return &ports.AvailableJobs{Jobs: []ports.JobSummary{{Job: s.job}}, WishlistIDs: []string{s.job.ID}}, s.err
}
