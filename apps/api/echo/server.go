package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ecowaste/dashboard/core"
	"github.com/ecowaste/dashboard/core/chat"
	"github.com/ecowaste/dashboard/core/classify"
	"github.com/ecowaste/dashboard/core/orchestrator"
	"github.com/ecowaste/dashboard/core/quiz"
	"github.com/ecowaste/dashboard/core/rewards"
	metricsvc "github.com/ecowaste/dashboard/services/metrics"
)

type (
	// HealthChecker reports whether the backend answers.
	HealthChecker interface {
		Health(ctx context.Context) (*orchestrator.Health, error)
	}

	Options struct {
		Conf        *core.Config
		Logger      core.Logger
		Validate    *validator.Validate
		Translator  ut.Translator
		Metrics     *metricsvc.Service
		Upstream    HealthChecker
		QuizSvc     *quiz.Service
		ClassifySvc *classify.Service
		ChatSvc     *chat.Service
		RewardsSvc  *rewards.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if s.opts.Metrics != nil {
		s.app.Use(metricsMiddleware(s.opts.Metrics))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.Metrics)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home(conf.AppName))
	s.app.GET("/health", health(s.opts.Upstream))
	if s.opts.Metrics != nil {
		s.app.GET("/metrics", echo.WrapHandler(s.opts.Metrics.Handler()))
	}

	var recorder quiz.Recorder
	if s.opts.Metrics != nil {
		recorder = s.opts.Metrics
	}

	v1 := s.app.Group("/v1")
	auth := bearerAuth(conf.Server.RequireAuth)

	registerQuizAPI(v1, auth, s.opts.QuizSvc, recorder, s.opts.Validate, s.opts.Translator)
	registerClassifyAPI(v1, auth, s.opts.ClassifySvc, s.opts.Validate)
	registerChatAPI(v1, auth, s.opts.ChatSvc, s.opts.Validate)
	registerRewardsAPI(v1, auth, s.opts.RewardsSvc, s.opts.Validate)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(appName string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Welcome to "+appName+" API!")
	}
}
