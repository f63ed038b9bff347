package echoapi

import (
	"context"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/blog"
	"github.com/Otsikow/bridge-study-global-sub004/core/contact"
	"github.com/Otsikow/bridge-study-global-sub004/core/transcription"
	"github.com/Otsikow/bridge-study-global-sub004/core/university"
	"github.com/Otsikow/bridge-study-global-sub004/services/metrics"
)

const (
	functionsPrefix = "/functions/v1"
	bodyLimit       = "26M"
)

var allowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type (
	Options struct {
		Address         string
		AppName         string
		Debug           bool
		TestMode        bool
		DisableReqLogs  bool
		AllowOrigins    []string
		TrustedProxies  []string // CIDRs whose X-Forwarded-For is honoured
		JWTSecret       string
		RequiredRole    string
		ContactRate     rate.Limit // events per second per client
		ContactBurst    int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	Deps struct {
		Logger     core.Logger
		AccessLog  *zap.Logger // optional
		Validate   *validator.Validate
		Translator ut.Translator

		SearchSvc          *university.SearchService
		UniversityImageSvc *university.ImageService
		BlogSvc            *blog.Service
		TranscriptionSvc   *transcription.Service
		ContactSvc         *contact.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts     Options
		deps     *Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

// NewOptions derives the server options from conf.
func NewOptions(conf *core.Config) Options {
	return Options{
		Address:         conf.Server.Address,
		AppName:         conf.AppName,
		Debug:           conf.Debug,
		TestMode:        conf.TestMode,
		DisableReqLogs:  conf.Server.DisableReqLogs,
		AllowOrigins:    conf.Server.AllowOrigins,
		TrustedProxies:  conf.Server.TrustedProxies,
		JWTSecret:       conf.Auth.JWTSecret,
		RequiredRole:    conf.Auth.RequiredRole,
		ContactRate:     rate.Limit(float64(conf.RateLimit.ContactPerMinute) / 60),
		ContactBurst:    conf.RateLimit.ContactBurst,
		ReadTimeout:     conf.Server.ReadTimeout,
		WriteTimeout:    conf.Server.WriteTimeout,
		ShutdownTimeout: conf.Server.ShutdownTimeout,
	}
}

func NewServer(opts Options, deps *Deps) Server {
	if deps.AccessLog == nil {
		deps.AccessLog = zap.NewNop()
	}
	if deps.Validate == nil || deps.Translator == nil {
		deps.Validate, deps.Translator = core.NewValidator()
	}
	if opts.RequiredRole == "" {
		opts.RequiredRole = "authenticated"
	}
	if len(opts.AllowOrigins) == 0 {
		opts.AllowOrigins = []string{"*"}
	}

	s := &server{
		opts:     opts,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Debug = s.opts.Debug
	s.app.Server.ReadTimeout = s.opts.ReadTimeout
	s.app.Server.WriteTimeout = s.opts.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.IPExtractor = s.ipExtractor()

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestID())
	s.app.Use(observe(s.deps.AccessLog, s.opts.DisableReqLogs))
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.opts.AllowOrigins,
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: allowedHeaders,
	}))
	s.app.Use(middleware.BodyLimit(bodyLimit))

	s.app.GET("/", s.home)
	s.app.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	s.app.GET("/debug/vars", echo.WrapHandler(expvar.Handler()))

	fg := s.app.Group(functionsPrefix)
	auth := authMiddleware(s.opts.JWTSecret)
	contactLimiter := rateLimitMiddleware(newVisitorLimiter(s.opts.ContactRate, s.opts.ContactBurst))

	registerUniversityAPI(fg, auth, requireRole(s.opts.RequiredRole), s.deps)
	registerBlogAPI(fg, auth, s.deps)
	registerTranscriptionAPI(fg, auth, s.deps)
	registerContactAPI(fg, contactLimiter, s.deps)
	registerAssistantAPI(fg, auth, s.deps)
}

// ipExtractor only trusts X-Forwarded-For when the peer is one of the configured proxies.
func (s *server) ipExtractor() echo.IPExtractor {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range s.opts.TrustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			s.deps.Logger.Warn(fmt.Sprintf("ignoring invalid trusted proxy %q: %v", cidr, err))
			continue
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	if len(opts) == 3 {
		return echo.ExtractIPDirect()
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
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

// signalShutdown asks the main goroutine to stop the server.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.AppName+" functions API!")
}
