package web

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/goserg/opponentanalyzer/internal/chesscom"
	"github.com/goserg/opponentanalyzer/internal/config"
	"github.com/goserg/opponentanalyzer/internal/domain"
	"github.com/goserg/opponentanalyzer/internal/metrics"
	"github.com/goserg/opponentanalyzer/internal/service"
	"github.com/goserg/opponentanalyzer/internal/web/webpath"
)

type Server struct {
	analyzer *service.Analyzer
	session  *service.Session
	channel  service.Requester
	app      *fiber.App
	cfg      config.Server
	now      func() time.Time
	log      *logrus.Entry
}

func New(
	analyzer *service.Analyzer,
	session *service.Session,
	requester service.Requester,
	m *metrics.Metrics,
	cfg config.Server,
	l *logrus.Logger,
) *Server {
	server := Server{
		analyzer: analyzer,
		session:  session,
		channel:  requester,
		cfg:      cfg,
		now:      time.Now,
		log:      l.WithField("from", "web"),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: !cfg.Debug,
		ErrorHandler:          server.handleError,
	})
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		server.log.WithFields(logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"elapsed": time.Since(start),
		}).Debug("request")
		return err
	})

	app.Get(webpath.Home, func(ctx *fiber.Ctx) error {
		return ctx.Redirect(webpath.Api)
	})
	app.Get(webpath.Api, func(ctx *fiber.Ctx) error {
		return ctx.JSON(webpath.Path())
	})
	app.Get(webpath.ApiPlayer, server.handlePlayer)
	app.Post(webpath.ApiStats, server.handleStats)
	app.Post(webpath.ApiObservations, server.handleObservation)
	app.Get(webpath.ApiCurrent, server.handleCurrent)
	app.Get(webpath.ApiPreferences, server.handleGetPreferences)
	app.Put(webpath.ApiPreferences, server.handlePutPreferences)
	app.Get(webpath.ApiReports, server.handleReports)
	if m != nil {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		app.Get(webpath.Metrics, func(ctx *fiber.Ctx) error {
			metricsHandler(ctx.Context())
			return nil
		})
	}
	server.app = app
	return &server
}

func (s *Server) Serve() error {
	s.log.WithField("addr", s.cfg.Addr()).Info("listening")
	return s.app.Listen(s.cfg.Addr())
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, ErrBadRequest):
		code = fiber.StatusBadRequest
	}
	if code >= fiber.StatusInternalServerError {
		s.log.WithError(err).WithField("path", ctx.Path()).Error("request failed")
	}
	return writeError(ctx, code, err)
}

func (s *Server) handlePlayer(ctx *fiber.Ctx) error {
	username := ctx.Params("username")
	if err := validateUserName(username); err != nil {
		return writeError(ctx, fiber.StatusBadRequest, err)
	}
	report, err := s.analyzer.Analyze(ctx.UserContext(), domain.Subject(username))
	if err != nil {
		var se *chesscom.StatusError
		if errors.As(err, &se) && se.Code == fiber.StatusNotFound {
			return writeError(ctx, fiber.StatusNotFound, fmt.Errorf("player %q not found", username))
		}
		s.log.WithError(err).WithField("subject", username).Warn("analysis failed")
	}
	return ctx.JSON(report)
}

func (s *Server) handleStats(ctx *fiber.Ctx) error {
	var req statsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, fiber.StatusBadRequest, err)
	}
	resp, err := s.channel.Send(ctx.UserContext(), req.convertToChannelRequest())
	if err != nil {
		s.log.WithError(err).Warn("calculate stats failed")
		resp.Precision = domain.Stat{}
		resp.AvgMoveTime = domain.Stat{}
	}
	return ctx.JSON(resp)
}

func (s *Server) handleObservation(ctx *fiber.Ctx) error {
	var req observationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, fiber.StatusBadRequest, err)
	}
	s.session.Observe(req.convertToObservation())
	return ctx.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleCurrent(ctx *fiber.Ctx) error {
	subject, tracking := s.session.Current()
	resp := currentResponse{
		Subject:    subject,
		Tracking:   tracking,
		Suppressed: s.session.Suppressed(),
	}
	if tracking {
		if report, ok := s.analyzer.Cached(subject); ok {
			resp.Report = &report
		}
	}
	return ctx.JSON(resp)
}

func (s *Server) handleGetPreferences(ctx *fiber.Ctx) error {
	return ctx.JSON(s.session.Preferences())
}

func (s *Server) handlePutPreferences(ctx *fiber.Ctx) error {
	var req preferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := req.Validate(); err != nil {
		return writeError(ctx, fiber.StatusBadRequest, err)
	}
	prefs := req.apply(s.session.Preferences(), s.now())
	if err := s.session.SetPreferences(ctx.UserContext(), prefs); err != nil {
		return err
	}
	return ctx.JSON(s.session.Preferences())
}

func (s *Server) handleReports(ctx *fiber.Ctx) error {
	return ctx.JSON(s.analyzer.Reports())
}
