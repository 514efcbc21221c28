// Package server exposes the scrape, classify, posts and takeaways endpoints
// that the insight client and the web frontend call.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spacesedan/socialinsight/internal/db"
	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/spacesedan/socialinsight/internal/sentiment"
)

type FacebookAPI interface {
	RecentPosts(ctx context.Context, limit int) ([]models.Post, error)
	PostComments(ctx context.Context, postID string, limit int) ([]string, error)
}

type TakeawayExtractor interface {
	Extract(ctx context.Context, positive, negative []string) (models.Takeaways, error)
}

type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary models.SentimentSummary) error
}

// Deps are the collaborators of the server. Facebook, Takeaways, Remote and
// Publisher may be nil; the endpoints that need a missing one answer 503,
// and classification uses Fallback.
type Deps struct {
	Facebook      FacebookAPI
	Comments      db.CommentStore
	Fallback      sentiment.CommentClassifier
	Remote        sentiment.CommentClassifier
	RemoteHealthy *atomic.Bool
	Takeaways     TakeawayExtractor
	Publisher     SummaryPublisher
}

type Server struct {
	echo *echo.Echo
	port string
	deps Deps
}

func NewServer(port string, deps Deps) *Server {
	if deps.Comments == nil {
		deps.Comments = db.NewMemoryCommentStore()
	}
	if deps.Fallback == nil {
		deps.Fallback = sentiment.NewVaderClassifier()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("[Server] Request handled",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency))
			return nil
		},
	}))

	srv := &Server{echo: e, port: port, deps: deps}
	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("[Server] Starting server", slog.String("port", s.port))
	err := s.echo.Start(fmt.Sprintf(":%s", s.port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("[Server] Shutting down server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// classify uses the remote service while it is healthy.
func (s *Server) classify(ctx context.Context, comments []string) ([]models.ClassifiedComment, error) {
	if s.deps.Remote != nil && s.deps.RemoteHealthy != nil && s.deps.RemoteHealthy.Load() {
		start := time.Now()
		rows, err := s.deps.Remote.ClassifyComments(ctx, comments)
		if err == nil {
			return rows, nil
		}
		slog.Warn("[Server] Remote classifier failed, falling back to VADER",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
	}
	return s.deps.Fallback.ClassifyComments(ctx, comments)
}

func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		slog.Error("[Server] Unhandled error", slog.String("error", err.Error()))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, models.ErrorResponse{Error: message})
	}
	if err != nil {
		slog.Error("[Server] Failed to write error response", slog.String("error", err.Error()))
	}
}
