package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/socialinsight/internal/db"
	"github.com/spacesedan/socialinsight/internal/models"
	"github.com/spacesedan/socialinsight/internal/sentiment"
)

const (
	defaultPostsLimit = 20
	maxPostsLimit     = 100
	commentsPerScrape = 100
)

func (s *Server) handleHealth(c echo.Context) error {
	classifier := "vader"
	if s.deps.Remote != nil && s.deps.RemoteHealthy != nil && s.deps.RemoteHealthy.Load() {
		classifier = "remote"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":     "ok",
		"classifier": classifier,
	})
}

func (s *Server) handleScrape(c echo.Context) error {
	var req models.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "post_id is required")
	}
	if s.deps.Facebook == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Facebook is not configured")
	}

	ctx := c.Request().Context()
	comments, err := s.deps.Facebook.PostComments(ctx, postID, commentsPerScrape)
	if err != nil {
		slog.Error("[Server] Failed to scrape comments",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to fetch comments from Facebook")
	}

	if err := s.deps.Comments.SaveComments(ctx, postID, comments); err != nil {
		slog.Error("[Server] Failed to store comments",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store comments")
	}

	return c.JSON(http.StatusOK, models.ScrapeResponse{
		Message:       "Comments scraped successfully",
		TotalComments: len(comments),
	})
}

func (s *Server) handleClassify(c echo.Context) error {
	postID := strings.TrimSpace(c.QueryParam("post_id"))
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "post_id is required")
	}

	ctx := c.Request().Context()
	rows, err := s.classifyStored(c, postID)
	if err != nil {
		return err
	}

	if s.deps.Publisher != nil {
		summary := sentiment.Aggregate(postID, rows, sentiment.DefaultSampleLimit)
		if err := s.deps.Publisher.PublishSummary(ctx, summary); err != nil {
			slog.Warn("[Server] Failed to publish summary",
				slog.String("post_id", postID),
				slog.String("error", err.Error()))
		}
	}

	return c.JSON(http.StatusOK, models.ClassifyResponse{
		Message: "Sentiment classification completed",
		Data:    rows,
	})
}

func (s *Server) handlePosts(c echo.Context) error {
	limit := defaultPostsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxPostsLimit)
	}
	if s.deps.Facebook == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Facebook is not configured")
	}

	posts, err := s.deps.Facebook.RecentPosts(c.Request().Context(), limit)
	if err != nil {
		slog.Error("[Server] Failed to fetch posts", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to fetch posts from Facebook")
	}

	return c.JSON(http.StatusOK, models.PostsResponse{Posts: posts, Total: len(posts)})
}

func (s *Server) handleTakeaways(c echo.Context) error {
	var req models.TakeawaysRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "post_id is required")
	}
	if s.deps.Takeaways == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "OpenAI is not configured")
	}

	rows, err := s.classifyStored(c, postID)
	if err != nil {
		return err
	}

	var positive, negative []string
	for _, row := range rows {
		switch sentiment.NormalizeLabel(row.Sentiment) {
		case models.LabelPositive:
			positive = append(positive, row.Comment)
		case models.LabelNegative:
			negative = append(negative, row.Comment)
		}
	}

	result, err := s.deps.Takeaways.Extract(c.Request().Context(), positive, negative)
	if err != nil {
		slog.Error("[Server] Failed to extract takeaways",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to generate takeaways")
	}

	return c.JSON(http.StatusOK, result)
}

// classifyStored loads the scraped comments of postID and labels them.
func (s *Server) classifyStored(c echo.Context, postID string) ([]models.ClassifiedComment, error) {
	ctx := c.Request().Context()

	comments, err := s.deps.Comments.LoadComments(ctx, postID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "No scraped comments found for this post")
	}
	if err != nil {
		slog.Error("[Server] Failed to load comments",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comments")
	}

	rows, err := s.classify(ctx, comments)
	if err != nil {
		slog.Error("[Server] Failed to classify comments",
			slog.String("post_id", postID),
			slog.String("error", err.Error()))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to classify comments")
	}
	if rows == nil {
		rows = []models.ClassifiedComment{}
	}
	return rows, nil
}
