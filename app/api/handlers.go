package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/database"
	"github.com/lysyi3m/rss-digest/app/digest"
)

const recentDigestLimit = 7

func NewHandler(catalog *catalog.Catalog, articleRepo database.ArticleRepository,
	digestRepo database.DigestRepository) *Handler {
	return &Handler{
		catalog:     catalog,
		articleRepo: articleRepo,
		digestRepo:  digestRepo,
		now:         time.Now,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
		"feeds":     h.catalog.Len(),
	}

	if err := h.articleRepo.Ping(); err != nil {
		slog.Error("Database error", "operation", "ping", "error", err)
		health["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["database"] = "ok"

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	catalogStats := h.catalog.Stats()
	categories := make([]map[string]interface{}, 0, len(catalogStats.Categories))
	for _, cs := range catalogStats.Categories {
		categories = append(categories, map[string]interface{}{
			"name":  cs.Name,
			"feeds": cs.Feeds,
		})
	}

	stats := map[string]interface{}{
		"catalog": map[string]interface{}{
			"total_feeds": catalogStats.TotalFeeds,
			"categories":  categories,
		},
	}

	articleStats, err := h.articleRepo.GetArticleStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_article_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["articles"] = map[string]interface{}{
		"total":      articleStats.Total,
		"summarized": articleStats.Summarized,
		"by_method":  articleStats.ByMethod,
		"newest":     articleStats.Newest,
		"oldest":     articleStats.Oldest,
	}

	digests, err := h.digestRepo.GetRecentDigests(recentDigestLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_digests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	recent := make([]digestResponse, 0, len(digests))
	for _, d := range digests {
		recent = append(recent, digestResponse{Date: d.Date, ArticleCount: d.ArticleCount, CreatedAt: d.CreatedAt})
	}
	stats["recent_digests"] = recent

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetDigest(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.ParseInLocation(digest.DateLayout, date, time.Local); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	d, err := h.digestRepo.GetDigest(date)
	if err != nil {
		slog.Error("Database error", "operation", "get_digest", "date", date, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Digest not found"})
		return
	}

	c.Header("X-Digest-Articles", strconv.Itoa(d.ArticleCount))
	c.String(http.StatusOK, d.Content)
}

func (h *Handler) ListArticles(c *gin.Context) {
	day := h.now().In(time.Local)
	if date := c.Query("date"); date != "" {
		parsed, err := time.ParseInLocation(digest.DateLayout, date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	articles, err := h.articleRepo.GetArticlesByDate(day)
	if err != nil {
		slog.Error("Database error", "operation", "get_articles_by_date", "date", day.Format(digest.DateLayout), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		items = append(items, newArticleResponse(a))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"date":     day.Format(digest.DateLayout),
		"articles": items,
		"total":    len(items),
	})
}
