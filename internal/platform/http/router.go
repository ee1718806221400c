package http

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mtamaki/office-peak/pkg/model"
)

// HistoryReader serves the on-demand month query.
type HistoryReader interface {
	ListMonth(ctx context.Context, month string) ([]model.DailyValue, error)
}

// Triggers are the operations the manual endpoints force outside the
// normal schedule.
type Triggers struct {
	Poll          func(ctx context.Context) (int, error)
	DailyReport   func(ctx context.Context) error
	MonthlyReport func(ctx context.Context, month string) error
	CurrentMonth  func() string
}

// Router wires HTTP handlers.
type Router struct {
	history  HistoryReader
	triggers Triggers
	origins  string
}

func NewRouter(history HistoryReader, triggers Triggers, allowedOrigins string) *gin.Engine {
	r := &Router{
		history:  history,
		triggers: triggers,
		origins:  allowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/occupancy/history", r.getHistory)
		api.POST("/poll", r.triggerPoll)
		api.POST("/report/daily", r.triggerDailyReport)
		api.POST("/report/monthly", r.triggerMonthlyReport)
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

// getHistory returns one month of recorded daily peaks, sorted ascending by
// date, as JSON (default) or CSV. A malformed month parameter is rejected
// before any store access.
func (r *Router) getHistory(c *gin.Context) {
	month := c.Query("month")
	if !validMonth(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	values, err := r.history.ListMonth(c.Request.Context(), month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Date < values[j].Date })

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=occupancy-%s.csv", month))

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		if err := writer.Write([]string{"date", "peak"}); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		for _, v := range values {
			if err := writer.Write([]string{v.Date, fmt.Sprintf("%.0f", v.Count)}); err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month": month,
		"days":  values,
	})
}

func (r *Router) triggerPoll(c *gin.Context) {
	count, err := r.triggers.Poll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": count})
}

func (r *Router) triggerDailyReport(c *gin.Context) {
	if err := r.triggers.DailyReport(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// triggerMonthlyReport forces generation and posting of the current month's
// summary, for verification outside the normal schedule.
func (r *Router) triggerMonthlyReport(c *gin.Context) {
	month := r.triggers.CurrentMonth()
	if err := r.triggers.MonthlyReport(c.Request.Context(), month); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "status": "sent"})
}

// validMonth checks the fixed-width YYYY-MM shape with a real month number.
func validMonth(month string) bool {
	if len(month) != 7 || month[4] != '-' {
		return false
	}
	for i, ch := range month {
		if i == 4 {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}
	mm := (int(month[5]-'0') * 10) + int(month[6]-'0')
	return mm >= 1 && mm <= 12
}
