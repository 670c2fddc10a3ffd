package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/config"
	apperrors "github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/errors"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/logger"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/internal/service"
	"github.com/MSFT-Innovation-Hub-India/bfsi-parse-ai-doc-intelligence/pkg/models"
)

// NewHandler configures the HTTP surface: health plus document
// analysis.
func NewHandler(docService service.DocumentAnalysisService, cfg *config.Config) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	r.POST("/analyze", analyzeDocument(docService, cfg))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func analyzeDocument(docService service.DocumentAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing document analysis request")

		var req models.DocumentAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithField("ip", c.ClientIP()).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := docService.AnalyzeDocument(ctx, req)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"pages": len(req.Pages),
				"ip":    c.ClientIP(),
			}).Error("Document analysis failed")
			respondError(c, apperrors.GetStatusCode(err), "document analysis failed", err)
			return
		}

		if !req.IncludePages {
			resp.Pages = nil
		}

		logger.WithFields(logrus.Fields{
			"pages":    resp.Summary.PagesAnalyzed,
			"status":   resp.Summary.StatusText,
			"duration": time.Since(startTime),
		}).Info("Document analysis completed")

		c.JSON(http.StatusOK, resp)
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(status, resp)
}

// requestSizeLimiter caps request bodies to protect against oversized
// payloads.
func requestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
