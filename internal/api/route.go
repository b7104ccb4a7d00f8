package api

import (
	"Beacon/internal/api/middleware"
	"Beacon/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		apiGroup.POST("/upload", group.UploadHandler.Upload)
		apiGroup.POST("/upload/batch", group.UploadHandler.UploadBatch)
		apiGroup.GET("/uploads", group.UploadHandler.History)

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("", group.PostHandler.ListPosts)
			postGroup.GET("/publish/token", group.PublishHandler.IssueToken)
			postGroup.POST("/publish", group.PublishHandler.Publish)
			postGroup.GET("/:post_id", group.PostHandler.GetPost)
			postGroup.PATCH("/:post_id", group.PostHandler.UpdatePost)
		}

		metricsGroup := apiGroup.Group("/metrics")
		{
			metricsGroup.GET("/summary", group.MetricHandler.GetSummary)
			metricsGroup.GET("/timeseries", group.MetricHandler.GetTimeseries)
		}

		apiGroup.GET("/followers/trend", group.MetricHandler.GetFollowerTrend)
		apiGroup.GET("/demographics", group.MetricHandler.GetDemographics)
	}

	return r
}
