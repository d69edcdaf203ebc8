package app

import (
	"adaptive_quiz_backend/docs"
	"adaptive_quiz_backend/internal/middleware"
	"adaptive_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 大纲管理：内容运营侧接口，不区分用户
	outlines := router.Group("/api/outlines")
	{
		outlines.POST("", c.outline.Import)
		outlines.GET("/:id/nodes", c.outline.ListNodes)
		outlines.DELETE("/:id", c.outline.Delete)
	}

	// 需要用户身份的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.Identity())
	{
		authGroup.POST("/quizzes", c.quiz.Generate)
		authGroup.GET("/quizzes", c.quiz.List)
		authGroup.GET("/quizzes/:id", c.quiz.Get)
		authGroup.POST("/quizzes/:id/submit", c.quiz.Submit)
		authGroup.GET("/quizzes/:id/answers", c.quiz.Answers)

		review := authGroup.Group("/review")
		{
			review.GET("/due", c.review.Due)
			review.GET("/items", c.review.List)
			review.POST("/items/:id/submit", c.review.Submit)
			review.POST("/items/:id/archive", c.review.Archive)
			review.GET("/stats", c.review.Stats)
		}
	}
}
