package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"book-catalog/internal/shared/middleware"
	"book-catalog/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"version": c.Config.App.Version,
			})
		})

		authors := v1.Group("/authors")
		{
			authors.POST("", c.AuthorHandler.Create)
			authors.GET("", c.AuthorHandler.Search)
			authors.GET("/:id", c.AuthorHandler.GetByID)
			authors.PUT("/:id", c.AuthorHandler.Update)
			authors.GET("/:id/books", c.BookHandler.GetBooksByAuthor)
		}

		books := v1.Group("/books")
		{
			books.POST("", c.BookHandler.Create)
			books.GET("", c.BookHandler.Search)
			books.GET("/:id", c.BookHandler.GetByID)
			books.PUT("/:id", c.BookHandler.Update)
		}
	}

	return router
}
