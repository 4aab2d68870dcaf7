package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router assembles the gin engine: logging, panic recovery, open CORS and
// the three routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), corsMiddleware())

	router.GET("/", s.Home)
	router.POST("/summarize", s.Summarize)
	router.POST("/testing_api/", s.CreateItem)

	return router
}

// corsMiddleware opens the API to all origins, methods and headers.
// Preflight requests are answered with 204 before route matching.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
