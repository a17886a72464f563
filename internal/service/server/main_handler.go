package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type MainHandler struct{}

func NewMainHandler() *MainHandler {
	return &MainHandler{}
}

// Error404 answers unknown routes
func (mh MainHandler) Error404(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// GETIndex displays the index page
func (mh MainHandler) GETIndex(c *gin.Context) {
	c.String(http.StatusOK, "Hello world!")
}

// GETHealth tells that the server is up
func (mh MainHandler) GETHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
