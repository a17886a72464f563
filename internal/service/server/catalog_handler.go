package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/imdb-data/internal/business"
	"github.com/Agurato/imdb-data/internal/infrastructure"
	"github.com/Agurato/imdb-data/internal/model"
)

type Catalog interface {
	GetTitle(ctx context.Context, id string) (*model.Title, error)
	GetReviews(ctx context.Context, id string) ([]model.Review, error)
	Search(ctx context.Context, query string) ([]model.SearchResult, error)
}

type CatalogHandler struct {
	Catalog
}

func NewCatalogHandler(cat Catalog) *CatalogHandler {
	return &CatalogHandler{
		Catalog: cat,
	}
}

// GETTitle displays information about a movie or TV show
func (ch CatalogHandler) GETTitle(c *gin.Context) {
	title, err := ch.Catalog.GetTitle(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, "title.go.html", title, gin.H{
		"title":  title.Title.String(),
		"record": title,
	})
}

// GETReviews displays the user reviews of a movie or TV show
func (ch CatalogHandler) GETReviews(c *gin.Context) {
	reviews, err := ch.Catalog.GetReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, "reviews.go.html", reviews, gin.H{
		"title":   "Reviews",
		"reviews": reviews,
	})
}

// GETSearch displays the titles matching the "q" query parameter
func (ch CatalogHandler) GETSearch(c *gin.Context) {
	query := c.Query("q")
	results, err := ch.Catalog.Search(c.Request.Context(), query)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, "search.go.html", results, gin.H{
		"title":   "Search",
		"search":  query,
		"results": results,
	})
}

// wantsHTML is true when "format=html" is requested, or when no format is given
// and the Accept header prefers HTML
func wantsHTML(c *gin.Context) bool {
	switch c.Query("format") {
	case "html":
		return true
	case "json":
		return false
	}
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// render writes a record as JSON, or as an HTML fragment
func render(c *gin.Context, name string, record any, obj gin.H) {
	if wantsHTML(c) {
		c.HTML(http.StatusOK, name, obj)
		return
	}
	c.JSON(http.StatusOK, record)
}

func renderError(c *gin.Context, err error) {
	code := errorStatus(err)
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.Request.URL.Path).Msg("Could not get page")
	}
	if wantsHTML(c) {
		c.HTML(code, "error.go.html", gin.H{
			"title": http.StatusText(code),
			"error": err.Error(),
		})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	var statusErr *infrastructure.HTTPStatusError
	switch {
	case errors.Is(err, business.ErrInvalidID), errors.Is(err, business.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
