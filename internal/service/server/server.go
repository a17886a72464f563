package server

import (
	"embed"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pariz/gountries"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.go.html
var templatesFS embed.FS

// NewServer initializes the router
func NewServer(mainHandler *MainHandler, catalogHandler *CatalogHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger)

	router.SetTrustedProxies(nil)
	router.SetHTMLTemplate(loadTemplates())

	// 404
	router.NoRoute(mainHandler.Error404)

	router.GET("/", mainHandler.GETIndex)
	router.GET("/health", mainHandler.GETHealth)

	router.GET("/title/:id", catalogHandler.GETTitle)
	router.GET("/reviews/:id", catalogHandler.GETReviews)
	router.GET("/search", catalogHandler.GETSearch)

	return router
}

func loadTemplates() *template.Template {
	countryCodes := make(map[string]string)
	for code, country := range gountries.New().Countries {
		countryCodes[strings.ToLower(country.Name.Common)] = code
	}
	funcs := template.FuncMap{
		"countryCode": func(name string) string {
			return countryCodes[strings.ToLower(name)]
		},
		"joinStrings": func(sep string, elems ...string) string {
			return strings.Join(lo.Filter(elems, func(elem string, i int) bool {
				return len(elem) > 0
			}), sep)
		},
		"title": func(s string) string {
			return cases.Title(language.English).String(s)
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.go.html"))
}
