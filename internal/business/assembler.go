package business

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/Agurato/imdb-data/internal/extractor"
	"github.com/Agurato/imdb-data/internal/model"
)

// Default list sizes
const (
	DefaultCastLimit   = 2
	DefaultReviewLimit = 5
	DefaultSearchLimit = 5
)

// Caps sets how many entries each list endpoint returns
type Caps struct {
	Cast    int
	Reviews int
	Search  int
}

// Assembler builds the records returned by each endpoint from a parsed page
type Assembler struct {
	caps Caps
}

// NewAssembler instantiates a new Assembler. Non-positive caps use the defaults.
func NewAssembler(caps Caps) *Assembler {
	if caps.Cast <= 0 {
		caps.Cast = DefaultCastLimit
	}
	if caps.Reviews <= 0 {
		caps.Reviews = DefaultReviewLimit
	}
	if caps.Search <= 0 {
		caps.Search = DefaultSearchLimit
	}
	return &Assembler{caps: caps}
}

// Caps returns the effective caps
func (a Assembler) Caps() Caps {
	return a.caps
}

// AssembleTitle builds the record of a title page
func (a Assembler) AssembleTitle(doc *goquery.Document) model.Title {
	return model.Title{
		Title:    extractor.Title(doc),
		Rating:   extractor.Rating(doc),
		Cast:     extractor.Cast(doc, a.caps.Cast),
		Origin:   extractor.Origin(doc),
		Language: extractor.Language(doc),
	}
}

// AssembleReviews builds the list of reviews of a reviews page
func (a Assembler) AssembleReviews(doc *goquery.Document) []model.Review {
	return extractor.Reviews(doc, a.caps.Reviews)
}

// AssembleSearch builds the list of results of a search page, with the links
// to the title and reviews endpoints of each result
func (a Assembler) AssembleSearch(doc *goquery.Document) []model.SearchResult {
	return lo.Map(extractor.SearchHits(doc, a.caps.Search), func(hit extractor.SearchHit, _ int) model.SearchResult {
		id := IDFromLink(hit.Link)
		return model.SearchResult{
			Title:     hit.Title,
			ID:        id,
			Time:      hit.Time.Map(NormalizeDash),
			TitleURL:  id.Map(func(v string) string { return "/title/" + v }),
			ReviewURL: id.Map(func(v string) string { return "/reviews/" + v }),
		}
	})
}

// IDFromLink returns the catalog ID of a relative title link such as
// "/title/tt0111161/?ref_=fn_al_tt_1", which is its third '/' segment
func IDFromLink(link model.Field) model.Field {
	if !link.Found {
		return model.Missing(model.KeyLink)
	}
	segments := strings.Split(link.Value, "/")
	if len(segments) < 3 || segments[2] == "" {
		return model.Missing(model.KeyLink)
	}
	return model.FoundField(model.KeyLink, segments[2])
}

// NormalizeDash replaces en-dashes of year ranges with hyphens
func NormalizeDash(s string) string {
	return strings.ReplaceAll(s, "–", "-")
}
