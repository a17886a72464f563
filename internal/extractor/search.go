package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Agurato/imdb-data/internal/model"
)

const searchResultSelector = "li.find-title-result"

var (
	searchTitleLookup = Lookup{Key: model.KeyTitle, Selector: "a.ipc-metadata-list-summary-item__t"}
	searchLinkLookup  = Lookup{Key: model.KeyLink, Selector: "a.ipc-metadata-list-summary-item__t"}
	searchTimeLookup  = Lookup{Key: model.KeyTime, Selector: "ul.ipc-metadata-list-summary-item__tl", Inner: "label"}
)

// SearchHit is a search result as it appears on the page, before any derivation
type SearchHit struct {
	Title model.Field
	Link  model.Field
	Time  model.Field
}

// SearchHits returns the first limit title results of a search page
func SearchHits(doc *goquery.Document, limit int) []SearchHit {
	hits := []SearchHit{}
	each(root(doc), searchResultSelector, limit, func(item *goquery.Selection) {
		hits = append(hits, SearchHit{
			Title: searchTitleLookup.Text(item),
			Link:  searchLinkLookup.Attr(item, "href"),
			Time:  searchTimeLookup.Text(item),
		})
	})
	return hits
}
