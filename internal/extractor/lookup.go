// Package extractor reads single fields out of parsed IMDb pages.
//
// Every function is pure: it only reads the document it is given and returns
// absent fields instead of errors when the markup does not match.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Agurato/imdb-data/internal/model"
)

// Lookup locates a field in a document: the first element matching Selector,
// then, if Inner is set, the first element matching Inner within it.
type Lookup struct {
	Key      string
	Selector string
	Inner    string
}

// Node returns the matched element, if any
func (l Lookup) Node(scope *goquery.Selection) (*goquery.Selection, bool) {
	node := scope.Find(l.Selector).First()
	if node.Length() == 0 {
		return nil, false
	}
	if l.Inner != "" {
		node = node.Find(l.Inner).First()
		if node.Length() == 0 {
			return nil, false
		}
	}
	return node, true
}

// Text returns the trimmed text of the matched element
func (l Lookup) Text(scope *goquery.Selection) model.Field {
	node, ok := l.Node(scope)
	if !ok {
		return model.Missing(l.Key)
	}
	return model.FoundField(l.Key, strings.TrimSpace(node.Text()))
}

// Attr returns the trimmed value of an attribute of the matched element
func (l Lookup) Attr(scope *goquery.Selection, name string) model.Field {
	node, ok := l.Node(scope)
	if !ok {
		return model.Missing(l.Key)
	}
	value, exists := node.Attr(name)
	if !exists {
		return model.Missing(l.Key)
	}
	return model.FoundField(l.Key, strings.TrimSpace(value))
}

// Rating parses the text of the matched element as a rating
func (l Lookup) Rating(scope *goquery.Selection) model.Rating {
	text := l.Text(scope)
	if !text.Found {
		return model.Rating{}
	}
	return model.ParseRating(text.Value)
}

// root returns the top-level selection of a document, empty for a nil document
func root(doc *goquery.Document) *goquery.Selection {
	if doc == nil {
		return &goquery.Selection{}
	}
	return doc.Selection
}

// each calls fn on at most limit elements matching selector, in document order
func each(scope *goquery.Selection, selector string, limit int, fn func(*goquery.Selection)) {
	if limit <= 0 {
		return
	}
	count := 0
	scope.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		fn(s)
		count++
		return count < limit
	})
}
