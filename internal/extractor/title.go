package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Agurato/imdb-data/internal/model"
)

const castItemSelector = `[data-testid="title-cast-item"]`

var (
	titleLookup = Lookup{
		Key:      model.KeyTitle,
		Selector: `[data-testid="hero-title-block__title"]`,
	}
	ratingLookup = Lookup{
		Key:      model.KeyRate,
		Selector: `[data-testid="hero-rating-bar__aggregate-rating__score"]`,
		Inner:    "span",
	}
	castNameLookup = Lookup{
		Key:      model.KeyName,
		Selector: `[data-testid="title-cast-item__actor"]`,
	}
	castRoleLookup = Lookup{
		Key:      model.KeyRole,
		Selector: `[data-testid="cast-item-characters-link"]`,
		Inner:    "span",
	}
	originLookup = Lookup{
		Key:      model.KeyOrigin,
		Selector: `[data-testid="title-details-origin"]`,
		Inner:    "a",
	}
	languageLookup = Lookup{
		Key:      model.KeyLanguage,
		Selector: `[data-testid="title-details-languages"]`,
		Inner:    "a",
	}
)

// Title returns the name of the movie or TV show
func Title(doc *goquery.Document) model.Field {
	return titleLookup.Text(root(doc))
}

// Rating returns the aggregate rating of the movie or TV show
func Rating(doc *goquery.Document) model.Rating {
	return ratingLookup.Rating(root(doc))
}

// Cast returns the first limit cast members, in billing order
func Cast(doc *goquery.Document, limit int) []model.CastEntry {
	cast := []model.CastEntry{}
	each(root(doc), castItemSelector, limit, func(item *goquery.Selection) {
		cast = append(cast, model.CastEntry{
			Name: castNameLookup.Text(item),
			Role: castRoleLookup.Text(item),
		})
	})
	return cast
}

// Origin returns the first country of origin
func Origin(doc *goquery.Document) model.Field {
	return originLookup.Text(root(doc))
}

// Language returns the primary language
func Language(doc *goquery.Document) model.Field {
	return languageLookup.Text(root(doc))
}
