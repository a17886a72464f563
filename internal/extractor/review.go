package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/Agurato/imdb-data/internal/model"
)

const reviewSelector = "div.review-container"

var (
	reviewTitleLookup   = Lookup{Key: model.KeyTitle, Selector: "a.title"}
	reviewContentLookup = Lookup{Key: model.KeyReview, Selector: "div.text"}
	reviewRatingLookup  = Lookup{Key: model.KeyRate, Selector: "span.rating-other-user-rating", Inner: "span"}
	reviewAuthorLookup  = Lookup{Key: model.KeyAuthor, Selector: "span.display-name-link", Inner: "a"}
	reviewDateLookup    = Lookup{Key: model.KeyDate, Selector: "span.review-date"}
)

// Reviews returns the first limit user reviews of a reviews page
func Reviews(doc *goquery.Document, limit int) []model.Review {
	reviews := []model.Review{}
	each(root(doc), reviewSelector, limit, func(container *goquery.Selection) {
		reviews = append(reviews, model.Review{
			Title:   reviewTitleLookup.Text(container),
			Content: reviewContentLookup.Text(container),
			Rating:  reviewRatingLookup.Rating(container),
			Author:  reviewAuthorLookup.Text(container),
			Date:    reviewDateLookup.Text(container),
		})
	})
	return reviews
}
