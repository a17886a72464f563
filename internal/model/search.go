package model

// SearchResult is a title found by a search query
type SearchResult struct {
	Title     Field `json:"title"`
	ID        Field `json:"id"`
	Time      Field `json:"time"`
	TitleURL  Field `json:"title_url"`
	ReviewURL Field `json:"review_url"`
}
