package model

// Review is a user review of a title
type Review struct {
	Title   Field  `json:"title"`
	Content Field  `json:"content"`
	Rating  Rating `json:"rating"`
	Author  Field  `json:"author"`
	Date    Field  `json:"date"`
}
