package model

// Title holds the information displayed on a title page
type Title struct {
	Title    Field       `json:"title"`
	Rating   Rating      `json:"rating"`
	Cast     []CastEntry `json:"cast"`
	Origin   Field       `json:"origin"`
	Language Field       `json:"language"`
}

// CastEntry is an actor with the character they play
type CastEntry struct {
	Name Field `json:"name"`
	Role Field `json:"role"`
}
