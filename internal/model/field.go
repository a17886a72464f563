package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Sentinel keys, each rendered as "No <key> found" when the field is absent
const (
	KeyTitle    = "title"
	KeyRate     = "rate"
	KeyName     = "name"
	KeyRole     = "role"
	KeyOrigin   = "origin"
	KeyLanguage = "language"
	KeyAuthor   = "author"
	KeyDate     = "date"
	KeyReview   = "review"
	KeyLink     = "link"
	KeyTime     = "time"
)

// Sentinel returns the absence marker for a sentinel key
func Sentinel(key string) string {
	return fmt.Sprintf("No %s found", key)
}

// Field is a piece of text extracted from a page, which may be missing
type Field struct {
	Key   string
	Value string
	Found bool
}

// FoundField returns a present field
func FoundField(key, value string) Field {
	return Field{Key: key, Value: value, Found: true}
}

// Missing returns an absent field
func Missing(key string) Field {
	return Field{Key: key}
}

// String returns the value, or the sentinel if the field is absent
func (f Field) String() string {
	if !f.Found {
		return Sentinel(f.Key)
	}
	return f.Value
}

// Map applies fn to the value of a present field
func (f Field) Map(fn func(string) string) Field {
	if !f.Found {
		return f
	}
	return FoundField(f.Key, fn(f.Value))
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

const (
	MinRating = 0
	MaxRating = 10
)

// Rating is an aggregate or user score between MinRating and MaxRating
type Rating struct {
	Value float64
	Found bool
}

// ParseRating converts rating text to a Rating.
// Anything that is not a number between MinRating and MaxRating is absent.
func ParseRating(text string) Rating {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || value < MinRating || value > MaxRating {
		return Rating{}
	}
	return Rating{Value: value, Found: true}
}

func (r Rating) String() string {
	if !r.Found {
		return Sentinel(KeyRate)
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Found {
		return json.Marshal(Sentinel(KeyRate))
	}
	return json.Marshal(r.Value)
}
