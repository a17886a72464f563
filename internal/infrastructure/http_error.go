package infrastructure

import "fmt"

// HTTPStatusError is returned when a page is answered with a status other than 200
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
