package clients

import (
	"errors"
	"fmt"
)

// ErrRequestFailed matches every RequestError via errors.Is.
var ErrRequestFailed = errors.New("request failed")

// RequestError reports a backend call that did not succeed. Error returns a
// short message suitable for showing to a user as is.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	switch e.Op {
	case opScrape:
		return "Failed to scrape comments for this post"
	case opClassify:
		return "Failed to fetch sentiment"
	case opPosts:
		return "Failed to fetch recent posts"
	case opTakeaways:
		return "Failed to generate takeaways"
	default:
		return fmt.Sprintf("Request %s failed", e.Op)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Detail includes the status code and cause, for logs.
func (e *RequestError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status code %d", e.Op, e.StatusCode)
}
