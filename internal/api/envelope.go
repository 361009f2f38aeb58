package api

// Envelope is the response wrapper every endpoint returns.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`

	StatusCode int `json:"-"`
}

// Meta carries pagination details for list endpoints.
type Meta struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Result returns Data when the envelope reports success. Otherwise it returns
// an *Error carrying the server message, or fallback when there is none.
func (e *Envelope[T]) Result(fallback string) (T, error) {
	var zero T
	if e == nil {
		return zero, &Error{Message: fallback}
	}
	if !e.Success {
		msg := e.Message
		if msg == "" {
			msg = fallback
		}
		return zero, &Error{Status: e.StatusCode, Message: msg}
	}
	return e.Data, nil
}
