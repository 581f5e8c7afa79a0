package api

// StatusOK is the business status of a successful envelope.
const StatusOK = 200

// Envelope is the wrapper of every API response body.
type Envelope[T any] struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   T      `json:"data"`
}

// OK reports whether the envelope carries a successful business status.
func (e *Envelope[T]) OK() bool { return e.Status == StatusOK }

// Err returns the business error carried by e, or nil when e is successful.
func (e *Envelope[T]) Err() error {
	if e.OK() {
		return nil
	}
	return &Error{Status: e.Status, Msg: e.Msg}
}

// Page is one page of a paginated list.
//
// Page and TotalPages are informative, the client keeps its own current
// page and page size.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}
