package dto

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// FailWith builds a failure envelope with field-level errors.
func FailWith(message string, errs map[string]string) Response {
	return Response{Success: false, Message: message, Errors: errs}
}

// PagedList is the page-numbered list payload carried in Response.Data.
type PagedList struct {
	Count    int  `json:"count"`
	Next     *int `json:"next"`     // next page number, nil on the last page
	Previous *int `json:"previous"` // previous page number, nil on the first page
	Results  any  `json:"results"`
}
