package docchat

import "fmt"

// ErrLLM reports a generation failure from the chat deployment that is not
// a plain HTTP status: malformed payloads, empty choice lists, request
// marshalling problems.
type ErrLLM struct {
	Provider string
	Message  string
}

func (e *ErrLLM) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// ErrHTTP is a non-2xx response from the search index or the chat
// deployment, carrying the body for the console error log.
type ErrHTTP struct {
	Status int
	Body   string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}
