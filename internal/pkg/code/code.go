// Package code centralizes the business error codes returned to HTTP clients
// and to the privileged worker's IPC responses. Every code maps to exactly one
// HTTP status and one user-safe message, following errors.Coder.
package code

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/HappyLadySauce/errors"
)

// autopeerCoder implements errors.Coder for a single registered business code.
type autopeerCoder struct {
	code    int
	httpStt int
	message string
}

func (c autopeerCoder) Code() int       { return c.code }
func (c autopeerCoder) String() string  { return c.message }
func (c autopeerCoder) Reference() string {
	return ""
}
func (c autopeerCoder) HTTPStatus() int {
	if c.httpStt == 0 {
		return http.StatusInternalServerError
	}
	return c.httpStt
}

var (
	codeMu   sync.RWMutex
	registry = map[int]autopeerCoder{}
)

// register records the HTTP status and message for a business error code.
// Panics on duplicate registration: a collision means two codes were assigned
// the same integer, which is always a programming mistake caught at init time.
func register(code int, httpStatus int, message string) {
	codeMu.Lock()
	defer codeMu.Unlock()

	if _, exists := registry[code]; exists {
		panic("code: duplicate registration for code " + strconv.Itoa(code))
	}
	registry[code] = autopeerCoder{code: code, httpStt: httpStatus, message: message}
	errors.MustRegister(registry[code])
}

// Message returns the registered user-safe message for code, or a generic
// fallback if the code was never registered.
func Message(code int) string {
	codeMu.RLock()
	defer codeMu.RUnlock()

	if c, ok := registry[code]; ok {
		return c.message
	}
	return "an unknown error occurred"
}
