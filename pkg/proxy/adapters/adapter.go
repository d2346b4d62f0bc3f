package adapters

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/toyz/proxygen/pkg/proxy"
)

// Adapter exposes proxied objects over an HTTP framework. Every mounted dispatcher
// answers POST {prefix}/{method} with a JSON array of arguments as body.
type Adapter interface {
	Mount(prefix string, dispatcher *proxy.Dispatcher)
	Name() string
}

// Response is the JSON body returned for every dispatched call
type Response struct {
	Results []any  `json:"results,omitempty"`
	Error   string `json:"error,omitempty"`
}

// dispatch runs a call and maps the outcome to a status code and response body.
// Panics raised by the target are reported as 500.
func dispatch(dispatcher *proxy.Dispatcher, method string, body []byte) (status int, resp Response) {
	defer func() {
		if r := recover(); r != nil {
			status = http.StatusInternalServerError
			resp = Response{Error: fmt.Sprintf("%s panicked: %v", method, r)}
		}
	}()

	results, err := dispatcher.Dispatch(method, body)
	if err != nil {
		return statusFor(err), Response{Error: err.Error()}
	}
	return http.StatusOK, Response{Results: proxy.EncodableResults(results)}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, proxy.ErrUnknownMethod):
		return http.StatusNotFound
	case errors.Is(err, proxy.ErrArgumentCount), errors.Is(err, proxy.ErrArgumentType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// routePath joins prefix and the method parameter in the syntax shared by gin, echo and fiber
func routePath(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	return prefix + "/:method"
}
