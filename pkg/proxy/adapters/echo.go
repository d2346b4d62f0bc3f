package adapters

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/toyz/proxygen/pkg/proxy"
)

// EchoAdapter mounts dispatchers on an Echo v4 instance
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return &EchoAdapter{engine: echo.New()}
}

// Mount registers POST {prefix}/:method for the dispatcher
func (ea *EchoAdapter) Mount(prefix string, dispatcher *proxy.Dispatcher) {
	ea.engine.POST(routePath(prefix), func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
		}
		status, resp := dispatch(dispatcher, c.Param("method"), body)
		return c.JSON(status, resp)
	})
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}
