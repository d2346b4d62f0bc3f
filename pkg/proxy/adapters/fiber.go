package adapters

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/toyz/proxygen/pkg/proxy"
)

// FiberAdapter mounts dispatchers on a Fiber app
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(Response{Error: err.Error()})
		},
	})

	return &FiberAdapter{app: app}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with request logging
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(logger.New())
	return adapter
}

// Mount registers POST {prefix}/:method for the dispatcher
func (fa *FiberAdapter) Mount(prefix string, dispatcher *proxy.Dispatcher) {
	fa.app.Post(routePath(prefix), func(c *fiber.Ctx) error {
		// Fiber reuses the body buffer after the handler returns
		body := append([]byte(nil), c.Body()...)
		status, resp := dispatch(dispatcher, c.Params("method"), body)
		return c.Status(status).JSON(resp)
	})
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}
