package adapters

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toyz/proxygen/pkg/proxy"
)

// GinAdapter mounts dispatchers on a Gin engine
type GinAdapter struct {
	engine *gin.Engine
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// Mount registers POST {prefix}/:method for the dispatcher
func (ga *GinAdapter) Mount(prefix string, dispatcher *proxy.Dispatcher) {
	ga.engine.POST(routePath(prefix), func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
			return
		}
		status, resp := dispatch(dispatcher, c.Param("method"), body)
		c.JSON(status, resp)
	})
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}
