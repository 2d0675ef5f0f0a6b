package router

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/docvault-api/internal/interface/middleware"
	"github.com/oksasatya/docvault-api/internal/router/modules"
)

type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	protect     gin.HandlerFunc
	policy      map[string]modules.Guard
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api, policy: map[string]modules.Guard{}}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// SetProtect installs the authentication middleware used by protected and admin routes.
func (r *Registry) SetProtect(h gin.HandlerFunc) { r.protect = h }

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) chain(g modules.Guard) []gin.HandlerFunc {
	switch g {
	case modules.GuardProtect:
		return []gin.HandlerFunc{r.protect}
	case modules.GuardAdmin:
		return []gin.HandlerFunc{r.protect, middleware.AdminOnly()}
	default:
		return nil
	}
}

// RegisterAll mounts every module. It panics when a guarded route is added
// without a protect middleware, which is a wiring bug.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		for _, rt := range m.Routes() {
			if rt.Guard != modules.GuardNone && r.protect == nil {
				panic(fmt.Sprintf("router: %s %s is guarded but no protect middleware is set", rt.Method, rt.Path))
			}
			handlers := append(r.chain(rt.Guard), rt.Handlers...)
			r.API.Handle(rt.Method, rt.Path, handlers...)
			r.policy[rt.Method+" "+r.API.BasePath()+rt.Path] = rt.Guard
		}
	}
}

// Policy returns the guard of every registered route keyed by "METHOD /full/path".
func (r *Registry) Policy() map[string]modules.Guard {
	out := make(map[string]modules.Guard, len(r.policy))
	for k, v := range r.policy {
		out[k] = v
	}
	return out
}

// PolicyTable renders Policy as sorted "METHOD path guard" lines for startup logs.
func (r *Registry) PolicyTable() []string {
	lines := make([]string, 0, len(r.policy))
	for k, v := range r.policy {
		lines = append(lines, k+" "+v.String())
	}
	sort.Strings(lines)
	return lines
}
