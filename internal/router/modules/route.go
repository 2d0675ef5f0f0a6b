package modules

import "github.com/gin-gonic/gin"

// Guard is the access policy of a single route.
type Guard int

const (
	// GuardNone leaves the route open.
	GuardNone Guard = iota
	// GuardProtect requires a valid access token.
	GuardProtect
	// GuardAdmin requires a valid access token of an administrator.
	GuardAdmin
)

func (g Guard) String() string {
	switch g {
	case GuardProtect:
		return "protect"
	case GuardAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Route is one entry of a module's route table. Handlers run after the guard.
type Route struct {
	Method   string
	Path     string
	Guard    Guard
	Handlers []gin.HandlerFunc
}

func route(method, path string, guard Guard, h ...gin.HandlerFunc) Route {
	return Route{Method: method, Path: path, Guard: guard, Handlers: h}
}
