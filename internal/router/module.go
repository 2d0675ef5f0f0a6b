package router

import "github.com/oksasatya/docvault-api/internal/router/modules"

// Module describes a feature module by its route table. The registry mounts the
// routes under /api and applies each route's guard.
type Module interface {
	Routes() []modules.Route
}
