package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every service-level HTTP handler so the
// application shell can mount it without knowing its routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
