package contracts

import "github.com/julienschmidt/httprouter"

// Handler is anything that can attach its routes to the shared router.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
