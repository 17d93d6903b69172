package recvhttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the receivables endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}

	r.Get("/dashboard", h.handleDashboard)
	r.Get("/bucket/{bucket:[a-z0-9_]+}.json", h.handleBucketJSONPath)
	r.Get("/bucket/{bucket}", h.handleBucketPage)

	r.Get("/aging", h.handleAgingJSON)
	r.Get("/aging/customer", h.handleCustomerJSON)
	r.Get("/aging/bucket", h.handleBucketJSON)

	// CSV export recomputes the full report per request, keep it rate
	// limited per client IP.
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/aging/export.csv", h.handleCSV)
	})
}
