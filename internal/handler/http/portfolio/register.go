package portfolio

import "net/http"

// Register registers the portfolio routes with mux. The literal segments
// take precedence over {id}.
func Register(mux *http.ServeMux, src Source) {
	mux.Handle("GET /api/portfolio", ListHandler{src})
	mux.Handle("GET /api/portfolio/featured", FeaturedHandler{src})
	mux.Handle("GET /api/portfolio/categories", CategoriesHandler{src})
	mux.Handle("GET /api/portfolio/stats", StatsHandler{src})
	mux.Handle("GET /api/portfolio/{id}", GetHandler{src})
}
