package content

import "net/http"

// Register registers the content routes with mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /api/content/articles", ArticlesHandler{svc})
	mux.Handle("GET /api/content/articles/{slug}", ArticleHandler{svc})
	mux.Handle("GET /api/content/gallery", GalleryHandler{svc})
	mux.Handle("GET /api/content/sections/{page}", SectionsHandler{svc})
	mux.Handle("GET /api/content/landing", LandingHandler{svc})
}
