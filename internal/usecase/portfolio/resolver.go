package portfolio

import (
	"strings"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/staticdata"
)

// AssetResolver decides whether an image reference can be displayed.
//
// Absolute http(s) URLs and protocol-relative URLs are usable as is. Local
// paths are usable only when the asset manifest lists them; the manifest
// also supplies missing alt text and dimensions.
type AssetResolver struct {
	manifest *staticdata.Manifest
}

// NewAssetResolver creates a resolver backed by manifest.
func NewAssetResolver(manifest *staticdata.Manifest) *AssetResolver {
	return &AssetResolver{manifest: manifest}
}

// Resolve returns the display form of a.
func (r *AssetResolver) Resolve(a entity.Asset) (entity.PortfolioImage, bool) {
	url := validation.NormalizeURL(a.URL)
	img := entity.PortfolioImage{URL: url, Alt: a.Alt(), Width: a.Width, Height: a.Height}

	switch {
	case url == "":
		return entity.PortfolioImage{}, false
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		return img, true
	case strings.HasPrefix(url, "/"):
		m, ok := r.manifest.Lookup(url)
		if !ok {
			return entity.PortfolioImage{}, false
		}
		if img.Alt == "" {
			img.Alt = m.Alt
		}
		if img.Width == 0 || img.Height == 0 {
			img.Width, img.Height = m.Width, m.Height
		}
		return img, true
	default:
		return entity.PortfolioImage{}, false
	}
}
