package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/staticdata"
	"portfolio-content/internal/observability/metrics"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/usecase/content"
)

// GallerySource provides gallery items from the content gateway.
type GallerySource interface {
	GalleryItems(ctx context.Context, q content.GalleryQuery) content.Result[[]entity.GalleryItem]
}

// Aggregator builds catalogues and holds the current one.
type Aggregator struct {
	bundle   *staticdata.Bundle
	gallery  GallerySource
	opts     validation.Options
	logger   *slog.Logger
	current  atomic.Pointer[Catalogue]
	resolver *AssetResolver
}

// NewAggregator creates an Aggregator. gallery may be nil, in which case only
// the bundled datasets are used. A nil logger uses slog.Default.
func NewAggregator(bundle *staticdata.Bundle, gallery GallerySource, opts validation.Options, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		bundle:   bundle,
		gallery:  gallery,
		opts:     opts,
		logger:   logger,
		resolver: NewAssetResolver(bundle.Manifest()),
	}
}

// Build runs the pipeline and makes the result the current catalogue.
//
// Live gallery items are merged only when the gateway served them from the
// content service or its cache; a static gallery fallback duplicates the
// bundled portfolio datasets and is ignored.
func (a *Aggregator) Build(ctx context.Context) (*Catalogue, error) {
	start := time.Now()

	var (
		datasets []staticdata.Dataset
		live     []entity.GalleryItem
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		datasets = a.bundle.PortfolioDatasets()
		return nil
	})
	if a.gallery != nil {
		eg.Go(func() error {
			res := a.gallery.GalleryItems(egCtx, content.GalleryQuery{})
			if res.Source != usage.SourceStatic {
				live = res.Data
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("load portfolio datasets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build portfolio catalogue: %w", err)
	}

	cat := Run(datasets, live, a.resolver, a.opts)
	a.current.Store(cat)

	report := cat.Report()
	counts := make(map[string]int)
	for _, c := range cat.Categories()[1:] {
		counts[string(c.ID)] = c.Count
	}
	metrics.UpdatePortfolioEntries(counts)

	for _, r := range report.Rejections {
		a.logger.Info("portfolio entry excluded",
			slog.String("id", r.ID),
			slog.String("dataset", r.Dataset),
			slog.String("stage", r.Stage),
			slog.String("reason", r.Reason))
	}
	a.logger.Info("portfolio catalogue built",
		slog.Int("loaded", report.Loaded),
		slog.Int("entries", cat.Len()),
		slog.Int("live_items", report.LiveItems),
		slog.Int("rejected", len(report.Rejections)),
		slog.Int("warnings", report.Warnings),
		slog.Duration("duration", time.Since(start)))
	return cat, nil
}

// Catalogue returns the current catalogue, or nil before the first Build.
func (a *Aggregator) Catalogue() *Catalogue {
	return a.current.Load()
}

// Run executes the pipeline over already loaded inputs.
func Run(datasets []staticdata.Dataset, live []entity.GalleryItem, resolver *AssetResolver, opts validation.Options) *Catalogue {
	records := Load(datasets, live)
	report := Report{Loaded: len(records), LiveItems: len(live)}

	tagged, rejected := Tag(records, opts)
	report.Rejections = append(report.Rejections, rejected...)
	for _, c := range tagged {
		report.Warnings += len(c.Warnings)
	}

	withMedia, rejected := FilterMedia(tagged, resolver)
	report.Rejections = append(report.Rejections, rejected...)

	unique, rejected := Dedupe(withMedia)
	report.Rejections = append(report.Rejections, rejected...)

	return Freeze(Assign(unique), report)
}
