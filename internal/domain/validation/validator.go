// Package validation checks the structure and quality of content records
// before they are transformed into public entities.
//
// Findings come in two kinds. Errors mean the record must not be used (a
// required field is missing or has the wrong type). Warnings are advisory
// quality issues (blank text, small images, missing alt text, odd tag counts)
// and never block usage. No validator panics or returns an error.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/observability/logging"
	"portfolio-content/internal/observability/metrics"
	pkgconfig "portfolio-content/pkg/config"
)

// Result is the outcome of validating one record.
// Data holds the normalized field map and is nil whenever IsValid is false.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Data     Fields   `json:"data,omitempty"`
}

// Options tunes the semantic checks.
type Options struct {
	// Now returns the reference time for date plausibility. Default: time.Now.
	Now func() time.Time

	// MinYear is the earliest plausible publication year. Default: 2000.
	MinYear int

	// MaxFuture is how far past Now a date may lie. Default: 365 days.
	MaxFuture time.Duration

	// ArticleCategories lists known article categories. Empty disables the check.
	ArticleCategories []string

	// PortfolioCategories lists known portfolio categories.
	// Default: the declared entity categories.
	PortfolioCategories []string
}

// DefaultOptions returns the options used by the gateway.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.MinYear == 0 {
		o.MinYear = 2000
	}
	if o.MaxFuture == 0 {
		o.MaxFuture = 365 * 24 * time.Hour
	}
	if o.PortfolioCategories == nil {
		for _, c := range entity.Categories() {
			o.PortfolioCategories = append(o.PortfolioCategories, string(c))
		}
	}
	return o
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// ShapeFunc validates one record of a content shape.
type ShapeFunc func(Fields, Options) Result

// ForContentType returns the shape validator of ct, or nil for unknown types.
func ForContentType(ct entity.ContentType) ShapeFunc {
	switch ct {
	case entity.ContentArticle:
		return ValidateArticle
	case entity.ContentGallery:
		return ValidateGalleryItem
	case entity.ContentPageSection:
		return ValidatePageSection
	case entity.ContentLanding:
		return ValidateLandingContent
	case entity.ContentPortfolio:
		return ValidatePortfolioEntry
	default:
		return nil
	}
}

// Validator couples the shape validators with logging and metrics.
// Validation always runs; logging of findings is gated by LogFindings.
type Validator struct {
	opts        Options
	logger      *slog.Logger
	logFindings bool
}

// NewValidator creates a Validator. A nil logger uses slog.Default.
func NewValidator(opts Options, logger *slog.Logger, logFindings bool) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{opts: opts.withDefaults(), logger: logger, logFindings: logFindings}
}

// LogFindingsFromEnv reads CONTENT_VALIDATION_LOG, defaulting to true when
// APP_ENV is development.
func LogFindingsFromEnv() bool {
	return pkgconfig.GetEnvBool("CONTENT_VALIDATION_LOG", pkgconfig.GetEnvString("APP_ENV", "") == "development")
}

// Validate runs the shape validator for ct over f.
// Unknown content types produce an invalid result. Findings are logged with
// the request ID carried by ctx.
func (v *Validator) Validate(ctx context.Context, ct entity.ContentType, id string, f Fields) Result {
	fn := ForContentType(ct)
	if fn == nil {
		return Result{IsValid: false, Errors: []string{fmt.Sprintf("unknown content type %q", ct)}}
	}
	r := fn(f, v.opts)
	metrics.RecordValidationIssues(string(ct), len(r.Errors), len(r.Warnings))

	if v.logFindings && (len(r.Errors) > 0 || len(r.Warnings) > 0) {
		level := slog.LevelWarn
		if r.IsValid {
			level = slog.LevelInfo
		}
		logging.WithRequestID(ctx, v.logger).Log(ctx, level, "content validation findings",
			slog.String("content_type", string(ct)),
			slog.String("id", id),
			slog.String("summary", describe(len(r.Errors), "error")+", "+describe(len(r.Warnings), "warning")),
			slog.Any("errors", r.Errors),
			slog.Any("warnings", r.Warnings))
	}
	return r
}

// Options returns the effective options.
func (v *Validator) Options() Options {
	return v.opts
}

// BatchResult partitions a collection by validation outcome.
type BatchResult[T any] struct {
	Valid        []T
	Invalid      []T
	WithWarnings []T
	Results      []Result
}

// BatchValidate validates every entry independently. A validator panic on one
// entry marks only that entry invalid. WithWarnings holds valid entries that
// carry at least one warning.
func BatchValidate[T any](entries []T, fn func(T) Result) BatchResult[T] {
	out := BatchResult[T]{Results: make([]Result, len(entries))}
	for i, e := range entries {
		r := safeValidate(e, fn)
		out.Results[i] = r
		if !r.IsValid {
			out.Invalid = append(out.Invalid, e)
			continue
		}
		out.Valid = append(out.Valid, e)
		if len(r.Warnings) > 0 {
			out.WithWarnings = append(out.WithWarnings, e)
		}
	}
	return out
}

func safeValidate[T any](e T, fn func(T) Result) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Result{IsValid: false, Errors: []string{fmt.Sprintf("validator panicked: %v", p)}}
		}
	}()
	return fn(e)
}
