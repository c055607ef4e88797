package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"portfolio-content/internal/app"
	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/usecase/content"
)

const (
	sourceAuto   = "auto"
	sourceLive   = "live"
	sourceStatic = "static"
)

var errInvalidContent = errors.New("invalid content found")

// record is one raw entry awaiting validation.
type record struct {
	ContentType entity.ContentType
	ID          string
	Origin      string
	Fields      validation.Fields
}

// finding is the printable outcome of one record.
type finding struct {
	ContentType entity.ContentType `json:"content_type"`
	ID          string             `json:"id"`
	Origin      string             `json:"origin"`
	Valid       bool               `json:"valid"`
	Errors      []string           `json:"errors,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
	Probes      []probeOutcome     `json:"probes,omitempty"`
}

type probeOutcome struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

type validateReport struct {
	Source       string    `json:"source"`
	Total        int       `json:"total"`
	Valid        int       `json:"valid"`
	Invalid      int       `json:"invalid"`
	WithWarnings int       `json:"with_warnings"`
	Findings     []finding `json:"findings"`
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate live or bundled content",
		Long: `Fetch every content shape and run the content validators on each entry.

With --source live the content service must be configured. With --source
static the bundled portfolio datasets are validated. The default, auto,
uses the content service when it is configured.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	cmd.Flags().String("source", sourceAuto, "Content source (auto, live, static)")
	cmd.Flags().Bool("probe-images", false, "Probe the images of valid entries for type and dimensions")
	cmd.Flags().Bool("strict", false, "Exit with an error when any entry is invalid")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	source, _ := cmd.Flags().GetString("source")
	probe, _ := cmd.Flags().GetBool("probe-images")
	strict, _ := cmd.Flags().GetBool("strict")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	source, records, err := collect(ctx, a, source)
	if err != nil {
		return err
	}

	report := validateRecords(records, validation.DefaultOptions())
	report.Source = source
	if probe {
		probeImages(ctx, a, records, &report)
	}

	if format == outputJSON {
		err = writeJSON(cmd.OutOrStdout(), report)
	} else {
		err = printValidateReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	if strict && report.Invalid > 0 {
		return fmt.Errorf("%w: %d of %d entries", errInvalidContent, report.Invalid, report.Total)
	}
	return nil
}

func collect(ctx context.Context, a *app.App, source string) (string, []record, error) {
	switch source {
	case sourceAuto:
		if a.Client != nil {
			return collect(ctx, a, sourceLive)
		}
		return collect(ctx, a, sourceStatic)
	case sourceLive:
		if a.Client == nil {
			return "", nil, errors.New("content service is not configured (set CONTENT_SPACE_ID and CONTENT_ACCESS_TOKEN)")
		}
		records, err := liveRecords(ctx, a.Client, content.LoadConfigFromEnv())
		return sourceLive, records, err
	case sourceStatic:
		return sourceStatic, staticRecords(a), nil
	default:
		return "", nil, fmt.Errorf("unknown source %q (want auto, live or static)", source)
	}
}

func liveRecords(ctx context.Context, client *cms.Client, cfg content.Config) ([]record, error) {
	shapes := []entity.ContentType{
		entity.ContentArticle,
		entity.ContentGallery,
		entity.ContentPageSection,
		entity.ContentLanding,
	}
	var out []record
	for _, ct := range shapes {
		typeID := cfg.ContentTypeIDs[ct]
		col, err := client.Entries(ctx, cms.Query{ContentType: typeID, Limit: 1000})
		if err != nil {
			return nil, fmt.Errorf("fetch %s entries: %w", typeID, err)
		}
		for _, e := range col.Items {
			out = append(out, record{ContentType: ct, ID: e.Sys.ID, Origin: typeID, Fields: e.Fields})
		}
	}
	return out, nil
}

func staticRecords(a *app.App) []record {
	var out []record
	for _, ds := range a.Bundle.PortfolioDatasets() {
		for i, f := range ds.Resolved() {
			id, _ := f[validation.FieldID].(string)
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			out = append(out, record{ContentType: entity.ContentPortfolio, ID: id, Origin: ds.Name, Fields: f})
		}
	}
	return out
}

func validateRecords(records []record, opts validation.Options) validateReport {
	batch := validation.BatchValidate(records, func(r record) validation.Result {
		fn := validation.ForContentType(r.ContentType)
		if fn == nil {
			return validation.Result{Errors: []string{fmt.Sprintf("unknown content type %q", r.ContentType)}}
		}
		return fn(r.Fields, opts)
	})

	report := validateReport{
		Total:        len(records),
		Valid:        len(batch.Valid),
		Invalid:      len(batch.Invalid),
		WithWarnings: len(batch.WithWarnings),
		Findings:     make([]finding, len(records)),
	}
	for i, r := range records {
		res := batch.Results[i]
		report.Findings[i] = finding{
			ContentType: r.ContentType,
			ID:          r.ID,
			Origin:      r.Origin,
			Valid:       res.IsValid,
			Errors:      res.Errors,
			Warnings:    res.Warnings,
		}
	}
	return report
}

// probeImages enriches the usable images of every valid record. Probe
// failures are reported per image and never fail the command.
func probeImages(ctx context.Context, a *app.App, records []record, report *validateReport) {
	opts := validation.DefaultOptions()
	for i, r := range records {
		if !report.Findings[i].Valid {
			continue
		}
		fn := validation.ForContentType(r.ContentType)
		for _, asset := range assetsOf(fn(r.Fields, opts).Data) {
			outcome := probeOutcome{URL: asset.URL}
			enriched, err := a.Prober.Enrich(ctx, asset)
			if err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.ContentType = enriched.ContentType
				outcome.Width, outcome.Height = enriched.Width, enriched.Height
			}
			report.Findings[i].Probes = append(report.Findings[i].Probes, outcome)
		}
	}
}

func assetsOf(data validation.Fields) []entity.Asset {
	var out []entity.Asset
	for _, v := range data {
		switch a := v.(type) {
		case entity.Asset:
			out = append(out, a)
		case *entity.Asset:
			if a != nil {
				out = append(out, *a)
			}
		case []entity.Asset:
			out = append(out, a...)
		}
	}
	return out
}

func printValidateReport(w io.Writer, report validateReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "source: %s\n", report.Source)
	fmt.Fprintf(&b, "%d entries: %d valid, %d invalid, %d with warnings\n",
		report.Total, report.Valid, report.Invalid, report.WithWarnings)
	for _, f := range report.Findings {
		if f.Valid && len(f.Warnings) == 0 && len(f.Probes) == 0 {
			continue
		}
		status := "OK"
		switch {
		case !f.Valid:
			status = "FAIL"
		case len(f.Warnings) > 0:
			status = "WARN"
		}
		fmt.Fprintf(&b, "\n[%s] %s %s (%s)\n", status, f.ContentType, f.ID, f.Origin)
		for _, e := range f.Errors {
			fmt.Fprintf(&b, "  error: %s\n", e)
		}
		for _, warn := range f.Warnings {
			fmt.Fprintf(&b, "  warning: %s\n", warn)
		}
		for _, p := range f.Probes {
			if p.Error != "" {
				fmt.Fprintf(&b, "  image %s: %s\n", p.URL, p.Error)
				continue
			}
			fmt.Fprintf(&b, "  image %s: %s %dx%d\n", p.URL, p.ContentType, p.Width, p.Height)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
