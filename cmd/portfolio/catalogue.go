package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/usecase/portfolio"
)

type catalogueOutput struct {
	Category entity.Category         `json:"category"`
	Entries  []entity.PortfolioEntry `json:"entries"`
	Report   portfolio.Report        `json:"report"`
}

func newCatalogueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Build and print the portfolio catalogue",
		Args:  cobra.NoArgs,
		RunE:  runCatalogue,
	}
	cmd.Flags().StringP("category", "c", string(entity.CategoryAll), "Category label, or \"all\"")
	cmd.Flags().Bool("featured", false, "Only featured entries")
	cmd.Flags().Int("limit", 0, "Maximum number of entries (0 means no limit)")
	return cmd
}

func parseCategory(raw string) (entity.Category, error) {
	if raw == "" || strings.EqualFold(raw, string(entity.CategoryAll)) {
		return entity.CategoryAll, nil
	}
	c := entity.Category(raw)
	if !c.Valid() {
		names := make([]string, 0, len(entity.Categories()))
		for _, known := range entity.Categories() {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("unknown category %q (want one of: all, %s)", raw, strings.Join(names, ", "))
	}
	return c, nil
}

func runCatalogue(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	rawCategory, _ := cmd.Flags().GetString("category")
	featured, _ := cmd.Flags().GetBool("featured")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	category, err := parseCategory(rawCategory)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	cat, err := a.Aggregator.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build catalogue: %w", err)
	}

	out := catalogueOutput{
		Category: category,
		Entries:  cat.ByCategory(category, featured, limit),
		Report:   cat.Report(),
	}
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	return printCatalogue(cmd.OutOrStdout(), out)
}

func printCatalogue(w io.Writer, out catalogueOutput) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tFEATURED\tIMAGES\tSOURCE")
	for _, e := range out.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%s\n", e.ID, e.Title, e.Category, e.Featured, len(e.Images), e.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d shown; %d loaded, %d kept, %d rejected, %d live\n",
		len(out.Entries), out.Report.Loaded, out.Report.Kept, len(out.Report.Rejections), out.Report.LiveItems)
	return err
}
