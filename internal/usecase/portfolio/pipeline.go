// Package portfolio merges the portfolio datasets into one ordered,
// filterable catalogue.
//
// The catalogue is built by a pipeline of independent stages:
//
//	Load -> Tag -> FilterMedia -> Dedupe -> Assign -> Freeze
//
// Each stage is a plain function over slices so it can be tested on its own.
// The frozen Catalogue is never modified; queries return copies.
package portfolio

import (
	"fmt"
	"slices"
	"strings"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/staticdata"
)

// LiveDataset names records that came from the content service.
const LiveDataset = "content-service"

// Record is one raw dataset entry.
type Record struct {
	Dataset  string
	Position int
	Fields   validation.Fields
}

// Candidate is a validated entry moving through the pipeline.
type Candidate struct {
	Entry    entity.PortfolioEntry
	Assets   []entity.Asset
	Dataset  string
	Warnings []string
}

// Rejection records why an entry left the pipeline.
type Rejection struct {
	ID      string `json:"id"`
	Dataset string `json:"dataset"`
	Stage   string `json:"stage"`
	Reason  string `json:"reason"`
}

// Load flattens the live gallery items, then the static datasets, into
// records. Live items come first so they win over static entries with the
// same id. Dataset defaults are applied here.
func Load(datasets []staticdata.Dataset, live []entity.GalleryItem) []Record {
	var out []Record
	for i, g := range live {
		out = append(out, Record{Dataset: LiveDataset, Position: i, Fields: galleryFields(g)})
	}
	for _, ds := range datasets {
		for i, f := range ds.Resolved() {
			out = append(out, Record{Dataset: ds.Name, Position: i, Fields: f})
		}
	}
	return out
}

func galleryFields(g entity.GalleryItem) validation.Fields {
	images := make([]any, 0, len(g.Images))
	for _, img := range g.Images {
		images = append(images, map[string]any{
			"url":          img.URL,
			"title":        img.Title,
			"description":  img.Description,
			"content_type": img.ContentType,
			"size":         img.Size,
			"width":        img.Width,
			"height":       img.Height,
		})
	}
	tags := make([]any, 0, len(g.Tags))
	for _, t := range g.Tags {
		tags = append(tags, t)
	}
	f := validation.Fields{
		validation.FieldID:          g.ID,
		validation.FieldTitle:       g.Title,
		validation.FieldSubtitle:    g.Subtitle,
		validation.FieldDescription: g.Description,
		validation.FieldCategory:    g.Category,
		validation.FieldImages:      images,
		validation.FieldFeatured:    g.Featured,
		validation.FieldTags:        tags,
	}
	if g.DisplayOrder != nil {
		f[validation.FieldDisplayOrder] = *g.DisplayOrder
	}
	return f
}

// Tag validates every record. Invalid records are rejected; valid ones carry
// their warnings and dataset name forward.
func Tag(records []Record, opts validation.Options) ([]Candidate, []Rejection) {
	batch := validation.BatchValidate(records, func(r Record) validation.Result {
		return validation.ValidatePortfolioEntry(r.Fields, opts)
	})

	var (
		out      []Candidate
		rejected []Rejection
	)
	for i, r := range batch.Results {
		rec := records[i]
		if !r.IsValid {
			id, _ := rec.Fields[validation.FieldID].(string)
			if id == "" {
				id = fmt.Sprintf("%s[%d]", rec.Dataset, rec.Position)
			}
			rejected = append(rejected, Rejection{ID: id, Dataset: rec.Dataset, Stage: "tag", Reason: strings.Join(r.Errors, "; ")})
			continue
		}
		out = append(out, candidateFrom(r.Data, rec.Dataset, r.Warnings))
	}
	return out, rejected
}

func candidateFrom(d validation.Fields, dataset string, warnings []string) Candidate {
	e := entity.PortfolioEntry{Source: dataset}
	e.ID, _ = d[validation.FieldID].(string)
	e.Title, _ = d[validation.FieldTitle].(string)
	e.Subtitle, _ = d[validation.FieldSubtitle].(string)
	e.Description, _ = d[validation.FieldDescription].(string)
	category, _ := d[validation.FieldCategory].(string)
	e.Category = entity.Category(category)
	e.Featured, _ = d[validation.FieldFeatured].(bool)
	e.Tags, _ = d[validation.FieldTags].([]string)
	// The validator stores an int only when the record carried an order.
	if n, ok := d[validation.FieldDisplayOrder].(int); ok {
		e.DisplayOrder = &n
	}
	assets, _ := d[validation.FieldImages].([]entity.Asset)
	return Candidate{Entry: e, Assets: assets, Dataset: dataset, Warnings: warnings}
}

// FilterMedia resolves every image through resolver, dropping unusable
// references, and rejects entries left without images.
func FilterMedia(cands []Candidate, resolver *AssetResolver) ([]Candidate, []Rejection) {
	var (
		out      []Candidate
		rejected []Rejection
	)
	for _, c := range cands {
		images := make([]entity.PortfolioImage, 0, len(c.Assets))
		for _, a := range c.Assets {
			if img, ok := resolver.Resolve(a); ok {
				images = append(images, img)
			}
		}
		if len(images) == 0 {
			rejected = append(rejected, Rejection{
				ID: c.Entry.ID, Dataset: c.Dataset, Stage: "media",
				Reason: fmt.Sprintf("none of %d image references is usable", len(c.Assets)),
			})
			continue
		}
		c.Entry.Images = images
		out = append(out, c)
	}
	return out, rejected
}

// Dedupe keeps the first candidate of every id.
func Dedupe(cands []Candidate) ([]Candidate, []Rejection) {
	seen := make(map[string]string, len(cands))
	var (
		out      []Candidate
		rejected []Rejection
	)
	for _, c := range cands {
		if first, dup := seen[c.Entry.ID]; dup {
			rejected = append(rejected, Rejection{
				ID: c.Entry.ID, Dataset: c.Dataset, Stage: "dedupe",
				Reason: "duplicate of an entry from " + first,
			})
			continue
		}
		seen[c.Entry.ID] = c.Dataset
		out = append(out, c)
	}
	return out, rejected
}

// Assign fills derived fields: tags are lower-cased and de-duplicated,
// and every entry gets a non-nil tag list.
func Assign(cands []Candidate) []entity.PortfolioEntry {
	out := make([]entity.PortfolioEntry, 0, len(cands))
	for _, c := range cands {
		e := c.Entry
		tags := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" && !slices.Contains(tags, t) {
				tags = append(tags, t)
			}
		}
		e.Tags = tags
		out = append(out, e)
	}
	return out
}
