// Package catalog ships the built-in product template catalog.
//
// Templates are bundled as YAML and upserted into template storage at
// startup. The seed is idempotent: re-running it refreshes template content
// without touching existing projects or their page states.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/storage"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type catalogFile struct {
	Templates []catalogTemplate `yaml:"templates"`
}

type catalogTemplate struct {
	ID                string                  `yaml:"id"`
	Name              string                  `yaml:"name"`
	Type              string                  `yaml:"type"`
	DefinitionVersion int                     `yaml:"definition_version"`
	MinDPI            int                     `yaml:"min_dpi"`
	PageDefinitions   []catalogPageDefinition `yaml:"page_definitions"`
	PrintQuantities   []catalogPrintQuantity  `yaml:"print_quantities"`
	Presentation      map[string]any          `yaml:"presentation"`
}

type catalogPageDefinition struct {
	Key               string `yaml:"key"`
	ColorKey          string `yaml:"color_key"`
	FilterTypeKey     string `yaml:"filter_type_key"`
	PageDefinitionKey string `yaml:"page_definition_key"`
}

type catalogPrintQuantity struct {
	PageKey  string `yaml:"page_key"`
	Quantity int    `yaml:"quantity"`
}

// Templates decodes the bundled catalog. Timestamps are stamped with now so
// the seed carries a consistent revision time.
func Templates(now func() time.Time) ([]domain.ProductTemplate, error) {
	if now == nil {
		now = time.Now
	}

	var file catalogFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}

	stamp := now().UTC()
	templates := make([]domain.ProductTemplate, 0, len(file.Templates))
	for i, entry := range file.Templates {
		if entry.ID == "" {
			return nil, fmt.Errorf("catalog template %d has no id", i)
		}
		if len(entry.PageDefinitions) == 0 {
			return nil, fmt.Errorf("catalog template %q has no page definitions", entry.ID)
		}

		defs := make([]domain.PageDefinition, 0, len(entry.PageDefinitions))
		for _, def := range entry.PageDefinitions {
			defs = append(defs, domain.PageDefinition(def))
		}
		var quantities []domain.PrintQuantity
		for _, quantity := range entry.PrintQuantities {
			quantities = append(quantities, domain.PrintQuantity(quantity))
		}

		templates = append(templates, domain.ProductTemplate{
			ID:                entry.ID,
			Name:              entry.Name,
			Type:              domain.TemplateType(entry.Type),
			DefinitionVersion: entry.DefinitionVersion,
			MinDPI:            entry.MinDPI,
			PageDefinitions:   defs,
			PrintQuantities:   quantities,
			Presentation:      entry.Presentation,
			CreatedAt:         stamp,
			UpdatedAt:         stamp,
		})
	}
	return templates, nil
}

// Seed upserts the bundled catalog into template storage.
func Seed(ctx context.Context, store storage.TemplateStore, now func() time.Time) error {
	templates, err := Templates(now)
	if err != nil {
		return err
	}
	for _, template := range templates {
		if err := store.PutTemplate(ctx, template); err != nil {
			return fmt.Errorf("seed template %q: %w", template.ID, err)
		}
	}
	return nil
}
