package domain

import "time"

// TemplateType distinguishes the product families a template can describe.
type TemplateType string

const (
	// TemplateTypePrint is a set of individual prints.
	TemplateTypePrint TemplateType = "print"
	// TemplateTypePhotobook is a bound photo book.
	TemplateTypePhotobook TemplateType = "photobook"
)

// PageDefinition is one editable page slot declared by a template.
// Pages materialized from it copy these structural keys verbatim.
type PageDefinition struct {
	Key               string
	ColorKey          string
	FilterTypeKey     string
	PageDefinitionKey string
}

// ProductTemplate is an immutable catalog entry describing what a product's
// pages can contain. Presentation carries colors, fonts and filter metadata
// that the engine passes through to clients without interpreting.
type ProductTemplate struct {
	ID                string
	Name              string
	Type              TemplateType
	DefinitionVersion int
	MinDPI            int
	PageDefinitions   []PageDefinition
	// PrintQuantities are default quantities seeded into a project's page
	// state at materialization. Optional.
	PrintQuantities []PrintQuantity
	Presentation    map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
