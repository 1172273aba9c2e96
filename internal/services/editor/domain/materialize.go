package domain

import (
	"fmt"
	"time"

	"github.com/fotom-studio/fotom/internal/platform/id"
)

// Materialize derives a project's initial page state from its template.
//
// One page is created per template page definition, copying only the
// structural keys; editable asset lists start empty. Template print
// quantities, when present, are copied verbatim as the initial quantities.
// This is the only seeding of quantities from the template: later reads
// never re-apply template defaults.
//
// Materialize is called at most once per project. The caller persists the
// result through a conditional insert keyed by project id, so a concurrent
// duplicate attempt surfaces as ErrAlreadyMaterialized instead of a second
// row.
func Materialize(project Project, template ProductTemplate, now func() time.Time, idGenerator func() (string, error)) (PageState, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if len(template.PageDefinitions) == 0 {
		return PageState{}, ErrTemplateIncomplete
	}

	stateID, err := idGenerator()
	if err != nil {
		return PageState{}, fmt.Errorf("generate page state id: %w", err)
	}

	pages := make([]Page, 0, len(template.PageDefinitions))
	for _, def := range template.PageDefinitions {
		pages = append(pages, Page{
			Key:               def.Key,
			ColorKey:          def.ColorKey,
			FilterTypeKey:     def.FilterTypeKey,
			PageDefinitionKey: def.PageDefinitionKey,
		})
	}

	var quantities []PrintQuantity
	if len(template.PrintQuantities) > 0 {
		quantities = make([]PrintQuantity, len(template.PrintQuantities))
		copy(quantities, template.PrintQuantities)
	}

	createdAt := now().UTC()
	return PageState{
		ID:              stateID,
		ProjectID:       project.ID,
		Pages:           pages,
		PrintQuantities: quantities,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}, nil
}
