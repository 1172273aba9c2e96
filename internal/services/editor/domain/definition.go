package domain

// DefinitionPage is one page of the composed definition document: the
// persisted structural keys plus the editable assets joined to it.
type DefinitionPage struct {
	Page
	EditablePictures []EditablePicture
	EditableTexts    []EditableText
}

// Definition is the client-facing projection of a project's editing state.
// It is composed on every read and never persisted as a whole: the
// definition-level fields come from the current template, status from the
// project row, pages and quantities from the page state.
type Definition struct {
	DefinitionVersion int
	TemplateType      TemplateType
	TemplateID        string
	MinDPI            int
	Status            ProjectStatus
	Pages             []DefinitionPage
	UsedPhotos        []UsedPhoto
	// PrintQuantities is nil when the page state carries none; the
	// template default is not substituted after materialization.
	PrintQuantities []PrintQuantity
}
