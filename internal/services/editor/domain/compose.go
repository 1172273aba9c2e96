package domain

// Compose builds the definition document returned to clients.
//
// Definition-level fields (version, type, min DPI) are always sourced from
// the current template, so a template revision is visible on the next read
// without migrating page state. Status comes from the project row.
//
// When pageState is nil the definition is derived straight from the
// template, mirroring what Materialize would persist; Compose itself never
// mutates anything. When pageState is present, editable assets are joined
// onto each page by key; a page without assets gets empty slices, which is
// a normal state and not an error.
func Compose(project Project, template ProductTemplate, pageState *PageState, assets AssetsByPage) Definition {
	def := Definition{
		DefinitionVersion: template.DefinitionVersion,
		TemplateType:      template.Type,
		TemplateID:        template.ID,
		MinDPI:            template.MinDPI,
		Status:            project.Status,
	}

	if pageState == nil {
		def.Pages = make([]DefinitionPage, 0, len(template.PageDefinitions))
		for _, pd := range template.PageDefinitions {
			def.Pages = append(def.Pages, DefinitionPage{
				Page: Page{
					Key:               pd.Key,
					ColorKey:          pd.ColorKey,
					FilterTypeKey:     pd.FilterTypeKey,
					PageDefinitionKey: pd.PageDefinitionKey,
				},
				EditablePictures: []EditablePicture{},
				EditableTexts:    []EditableText{},
			})
		}
		if len(template.PrintQuantities) > 0 {
			def.PrintQuantities = make([]PrintQuantity, len(template.PrintQuantities))
			copy(def.PrintQuantities, template.PrintQuantities)
		}
		return def
	}

	def.Pages = make([]DefinitionPage, 0, len(pageState.Pages))
	for _, page := range pageState.Pages {
		pageAssets := assets[page.Key]
		pictures := pageAssets.Pictures
		if pictures == nil {
			pictures = []EditablePicture{}
		}
		texts := pageAssets.Texts
		if texts == nil {
			texts = []EditableText{}
		}
		def.Pages = append(def.Pages, DefinitionPage{
			Page:             page,
			EditablePictures: pictures,
			EditableTexts:    texts,
		})
	}

	if len(pageState.PrintQuantities) > 0 {
		def.PrintQuantities = make([]PrintQuantity, len(pageState.PrintQuantities))
		copy(def.PrintQuantities, pageState.PrintQuantities)
	}
	if len(pageState.UsedPhotos) > 0 {
		def.UsedPhotos = make([]UsedPhoto, len(pageState.UsedPhotos))
		copy(def.UsedPhotos, pageState.UsedPhotos)
	}

	return def
}
