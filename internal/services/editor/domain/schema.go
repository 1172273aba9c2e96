package domain

import (
	"fmt"
	"slices"
)

// FieldViolation is one structural problem found in a submitted definition.
// Field is the wire path of the offending value, e.g. "pages[0].color_key".
type FieldViolation struct {
	Field  string
	Reason string
}

// Schema is the structural contract a definition document must satisfy.
// The enumerations are configuration: extending a product vocabulary means
// shipping a new Schema value, not changing the validation logic.
type Schema struct {
	TemplateTypes      []TemplateType
	ColorKeys          []string
	FilterTypeKeys     []string
	PageDefinitionKeys []string
	FilterTags         []string
	PlacedByValues     []string
	FontKeys           []string
}

// DefaultSchema returns the schema for the current product vocabulary.
func DefaultSchema() Schema {
	return Schema{
		TemplateTypes:      []TemplateType{TemplateTypePrint, TemplateTypePhotobook},
		ColorKeys:          []string{"white", "black", "red"},
		FilterTypeKeys:     []string{"default"},
		PageDefinitionKeys: []string{"STANDARD", "T1-RETRO"},
		FilterTags:         []string{"none", "greycheerzou"},
		PlacedByValues:     []string{"none", "user"},
		FontKeys:           []string{"font-playfair", "font-arial", "font-roboto"},
	}
}

// Validate checks a definition document against the structural contract.
//
// It is pure and total: it never consults storage, and it returns every
// violation it finds rather than stopping at the first. Cross-checks that
// need the project's current template (page definition membership, print
// quantity references) belong to the save path, not here.
//
// Status is not validated: it is server-sourced and ignored on input.
func (s Schema) Validate(def Definition) []FieldViolation {
	var violations []FieldViolation
	add := func(field, reason string) {
		violations = append(violations, FieldViolation{Field: field, Reason: reason})
	}

	if def.DefinitionVersion < 0 {
		add("definition_version", "must be a non-negative integer")
	}
	if !slices.Contains(s.TemplateTypes, def.TemplateType) {
		add("template_type", enumReason(string(def.TemplateType), templateTypeStrings(s.TemplateTypes)))
	}

	seenPageKeys := make(map[string]bool, len(def.Pages))
	for i, page := range def.Pages {
		path := fmt.Sprintf("pages[%d]", i)
		if page.Key == "" {
			add(path+".key", "must not be empty")
		} else if seenPageKeys[page.Key] {
			add(path+".key", fmt.Sprintf("duplicate page key %q", page.Key))
		} else {
			seenPageKeys[page.Key] = true
		}
		if !slices.Contains(s.ColorKeys, page.ColorKey) {
			add(path+".color_key", enumReason(page.ColorKey, s.ColorKeys))
		}
		if !slices.Contains(s.FilterTypeKeys, page.FilterTypeKey) {
			add(path+".filter_type_key", enumReason(page.FilterTypeKey, s.FilterTypeKeys))
		}
		if !slices.Contains(s.PageDefinitionKeys, page.PageDefinitionKey) {
			add(path+".page_definition_key", enumReason(page.PageDefinitionKey, s.PageDefinitionKeys))
		}

		for j, picture := range page.EditablePictures {
			picturePath := fmt.Sprintf("%s.editable_pictures[%d]", path, j)
			if picture.EditablePictureKey == "" {
				add(picturePath+".editable_picture_key", "must not be empty")
			}
			if !slices.Contains(s.FilterTags, picture.FilterTag) {
				add(picturePath+".filter_tag", enumReason(picture.FilterTag, s.FilterTags))
			}
			if !slices.Contains(s.PlacedByValues, picture.PhotoPlacement.PlacedBy) {
				add(picturePath+".photo_placement.placed_by", enumReason(picture.PhotoPlacement.PlacedBy, s.PlacedByValues))
			}
		}

		for j, text := range page.EditableTexts {
			textPath := fmt.Sprintf("%s.editable_texts[%d]", path, j)
			if text.EditableTextKey == "" {
				add(textPath+".editable_text_key", "must not be empty")
			}
			if !slices.Contains(s.FontKeys, text.FontKey) {
				add(textPath+".font_key", enumReason(text.FontKey, s.FontKeys))
			}
		}
	}

	for i, photo := range def.UsedPhotos {
		path := fmt.Sprintf("used_photos[%d]", i)
		if photo.Key == "" {
			add(path+".key", "must not be empty")
		}
		if photo.CreationDate.IsZero() {
			add(path+".creation_date", "must be a valid ISO-8601 timestamp")
		}
		if photo.HeightPx <= 0 {
			add(path+".height_px", "must be a positive integer")
		}
		if photo.WidthPx <= 0 {
			add(path+".width_px", "must be a positive integer")
		}
		if photo.Provider == "" {
			add(path+".provider", "must not be empty")
		}
		if photo.ProviderRef == "" {
			add(path+".provider_ref", "must not be empty")
		}
	}

	for i, quantity := range def.PrintQuantities {
		path := fmt.Sprintf("print_quantities[%d]", i)
		if quantity.PageKey == "" {
			add(path+".page_key", "must not be empty")
		}
		if quantity.Quantity < 1 {
			add(path+".quantity", "must be an integer greater than or equal to 1")
		}
	}

	return violations
}

func enumReason(got string, allowed []string) string {
	if got == "" {
		return fmt.Sprintf("is required, one of %v", allowed)
	}
	return fmt.Sprintf("%q is not one of %v", got, allowed)
}

func templateTypeStrings(types []TemplateType) []string {
	values := make([]string, len(types))
	for i, t := range types {
		values[i] = string(t)
	}
	return values
}
