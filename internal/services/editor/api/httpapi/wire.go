package httpapi

import (
	"time"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
)

// Wire payloads use the snake_case field names the editor clients already
// speak. Conversions to and from domain types live here so handlers stay
// free of JSON concerns.

type definitionPayload struct {
	DefinitionVersion int                    `json:"definition_version"`
	TemplateType      string                 `json:"template_type"`
	TemplateID        string                 `json:"template_id"`
	MinDPI            int                    `json:"min_dpi"`
	Status            string                 `json:"status,omitempty"`
	Pages             []pagePayload          `json:"pages"`
	UsedPhotos        []usedPhotoPayload     `json:"used_photos,omitempty"`
	PrintQuantities   []printQuantityPayload `json:"print_quantities,omitempty"`
}

type pagePayload struct {
	Key               string                   `json:"key"`
	ColorKey          string                   `json:"color_key"`
	FilterTypeKey     string                   `json:"filter_type_key"`
	PageDefinitionKey string                   `json:"page_definition_key"`
	EditablePictures  []editablePicturePayload `json:"editable_pictures"`
	EditableTexts     []editableTextPayload    `json:"editable_texts"`
}

type editablePicturePayload struct {
	EditablePictureKey string           `json:"editable_picture_key"`
	SelectionPhotoKey  string           `json:"selection_photo_key"`
	FilterTag          string           `json:"filter_tag"`
	PhotoPlacement     placementPayload `json:"photo_placement"`
}

type editableTextPayload struct {
	EditableTextKey string `json:"editable_text_key"`
	Content         string `json:"content"`
	FontKey         string `json:"font_key"`
}

type placementPayload struct {
	IsDefault bool          `json:"is_default"`
	PlacedBy  string        `json:"placed_by"`
	Rotation  float64       `json:"rotation"`
	Offset    offsetPayload `json:"offset"`
	Size      sizePayload   `json:"size"`
}

type offsetPayload struct {
	XDmm float64 `json:"x_dmm"`
	YDmm float64 `json:"y_dmm"`
}

type sizePayload struct {
	WidthDmm  float64 `json:"width_dmm"`
	HeightDmm float64 `json:"height_dmm"`
}

type usedPhotoPayload struct {
	Key          string `json:"key"`
	CreationDate string `json:"creation_date"`
	HeightPx     int    `json:"height_px"`
	WidthPx      int    `json:"width_px"`
	Provider     string `json:"provider"`
	ProviderRef  string `json:"provider_ref"`
}

type printQuantityPayload struct {
	PageKey  string `json:"page_key"`
	Quantity int    `json:"quantity"`
}

type projectPayload struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type templatePayload struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Type              string                  `json:"type"`
	DefinitionVersion int                     `json:"definition_version"`
	MinDPI            int                     `json:"min_dpi"`
	PageDefinitions   []pageDefinitionPayload `json:"page_definitions"`
	PrintQuantities   []printQuantityPayload  `json:"print_quantities,omitempty"`
	Presentation      map[string]any          `json:"presentation,omitempty"`
}

type pageDefinitionPayload struct {
	Key               string `json:"key"`
	ColorKey          string `json:"color_key"`
	FilterTypeKey     string `json:"filter_type_key"`
	PageDefinitionKey string `json:"page_definition_key"`
}

func definitionToWire(def domain.Definition) definitionPayload {
	payload := definitionPayload{
		DefinitionVersion: def.DefinitionVersion,
		TemplateType:      string(def.TemplateType),
		TemplateID:        def.TemplateID,
		MinDPI:            def.MinDPI,
		Status:            string(def.Status),
		Pages:             make([]pagePayload, 0, len(def.Pages)),
	}
	for _, page := range def.Pages {
		pictures := make([]editablePicturePayload, 0, len(page.EditablePictures))
		for _, picture := range page.EditablePictures {
			pictures = append(pictures, editablePicturePayload{
				EditablePictureKey: picture.EditablePictureKey,
				SelectionPhotoKey:  picture.SelectionPhotoKey,
				FilterTag:          picture.FilterTag,
				PhotoPlacement: placementPayload{
					IsDefault: picture.PhotoPlacement.IsDefault,
					PlacedBy:  picture.PhotoPlacement.PlacedBy,
					Rotation:  picture.PhotoPlacement.Rotation,
					Offset: offsetPayload{
						XDmm: picture.PhotoPlacement.Offset.XDmm,
						YDmm: picture.PhotoPlacement.Offset.YDmm,
					},
					Size: sizePayload{
						WidthDmm:  picture.PhotoPlacement.Size.WidthDmm,
						HeightDmm: picture.PhotoPlacement.Size.HeightDmm,
					},
				},
			})
		}
		texts := make([]editableTextPayload, 0, len(page.EditableTexts))
		for _, text := range page.EditableTexts {
			texts = append(texts, editableTextPayload(text))
		}
		payload.Pages = append(payload.Pages, pagePayload{
			Key:               page.Key,
			ColorKey:          page.ColorKey,
			FilterTypeKey:     page.FilterTypeKey,
			PageDefinitionKey: page.PageDefinitionKey,
			EditablePictures:  pictures,
			EditableTexts:     texts,
		})
	}
	for _, photo := range def.UsedPhotos {
		payload.UsedPhotos = append(payload.UsedPhotos, usedPhotoPayload{
			Key:          photo.Key,
			CreationDate: photo.CreationDate.UTC().Format(time.RFC3339),
			HeightPx:     photo.HeightPx,
			WidthPx:      photo.WidthPx,
			Provider:     photo.Provider,
			ProviderRef:  photo.ProviderRef,
		})
	}
	for _, quantity := range def.PrintQuantities {
		payload.PrintQuantities = append(payload.PrintQuantities, printQuantityPayload(quantity))
	}
	return payload
}

func definitionFromWire(payload definitionPayload) domain.Definition {
	def := domain.Definition{
		DefinitionVersion: payload.DefinitionVersion,
		TemplateType:      domain.TemplateType(payload.TemplateType),
		TemplateID:        payload.TemplateID,
		MinDPI:            payload.MinDPI,
		Pages:             make([]domain.DefinitionPage, 0, len(payload.Pages)),
	}
	for _, page := range payload.Pages {
		pictures := make([]domain.EditablePicture, 0, len(page.EditablePictures))
		for _, picture := range page.EditablePictures {
			pictures = append(pictures, domain.EditablePicture{
				EditablePictureKey: picture.EditablePictureKey,
				SelectionPhotoKey:  picture.SelectionPhotoKey,
				FilterTag:          picture.FilterTag,
				PhotoPlacement: domain.PhotoPlacement{
					IsDefault: picture.PhotoPlacement.IsDefault,
					PlacedBy:  picture.PhotoPlacement.PlacedBy,
					Rotation:  picture.PhotoPlacement.Rotation,
					Offset: domain.Offset{
						XDmm: picture.PhotoPlacement.Offset.XDmm,
						YDmm: picture.PhotoPlacement.Offset.YDmm,
					},
					Size: domain.Size{
						WidthDmm:  picture.PhotoPlacement.Size.WidthDmm,
						HeightDmm: picture.PhotoPlacement.Size.HeightDmm,
					},
				},
			})
		}
		texts := make([]domain.EditableText, 0, len(page.EditableTexts))
		for _, text := range page.EditableTexts {
			texts = append(texts, domain.EditableText(text))
		}
		def.Pages = append(def.Pages, domain.DefinitionPage{
			Page: domain.Page{
				Key:               page.Key,
				ColorKey:          page.ColorKey,
				FilterTypeKey:     page.FilterTypeKey,
				PageDefinitionKey: page.PageDefinitionKey,
			},
			EditablePictures: pictures,
			EditableTexts:    texts,
		})
	}
	for _, photo := range payload.UsedPhotos {
		// An unparseable date stays zero and is reported by the validator
		// as a field violation instead of failing the whole document.
		creationDate, _ := time.Parse(time.RFC3339, photo.CreationDate)
		def.UsedPhotos = append(def.UsedPhotos, domain.UsedPhoto{
			Key:          photo.Key,
			CreationDate: creationDate,
			HeightPx:     photo.HeightPx,
			WidthPx:      photo.WidthPx,
			Provider:     photo.Provider,
			ProviderRef:  photo.ProviderRef,
		})
	}
	for _, quantity := range payload.PrintQuantities {
		def.PrintQuantities = append(def.PrintQuantities, domain.PrintQuantity(quantity))
	}
	return def
}

func projectToWire(project domain.Project) projectPayload {
	return projectPayload{
		ID:         project.ID,
		TemplateID: project.TemplateID,
		Status:     string(project.Status),
		CreatedAt:  project.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  project.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func templateToWire(template domain.ProductTemplate) templatePayload {
	payload := templatePayload{
		ID:                template.ID,
		Name:              template.Name,
		Type:              string(template.Type),
		DefinitionVersion: template.DefinitionVersion,
		MinDPI:            template.MinDPI,
		PageDefinitions:   make([]pageDefinitionPayload, 0, len(template.PageDefinitions)),
		Presentation:      template.Presentation,
	}
	for _, def := range template.PageDefinitions {
		payload.PageDefinitions = append(payload.PageDefinitions, pageDefinitionPayload(def))
	}
	for _, quantity := range template.PrintQuantities {
		payload.PrintQuantities = append(payload.PrintQuantities, printQuantityPayload(quantity))
	}
	return payload
}
