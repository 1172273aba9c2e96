package domain

import "time"

// Page is one persisted editable page. Its structural keys come from the
// template's page definition; editable assets are stored separately and
// joined back in at composition time.
type Page struct {
	Key               string
	ColorKey          string
	FilterTypeKey     string
	PageDefinitionKey string
}

// Offset positions a photo on a page, in decimillimeters.
type Offset struct {
	XDmm float64
	YDmm float64
}

// Size describes a photo's placed dimensions, in decimillimeters.
type Size struct {
	WidthDmm  float64
	HeightDmm float64
}

// PhotoPlacement records how a photo sits inside its picture slot.
type PhotoPlacement struct {
	IsDefault bool
	PlacedBy  string
	Rotation  float64
	Offset    Offset
	Size      Size
}

// EditablePicture is a photo slot edit attached to a page.
type EditablePicture struct {
	EditablePictureKey string
	SelectionPhotoKey  string
	FilterTag          string
	PhotoPlacement     PhotoPlacement
}

// EditableText is a text slot edit attached to a page.
type EditableText struct {
	EditableTextKey string
	Content         string
	FontKey         string
}

// PageAssets groups the editable assets joined to one page.
type PageAssets struct {
	Pictures []EditablePicture
	Texts    []EditableText
}

// AssetsByPage indexes editable assets by their owning page key.
type AssetsByPage map[string]PageAssets

// PrintQuantity is a requested print count for one page.
type PrintQuantity struct {
	PageKey  string
	Quantity int
}

// UsedPhoto records the provenance of a photo referenced by a project.
type UsedPhoto struct {
	Key          string
	CreationDate time.Time
	HeightPx     int
	WidthPx      int
	Provider     string
	ProviderRef  string
}

// PageState is the persisted, mutable editing state of one project.
// It exists exactly once per opened project and is created only by
// Materialize; afterwards it changes only through validated saves.
type PageState struct {
	ID        string
	ProjectID string
	Pages     []Page
	// PrintQuantities are seeded from the template at materialization and
	// then owned by the client. Absence is a valid state and is never
	// re-defaulted from the template.
	PrintQuantities []PrintQuantity
	UsedPhotos      []UsedPhoto
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PageByKey returns the page with the given key, if present.
func (s PageState) PageByKey(key string) (Page, bool) {
	for _, page := range s.Pages {
		if page.Key == key {
			return page, true
		}
	}
	return Page{}, false
}
