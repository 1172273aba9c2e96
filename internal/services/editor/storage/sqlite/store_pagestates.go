package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/storage"
)

// dbPage is the stored JSON shape of one page document entry.
type dbPage struct {
	Key               string `json:"key"`
	ColorKey          string `json:"color_key"`
	FilterTypeKey     string `json:"filter_type_key"`
	PageDefinitionKey string `json:"page_definition_key"`
}

// dbUsedPhoto is the stored JSON shape of one used photo record.
type dbUsedPhoto struct {
	Key          string `json:"key"`
	CreationDate int64  `json:"creation_date"`
	HeightPx     int    `json:"height_px"`
	WidthPx      int    `json:"width_px"`
	Provider     string `json:"provider"`
	ProviderRef  string `json:"provider_ref"`
}

// dbPlacement is the stored JSON shape of a photo placement payload.
type dbPlacement struct {
	IsDefault bool    `json:"is_default"`
	PlacedBy  string  `json:"placed_by"`
	Rotation  float64 `json:"rotation"`
	XDmm      float64 `json:"x_dmm"`
	YDmm      float64 `json:"y_dmm"`
	WidthDmm  float64 `json:"width_dmm"`
	HeightDmm float64 `json:"height_dmm"`
}

func encodePages(pages []domain.Page) (string, error) {
	rows := make([]dbPage, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, dbPage(page))
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode pages: %w", err)
	}
	return string(encoded), nil
}

func decodePages(encoded string) ([]domain.Page, error) {
	var rows []dbPage
	if err := json.Unmarshal([]byte(encoded), &rows); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	pages := make([]domain.Page, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, domain.Page(row))
	}
	return pages, nil
}

func encodeUsedPhotos(photos []domain.UsedPhoto) (sql.NullString, error) {
	if len(photos) == 0 {
		return sql.NullString{}, nil
	}
	rows := make([]dbUsedPhoto, 0, len(photos))
	for _, photo := range photos {
		rows = append(rows, dbUsedPhoto{
			Key:          photo.Key,
			CreationDate: toMillis(photo.CreationDate),
			HeightPx:     photo.HeightPx,
			WidthPx:      photo.WidthPx,
			Provider:     photo.Provider,
			ProviderRef:  photo.ProviderRef,
		})
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode used photos: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func decodeUsedPhotos(encoded sql.NullString) ([]domain.UsedPhoto, error) {
	if !encoded.Valid {
		return nil, nil
	}
	var rows []dbUsedPhoto
	if err := json.Unmarshal([]byte(encoded.String), &rows); err != nil {
		return nil, fmt.Errorf("decode used photos: %w", err)
	}
	photos := make([]domain.UsedPhoto, 0, len(rows))
	for _, row := range rows {
		photos = append(photos, domain.UsedPhoto{
			Key:          row.Key,
			CreationDate: fromMillis(row.CreationDate),
			HeightPx:     row.HeightPx,
			WidthPx:      row.WidthPx,
			Provider:     row.Provider,
			ProviderRef:  row.ProviderRef,
		})
	}
	return photos, nil
}

func encodePlacement(placement domain.PhotoPlacement) (string, error) {
	encoded, err := json.Marshal(dbPlacement{
		IsDefault: placement.IsDefault,
		PlacedBy:  placement.PlacedBy,
		Rotation:  placement.Rotation,
		XDmm:      placement.Offset.XDmm,
		YDmm:      placement.Offset.YDmm,
		WidthDmm:  placement.Size.WidthDmm,
		HeightDmm: placement.Size.HeightDmm,
	})
	if err != nil {
		return "", fmt.Errorf("encode placement: %w", err)
	}
	return string(encoded), nil
}

func decodePlacement(encoded string) (domain.PhotoPlacement, error) {
	var row dbPlacement
	if err := json.Unmarshal([]byte(encoded), &row); err != nil {
		return domain.PhotoPlacement{}, fmt.Errorf("decode placement: %w", err)
	}
	return domain.PhotoPlacement{
		IsDefault: row.IsDefault,
		PlacedBy:  row.PlacedBy,
		Rotation:  row.Rotation,
		Offset:    domain.Offset{XDmm: row.XDmm, YDmm: row.YDmm},
		Size:      domain.Size{WidthDmm: row.WidthDmm, HeightDmm: row.HeightDmm},
	}, nil
}

// CreatePageState inserts a new page state. The project id is unique in the
// schema, so the loser of a concurrent first-open race gets
// storage.ErrPageStateExists and nothing is written.
func (s *Store) CreatePageState(ctx context.Context, state domain.PageState) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	pages, err := encodePages(state.Pages)
	if err != nil {
		return err
	}
	quantities, err := encodePrintQuantities(state.PrintQuantities)
	if err != nil {
		return err
	}
	photos, err := encodeUsedPhotos(state.UsedPhotos)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO page_states (id, project_id, pages_json, print_quantities_json, used_photos_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		state.ID,
		state.ProjectID,
		pages,
		quantities,
		photos,
		toMillis(state.CreatedAt),
		toMillis(state.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrPageStateExists
		}
		return fmt.Errorf("create page state: %w", err)
	}
	return nil
}

func scanPageState(scan func(dest ...any) error) (domain.PageState, error) {
	var state domain.PageState
	var pages string
	var quantities, photos sql.NullString
	var createdAt, updatedAt int64
	if err := scan(
		&state.ID,
		&state.ProjectID,
		&pages,
		&quantities,
		&photos,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.PageState{}, err
	}

	decodedPages, err := decodePages(pages)
	if err != nil {
		return domain.PageState{}, err
	}
	state.Pages = decodedPages

	decodedQuantities, err := decodePrintQuantities(quantities)
	if err != nil {
		return domain.PageState{}, err
	}
	state.PrintQuantities = decodedQuantities

	decodedPhotos, err := decodeUsedPhotos(photos)
	if err != nil {
		return domain.PageState{}, err
	}
	state.UsedPhotos = decodedPhotos

	state.CreatedAt = fromMillis(createdAt)
	state.UpdatedAt = fromMillis(updatedAt)
	return state, nil
}

// GetPageStateByProject loads the page state for a project.
func (s *Store) GetPageStateByProject(ctx context.Context, projectID string) (domain.PageState, error) {
	if s == nil || s.sqlDB == nil {
		return domain.PageState{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, project_id, pages_json, print_quantities_json, used_photos_json, created_at, updated_at
		 FROM page_states
		 WHERE project_id = ?`,
		projectID,
	)
	state, err := scanPageState(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.PageState{}, storage.ErrNotFound
		}
		return domain.PageState{}, fmt.Errorf("get page state: %w", err)
	}
	return state, nil
}

// GetAssets loads a page state's editable assets grouped by page key.
// Stored order within each page is preserved.
func (s *Store) GetAssets(ctx context.Context, pageStateID string) (domain.AssetsByPage, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	assets := domain.AssetsByPage{}

	pictureRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT page_key, editable_picture_key, selection_photo_key, filter_tag, placement_json
		 FROM editable_pictures
		 WHERE page_state_id = ?
		 ORDER BY page_key, position`,
		pageStateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list editable pictures: %w", err)
	}
	defer func() {
		_ = pictureRows.Close()
	}()

	for pictureRows.Next() {
		var pageKey, placement string
		var picture domain.EditablePicture
		if err := pictureRows.Scan(
			&pageKey,
			&picture.EditablePictureKey,
			&picture.SelectionPhotoKey,
			&picture.FilterTag,
			&placement,
		); err != nil {
			return nil, fmt.Errorf("scan editable picture: %w", err)
		}
		decoded, err := decodePlacement(placement)
		if err != nil {
			return nil, err
		}
		picture.PhotoPlacement = decoded

		entry := assets[pageKey]
		entry.Pictures = append(entry.Pictures, picture)
		assets[pageKey] = entry
	}
	if err := pictureRows.Err(); err != nil {
		return nil, fmt.Errorf("list editable pictures: %w", err)
	}

	textRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT page_key, editable_text_key, content, font_key
		 FROM editable_texts
		 WHERE page_state_id = ?
		 ORDER BY page_key, position`,
		pageStateID,
	)
	if err != nil {
		return nil, fmt.Errorf("list editable texts: %w", err)
	}
	defer func() {
		_ = textRows.Close()
	}()

	for textRows.Next() {
		var pageKey string
		var text domain.EditableText
		if err := textRows.Scan(
			&pageKey,
			&text.EditableTextKey,
			&text.Content,
			&text.FontKey,
		); err != nil {
			return nil, fmt.Errorf("scan editable text: %w", err)
		}

		entry := assets[pageKey]
		entry.Texts = append(entry.Texts, text)
		assets[pageKey] = entry
	}
	if err := textRows.Err(); err != nil {
		return nil, fmt.Errorf("list editable texts: %w", err)
	}

	return assets, nil
}

// ReplacePageState replaces the page state document and all of its editable
// assets in one transaction. Assets are rewritten in page order so stored
// positions reflect the saved order.
func (s *Store) ReplacePageState(ctx context.Context, state domain.PageState, assets domain.AssetsByPage) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	pages, err := encodePages(state.Pages)
	if err != nil {
		return err
	}
	quantities, err := encodePrintQuantities(state.PrintQuantities)
	if err != nil {
		return err
	}
	photos, err := encodeUsedPhotos(state.UsedPhotos)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace page state: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(
		ctx,
		`UPDATE page_states
		 SET pages_json = ?, print_quantities_json = ?, used_photos_json = ?, updated_at = ?
		 WHERE id = ?`,
		pages,
		quantities,
		photos,
		toMillis(state.UpdatedAt),
		state.ID,
	)
	if err != nil {
		return fmt.Errorf("update page state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update page state: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM editable_pictures WHERE page_state_id = ?`, state.ID); err != nil {
		return fmt.Errorf("clear editable pictures: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM editable_texts WHERE page_state_id = ?`, state.ID); err != nil {
		return fmt.Errorf("clear editable texts: %w", err)
	}

	for _, page := range state.Pages {
		entry := assets[page.Key]
		for position, picture := range entry.Pictures {
			placement, err := encodePlacement(picture.PhotoPlacement)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO editable_pictures (page_state_id, page_key, position, editable_picture_key, selection_photo_key, filter_tag, placement_json)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				state.ID,
				page.Key,
				position,
				picture.EditablePictureKey,
				picture.SelectionPhotoKey,
				picture.FilterTag,
				placement,
			); err != nil {
				return fmt.Errorf("insert editable picture: %w", err)
			}
		}
		for position, text := range entry.Texts {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO editable_texts (page_state_id, page_key, position, editable_text_key, content, font_key)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				state.ID,
				page.Key,
				position,
				text.EditableTextKey,
				text.Content,
				text.FontKey,
			); err != nil {
				return fmt.Errorf("insert editable text: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace page state: %w", err)
	}
	return nil
}
