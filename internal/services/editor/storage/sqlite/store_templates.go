package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fotom-studio/fotom/internal/services/editor/domain"
	"github.com/fotom-studio/fotom/internal/services/editor/storage"
)

// dbPageDefinition is the stored JSON shape of one template page definition.
type dbPageDefinition struct {
	Key               string `json:"key"`
	ColorKey          string `json:"color_key"`
	FilterTypeKey     string `json:"filter_type_key"`
	PageDefinitionKey string `json:"page_definition_key"`
}

// dbPrintQuantity is the stored JSON shape of one print quantity entry.
type dbPrintQuantity struct {
	PageKey  string `json:"page_key"`
	Quantity int    `json:"quantity"`
}

func encodePageDefinitions(defs []domain.PageDefinition) (string, error) {
	rows := make([]dbPageDefinition, 0, len(defs))
	for _, def := range defs {
		rows = append(rows, dbPageDefinition(def))
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode page definitions: %w", err)
	}
	return string(encoded), nil
}

func decodePageDefinitions(encoded string) ([]domain.PageDefinition, error) {
	var rows []dbPageDefinition
	if err := json.Unmarshal([]byte(encoded), &rows); err != nil {
		return nil, fmt.Errorf("decode page definitions: %w", err)
	}
	defs := make([]domain.PageDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, domain.PageDefinition(row))
	}
	return defs, nil
}

func encodePrintQuantities(quantities []domain.PrintQuantity) (sql.NullString, error) {
	if len(quantities) == 0 {
		return sql.NullString{}, nil
	}
	rows := make([]dbPrintQuantity, 0, len(quantities))
	for _, quantity := range quantities {
		rows = append(rows, dbPrintQuantity(quantity))
	}
	encoded, err := json.Marshal(rows)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode print quantities: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func decodePrintQuantities(encoded sql.NullString) ([]domain.PrintQuantity, error) {
	if !encoded.Valid {
		return nil, nil
	}
	var rows []dbPrintQuantity
	if err := json.Unmarshal([]byte(encoded.String), &rows); err != nil {
		return nil, fmt.Errorf("decode print quantities: %w", err)
	}
	quantities := make([]domain.PrintQuantity, 0, len(rows))
	for _, row := range rows {
		quantities = append(quantities, domain.PrintQuantity(row))
	}
	return quantities, nil
}

func encodePresentation(presentation map[string]any) (sql.NullString, error) {
	if len(presentation) == 0 {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(presentation)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode presentation: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}

func decodePresentation(encoded sql.NullString) (map[string]any, error) {
	if !encoded.Valid {
		return nil, nil
	}
	var presentation map[string]any
	if err := json.Unmarshal([]byte(encoded.String), &presentation); err != nil {
		return nil, fmt.Errorf("decode presentation: %w", err)
	}
	return presentation, nil
}

// PutTemplate inserts or updates a product template catalog record.
func (s *Store) PutTemplate(ctx context.Context, template domain.ProductTemplate) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	pageDefs, err := encodePageDefinitions(template.PageDefinitions)
	if err != nil {
		return err
	}
	quantities, err := encodePrintQuantities(template.PrintQuantities)
	if err != nil {
		return err
	}
	presentation, err := encodePresentation(template.Presentation)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO product_templates
		     (id, name, template_type, definition_version, min_dpi, page_definitions_json, print_quantities_json, presentation_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     name = excluded.name,
		     template_type = excluded.template_type,
		     definition_version = excluded.definition_version,
		     min_dpi = excluded.min_dpi,
		     page_definitions_json = excluded.page_definitions_json,
		     print_quantities_json = excluded.print_quantities_json,
		     presentation_json = excluded.presentation_json,
		     updated_at = excluded.updated_at`,
		template.ID,
		template.Name,
		string(template.Type),
		template.DefinitionVersion,
		template.MinDPI,
		pageDefs,
		quantities,
		presentation,
		toMillis(template.CreatedAt),
		toMillis(template.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put template: %w", err)
	}
	return nil
}

func scanTemplate(scan func(dest ...any) error) (domain.ProductTemplate, error) {
	var template domain.ProductTemplate
	var templateType string
	var pageDefs string
	var quantities, presentation sql.NullString
	var createdAt, updatedAt int64
	if err := scan(
		&template.ID,
		&template.Name,
		&templateType,
		&template.DefinitionVersion,
		&template.MinDPI,
		&pageDefs,
		&quantities,
		&presentation,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.ProductTemplate{}, err
	}

	template.Type = domain.TemplateType(templateType)
	decodedDefs, err := decodePageDefinitions(pageDefs)
	if err != nil {
		return domain.ProductTemplate{}, err
	}
	template.PageDefinitions = decodedDefs

	decodedQuantities, err := decodePrintQuantities(quantities)
	if err != nil {
		return domain.ProductTemplate{}, err
	}
	template.PrintQuantities = decodedQuantities

	decodedPresentation, err := decodePresentation(presentation)
	if err != nil {
		return domain.ProductTemplate{}, err
	}
	template.Presentation = decodedPresentation

	template.CreatedAt = fromMillis(createdAt)
	template.UpdatedAt = fromMillis(updatedAt)
	return template, nil
}

const templateColumns = `id, name, template_type, definition_version, min_dpi, page_definitions_json, print_quantities_json, presentation_json, created_at, updated_at`

// GetTemplate loads a product template by id.
func (s *Store) GetTemplate(ctx context.Context, templateID string) (domain.ProductTemplate, error) {
	if s == nil || s.sqlDB == nil {
		return domain.ProductTemplate{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+templateColumns+` FROM product_templates WHERE id = ?`,
		templateID,
	)
	template, err := scanTemplate(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ProductTemplate{}, storage.ErrNotFound
		}
		return domain.ProductTemplate{}, fmt.Errorf("get template: %w", err)
	}
	return template, nil
}

// ListTemplates returns catalog entries ordered by name, optionally
// filtered by template type.
func (s *Store) ListTemplates(ctx context.Context, templateType domain.TemplateType) ([]domain.ProductTemplate, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT ` + templateColumns + ` FROM product_templates`
	var args []any
	if templateType != "" {
		query += ` WHERE template_type = ?`
		args = append(args, string(templateType))
	}
	query += ` ORDER BY name`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var templates []domain.ProductTemplate
	for rows.Next() {
		template, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}
