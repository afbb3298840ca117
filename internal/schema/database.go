package schema

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nursery-service/internal/model"
)

// DatabaseSource loads the catalog from the table_metadata and
// column_metadata tables.
type DatabaseSource struct {
	DB *gorm.DB
}

// Load implements Source.
func (s DatabaseSource) Load(ctx context.Context) (Catalog, error) {
	var tables []model.TableMetadata
	if err := s.DB.WithContext(ctx).Order("position, id").Find(&tables).Error; err != nil {
		return Catalog{}, err
	}
	if len(tables) == 0 {
		return Catalog{}, errors.New("no table metadata found")
	}
	var columns []model.ColumnMetadata
	if err := s.DB.WithContext(ctx).Order("table_id, order_index, id").Find(&columns).Error; err != nil {
		return Catalog{}, err
	}

	var c Catalog
	for _, t := range tables {
		c.Tables = append(c.Tables, Table{
			ID:         t.ID,
			Name:       t.Name,
			Slug:       t.Slug,
			CreatedBy:  t.CreatedBy,
			CreatedAt:  t.CreatedAt,
			IsDeleted:  t.IsDeleted,
			Position:   t.Position,
			DateColumn: t.DateColumn,
			Restricted: t.Restricted,
		})
	}
	for _, col := range columns {
		c.Columns = append(c.Columns, Column{
			ID:            col.ID,
			TableID:       col.TableID,
			Name:          col.Name,
			Type:          ColumnType(col.Type),
			IsComputed:    col.IsComputed,
			Formula:       col.Formula,
			OrderIndex:    col.OrderIndex,
			IsVisible:     col.IsVisible,
			IsRequired:    col.IsRequired,
			AllowNegative: col.AllowNegative,
			Placeholder:   col.Placeholder,
			DefaultValue:  col.DefaultValue,
		})
	}
	return c, nil
}

// Columns rewritten when a catalog row already exists. Keys, the immutable
// slug and provenance keep their stored values.
var (
	tableUpsertColumns  = []string{"name", "date_column", "position", "restricted", "is_deleted"}
	columnUpsertColumns = []string{
		"name", "type", "is_computed", "formula", "order_index", "is_visible",
		"is_required", "allow_negative", "placeholder", "default_value",
	}
)

// SaveCatalog upserts every table and column of c. Existing rows keep
// their primary keys and provenance; every other field is overwritten.
func SaveCatalog(ctx context.Context, db *gorm.DB, c Catalog) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range c.Tables {
			row := model.TableMetadata{
				ID:         t.ID,
				Slug:       t.Slug,
				Name:       t.Name,
				DateColumn: t.DateColumn,
				Position:   t.Position,
				Restricted: t.Restricted,
				IsDeleted:  t.IsDeleted,
				CreatedBy:  t.CreatedBy,
				CreatedAt:  t.CreatedAt,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(tableUpsertColumns),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		for _, col := range c.Columns {
			row := model.ColumnMetadata{
				ID:            col.ID,
				TableID:       col.TableID,
				Name:          col.Name,
				Type:          string(col.Type),
				IsComputed:    col.IsComputed,
				Formula:       col.Formula,
				OrderIndex:    col.OrderIndex,
				IsVisible:     col.IsVisible,
				IsRequired:    col.IsRequired,
				AllowNegative: col.AllowNegative,
				Placeholder:   col.Placeholder,
				DefaultValue:  col.DefaultValue,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}, {Name: "table_id"}},
				DoUpdates: clause.AssignmentColumns(columnUpsertColumns),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
