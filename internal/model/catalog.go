package model

import "time"

// TableMetadata persists a table descriptor when the catalog is database backed.
type TableMetadata struct {
	ID         string `gorm:"primaryKey;type:varchar(64)"`
	Slug       string `gorm:"type:varchar(64);not null;index"`
	Name       string `gorm:"type:varchar(255);not null"`
	DateColumn string `gorm:"type:varchar(64)"`
	Position   int    `gorm:"not null;default:0"`
	Restricted bool   `gorm:"not null;default:false"`
	IsDeleted  bool   `gorm:"not null;default:false"`
	CreatedBy  string `gorm:"type:varchar(64)"`
	CreatedAt  time.Time
}

// ColumnMetadata persists a column descriptor when the catalog is database backed.
type ColumnMetadata struct {
	ID            string `gorm:"primaryKey;type:varchar(64)"`
	TableID       string `gorm:"primaryKey;type:varchar(64)"`
	Name          string `gorm:"type:varchar(255);not null"`
	Type          string `gorm:"type:varchar(16);not null"`
	IsComputed    bool   `gorm:"not null;default:false"`
	Formula       string `gorm:"type:text"`
	OrderIndex    int    `gorm:"not null;default:0"`
	IsVisible     bool   `gorm:"not null"`
	IsRequired    bool   `gorm:"not null;default:false"`
	AllowNegative bool   `gorm:"not null;default:false"`
	Placeholder   string `gorm:"type:varchar(255)"`
	DefaultValue  string `gorm:"type:varchar(255)"`
}

func (TableMetadata) TableName() string { return "table_metadata" }

func (ColumnMetadata) TableName() string { return "column_metadata" }
