package model

import "time"

// RecordBase carries the columns every record table shares.
type RecordBase struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	BusinessID string    `json:"businessId" gorm:"type:varchar(64);index;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PlantIntake logs plants received from vendors.
type PlantIntake struct {
	RecordBase
	DateReceived *time.Time `gorm:"index"`
	Sku          *string    `gorm:"type:text"`
	Genus        *string    `gorm:"type:text"`
	Cultivar     *string    `gorm:"type:text"`
	Size         *string    `gorm:"type:text"`
	Quantity     *float64
	Vendor       *string `gorm:"type:text"`
	Notes        *string `gorm:"type:text"`
}

func (PlantIntake) TableName() string { return "plant_intake" }

// ProductIntake logs non-plant goods received.
type ProductIntake struct {
	RecordBase
	DateReceived *time.Time `gorm:"index"`
	ProductName  *string    `gorm:"type:text"`
	Category     *string    `gorm:"type:text"`
	Brand        *string    `gorm:"type:text"`
	Sku          *string    `gorm:"type:text"`
	Quantity     *float64
	Unit         *string `gorm:"type:text"`
	UnitCost     *float64
	TotalCost    *float64
	Vendor       *string `gorm:"type:text"`
	Notes        *string `gorm:"type:text"`
}

func (ProductIntake) TableName() string { return "product_intake" }

// TransplantLog records plants moved between container sizes.
type TransplantLog struct {
	RecordBase
	TransplantDate *time.Time `gorm:"index"`
	PlantName      *string    `gorm:"type:text"`
	Genus          *string    `gorm:"type:text"`
	Cultivar       *string    `gorm:"type:text"`
	FromSize       *string    `gorm:"type:text"`
	ToSize         *string    `gorm:"type:text"`
	Quantity       *float64
	Location       *string `gorm:"type:text"`
	Employee       *string `gorm:"type:text"`
	Notes          *string `gorm:"type:text"`
}

func (TransplantLog) TableName() string { return "transplant_log" }

// TreatmentTracking records pest and disease treatments.
type TreatmentTracking struct {
	RecordBase
	TreatmentDate *time.Time `gorm:"index"`
	PlantName     *string    `gorm:"type:text"`
	Genus         *string    `gorm:"type:text"`
	Cultivar      *string    `gorm:"type:text"`
	TreatmentType *string    `gorm:"type:text"`
	Product       *string    `gorm:"type:text"`
	Dosage        *string    `gorm:"type:text"`
	Quantity      *float64
	Location      *string `gorm:"type:text"`
	Reason        *string `gorm:"type:text"`
	Employee      *string `gorm:"type:text"`
	Notes         *string `gorm:"type:text"`
}

func (TreatmentTracking) TableName() string { return "treatment_tracking" }

// FertilizerLog records fertilizer applications.
type FertilizerLog struct {
	RecordBase
	ApplicationDate *time.Time `gorm:"index"`
	PlantName       *string    `gorm:"type:text"`
	Genus           *string    `gorm:"type:text"`
	Cultivar        *string    `gorm:"type:text"`
	FertilizerType  *string    `gorm:"type:text"`
	Brand           *string    `gorm:"type:text"`
	NpkRatio        *string    `gorm:"type:text"`
	ApplicationRate *string    `gorm:"type:text"`
	Quantity        *float64
	Location        *string `gorm:"type:text"`
	Employee        *string `gorm:"type:text"`
	Notes           *string `gorm:"type:text"`
}

func (FertilizerLog) TableName() string { return "fertilizer_log" }

// OverheadExpense records business expenses.
type OverheadExpense struct {
	RecordBase
	ExpenseDate   *time.Time `gorm:"index"`
	Category      *string    `gorm:"type:text"`
	Description   *string    `gorm:"type:text"`
	Vendor        *string    `gorm:"type:text"`
	Amount        *float64
	PaymentMethod *string `gorm:"type:text"`
	InvoiceNumber *string `gorm:"type:text"`
	Employee      *string `gorm:"type:text"`
	Notes         *string `gorm:"type:text"`
}

func (OverheadExpense) TableName() string { return "overhead_expenses" }

// Sale records a sale to a customer.
type Sale struct {
	RecordBase
	SaleDate      *time.Time `gorm:"index"`
	CustomerName  *string    `gorm:"type:text"`
	PlantName     *string    `gorm:"type:text"`
	Genus         *string    `gorm:"type:text"`
	Cultivar      *string    `gorm:"type:text"`
	Size          *string    `gorm:"type:text"`
	Quantity      *float64
	UnitPrice     *float64
	TotalPrice    *float64
	PaymentMethod *string `gorm:"type:text"`
	Employee      *string `gorm:"type:text"`
	Notes         *string `gorm:"type:text"`
}

func (Sale) TableName() string { return "sales" }

// Pricing holds the price list.
type Pricing struct {
	RecordBase
	PlantName  *string `gorm:"type:text"`
	Genus      *string `gorm:"type:text"`
	Cultivar   *string `gorm:"type:text"`
	Size       *string `gorm:"type:text"`
	BasePrice  *float64
	Markup     *float64
	FinalPrice *float64
	Category   *string `gorm:"type:text"`
	Notes      *string `gorm:"type:text"`
}

func (Pricing) TableName() string { return "pricing" }

// RecordModels returns one value per record table, for migrations.
func RecordModels() []interface{} {
	return []interface{}{
		&PlantIntake{},
		&ProductIntake{},
		&TransplantLog{},
		&TreatmentTracking{},
		&FertilizerLog{},
		&OverheadExpense{},
		&Sale{},
		&Pricing{},
	}
}

// AllModels returns every model the service migrates.
func AllModels() []interface{} {
	models := []interface{}{&Business{}, &User{}, &TableMetadata{}, &ColumnMetadata{}}
	return append(models, RecordModels()...)
}
