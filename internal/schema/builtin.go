package schema

import "time"

var builtinCreatedAt = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Builtin returns the compiled nursery catalog: eight operational tables.
func Builtin() Catalog {
	return Catalog{
		Tables: []Table{
			{ID: "plant-intake", Name: "Plant Intake", Slug: "plant-intake", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 1, DateColumn: "dateReceived"},
			{ID: "product-intake", Name: "Product Intake", Slug: "product-intake", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 2, DateColumn: "dateReceived"},
			{ID: "transplant-log", Name: "Transplant Log", Slug: "transplant-log", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 3, DateColumn: "transplantDate"},
			{ID: "treatment-tracking", Name: "Treatment Tracking", Slug: "treatment-tracking", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 4, DateColumn: "treatmentDate"},
			{ID: "fertilizer-log", Name: "Fertilizer Log", Slug: "fertilizer-log", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 5, DateColumn: "applicationDate"},
			{ID: "overhead-expenses", Name: "Overhead Expenses", Slug: "overhead-expenses", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 6, DateColumn: "expenseDate"},
			{ID: "sales", Name: "Sales", Slug: "sales", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 7, DateColumn: "saleDate"},
			{ID: "pricing", Name: "Pricing", Slug: "pricing", CreatedBy: "system", CreatedAt: builtinCreatedAt, Position: 8, Restricted: true},
		},
		Columns: builtinColumns(),
	}
}

func builtinColumns() []Column {
	var cols []Column
	add := func(tableID string, defs ...Column) {
		for i, c := range defs {
			c.TableID = tableID
			c.OrderIndex = i + 1
			c.IsVisible = true
			cols = append(cols, c)
		}
	}

	add("plant-intake",
		Column{ID: "dateReceived", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "sku", Name: "SKU", Type: TypeText},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "size", Name: "Size", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "vendor", Name: "Vendor", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("product-intake",
		Column{ID: "dateReceived", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "productName", Name: "Product Name", Type: TypeText},
		Column{ID: "category", Name: "Category", Type: TypeText},
		Column{ID: "brand", Name: "Brand", Type: TypeText},
		Column{ID: "sku", Name: "SKU", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "unit", Name: "Unit", Type: TypeText},
		Column{ID: "unitCost", Name: "Unit Cost", Type: TypeCurrency},
		Column{ID: "totalCost", Name: "Total Cost", Type: TypeCurrency, IsComputed: true, Formula: "quantity * unitCost"},
		Column{ID: "vendor", Name: "Vendor", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("transplant-log",
		Column{ID: "transplantDate", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "plantName", Name: "Plant Name", Type: TypeText},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "fromSize", Name: "From Size", Type: TypeText},
		Column{ID: "toSize", Name: "To Size", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "location", Name: "Location", Type: TypeText},
		Column{ID: "employee", Name: "Employee", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("treatment-tracking",
		Column{ID: "treatmentDate", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "plantName", Name: "Plant Name", Type: TypeText},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "treatmentType", Name: "Treatment Type", Type: TypeText},
		Column{ID: "product", Name: "Product", Type: TypeText},
		Column{ID: "dosage", Name: "Dosage", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "location", Name: "Location", Type: TypeText},
		Column{ID: "reason", Name: "Reason", Type: TypeText},
		Column{ID: "employee", Name: "Employee", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("fertilizer-log",
		Column{ID: "applicationDate", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "plantName", Name: "Plant Name", Type: TypeText},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "fertilizerType", Name: "Fertilizer Type", Type: TypeText},
		Column{ID: "brand", Name: "Brand", Type: TypeText},
		Column{ID: "npkRatio", Name: "NPK Ratio", Type: TypeText},
		Column{ID: "applicationRate", Name: "Application Rate", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "location", Name: "Location", Type: TypeText},
		Column{ID: "employee", Name: "Employee", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("overhead-expenses",
		Column{ID: "expenseDate", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "category", Name: "Category", Type: TypeText},
		Column{ID: "description", Name: "Description", Type: TypeText},
		Column{ID: "vendor", Name: "Vendor", Type: TypeText},
		Column{ID: "amount", Name: "Amount", Type: TypeCurrency},
		Column{ID: "paymentMethod", Name: "Payment Method", Type: TypeText},
		Column{ID: "invoiceNumber", Name: "Invoice #", Type: TypeText},
		Column{ID: "employee", Name: "Employee", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("sales",
		Column{ID: "saleDate", Name: "Date", Type: TypeDate, IsRequired: true},
		Column{ID: "customerName", Name: "Customer", Type: TypeText},
		Column{ID: "plantName", Name: "Plant Name", Type: TypeText},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "size", Name: "Size", Type: TypeText},
		Column{ID: "quantity", Name: "Quantity", Type: TypeNumber},
		Column{ID: "unitPrice", Name: "Unit Price", Type: TypeCurrency},
		Column{ID: "totalPrice", Name: "Total Price", Type: TypeCurrency, IsComputed: true, Formula: "quantity * unitPrice"},
		Column{ID: "paymentMethod", Name: "Payment Method", Type: TypeText},
		Column{ID: "employee", Name: "Employee", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	add("pricing",
		Column{ID: "plantName", Name: "Plant Name", Type: TypeText, IsRequired: true},
		Column{ID: "genus", Name: "Genus", Type: TypeText},
		Column{ID: "cultivar", Name: "Cultivar", Type: TypeText},
		Column{ID: "size", Name: "Size", Type: TypeText},
		Column{ID: "basePrice", Name: "Base Price", Type: TypeCurrency},
		Column{ID: "markup", Name: "Markup (%)", Type: TypePercent},
		Column{ID: "finalPrice", Name: "Final Price", Type: TypeCurrency, IsRequired: true},
		Column{ID: "category", Name: "Category", Type: TypeText},
		Column{ID: "notes", Name: "Notes", Type: TypeText},
	)
	return cols
}
