package models

// CategoryType is the accounting nature of a category.
type CategoryType string

const (
	CategoryIncome    CategoryType = "ingreso"
	CategoryExpense   CategoryType = "gasto"
	CategoryAsset     CategoryType = "activo"
	CategoryLiability CategoryType = "pasivo"
)

var CategoryTypes = []CategoryType{CategoryIncome, CategoryExpense, CategoryAsset, CategoryLiability}

// Category labels a transaction (AccountingCategory).
type Category struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:100;not null" json:"name"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Type        CategoryType `gorm:"size:20;not null;index" json:"type"`
}

func (c Category) String() string { return c.Name + " (" + string(c.Type) + ")" }
