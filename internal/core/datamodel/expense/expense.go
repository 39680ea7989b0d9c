package expense

// Expense is the row shape of the expenses table.
type Expense struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Date        string  `gorm:"column:date;not null"`
	Amount      float64 `gorm:"column:amount;not null"`
	Category    string  `gorm:"column:category;not null"`
	Subcategory *string `gorm:"column:subcategory"`
	Note        *string `gorm:"column:note"`
}

func (Expense) TableName() string {
	return "expenses"
}
