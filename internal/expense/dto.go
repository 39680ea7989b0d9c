package expense

import "errors"

// CreateExpenseDTO carries the inputs of add_expense.
type CreateExpenseDTO struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory,omitempty"`
	Note        *string `json:"note,omitempty"`
}

// UpdateExpenseDTO carries the optional inputs of update_expense. A nil field
// means "not supplied" and leaves the stored value untouched.
type UpdateExpenseDTO struct {
	Date        *string  `json:"date,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Subcategory *string  `json:"subcategory,omitempty"`
	Note        *string  `json:"note,omitempty"`
}

// FieldChange is one column assignment of a partial update.
type FieldChange struct {
	Column string
	Value  interface{}
}

// Changes is the ordered set of assignments built from an UpdateExpenseDTO.
type Changes []FieldChange

// Changes accumulates a (column, value) pair for every supplied field, in
// table column order. Values are never rendered into SQL text; the repository
// binds them as parameters.
func (dto UpdateExpenseDTO) Changes() Changes {
	var changes Changes
	if dto.Date != nil {
		changes = append(changes, FieldChange{Column: "date", Value: *dto.Date})
	}
	if dto.Amount != nil {
		changes = append(changes, FieldChange{Column: "amount", Value: *dto.Amount})
	}
	if dto.Category != nil {
		changes = append(changes, FieldChange{Column: "category", Value: *dto.Category})
	}
	if dto.Subcategory != nil {
		changes = append(changes, FieldChange{Column: "subcategory", Value: *dto.Subcategory})
	}
	if dto.Note != nil {
		changes = append(changes, FieldChange{Column: "note", Value: *dto.Note})
	}
	return changes
}

func (c Changes) IsEmpty() bool {
	return len(c) == 0
}

func (c Changes) Columns() []string {
	cols := make([]string, len(c))
	for i, fc := range c {
		cols[i] = fc.Column
	}
	return cols
}

func (c Changes) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(c))
	for _, fc := range c {
		m[fc.Column] = fc.Value
	}
	return m
}

// SummarizeQuery selects the rows summed by summarize. A nil or empty
// Category sums every category.
type SummarizeQuery struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Category  *string `json:"category,omitempty"`
}

func (q SummarizeQuery) CategoryFilter() (string, bool) {
	if q.Category == nil || *q.Category == "" {
		return "", false
	}
	return *q.Category, true
}

type Summary struct {
	Total float64 `json:"total_expense"`
}

// Domain errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
)
