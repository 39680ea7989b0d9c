package events

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"
)

// ExpenseEventTypes lists every event emitted by the expense service.
var ExpenseEventTypes = []string{
	EventTypeExpenseCreated,
	EventTypeExpenseUpdated,
	EventTypeExpenseDeleted,
}

type ExpenseCreatedEvent struct {
	BaseEvent
	ExpenseID int64   `json:"expense_id"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
}

func NewExpenseCreatedEvent(expenseID int64, date string, amount float64, category string) *ExpenseCreatedEvent {
	return &ExpenseCreatedEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseCreated, map[string]interface{}{
			"expense_id": expenseID,
			"date":       date,
			"amount":     amount,
			"category":   category,
		}),
		ExpenseID: expenseID,
		Date:      date,
		Amount:    amount,
		Category:  category,
	}
}

type ExpenseUpdatedEvent struct {
	BaseEvent
	ExpenseID int64    `json:"expense_id"`
	Fields    []string `json:"fields"`
}

func NewExpenseUpdatedEvent(expenseID int64, fields []string) *ExpenseUpdatedEvent {
	return &ExpenseUpdatedEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseUpdated, map[string]interface{}{
			"expense_id": expenseID,
			"fields":     fields,
		}),
		ExpenseID: expenseID,
		Fields:    fields,
	}
}

type ExpenseDeletedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"expense_id"`
}

func NewExpenseDeletedEvent(expenseID int64) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseEvent: newBaseEvent(EventTypeExpenseDeleted, map[string]interface{}{
			"expense_id": expenseID,
		}),
		ExpenseID: expenseID,
	}
}
