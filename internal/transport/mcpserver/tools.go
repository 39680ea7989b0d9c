package mcpserver

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolAddExpense          = "add_expense"
	ToolListExpenses        = "list_expenses"
	ToolListExpensesInRange = "list_expenses_in_range"
	ToolGetExpense          = "get_expense"
	ToolDeleteExpense       = "delete_expense"
	ToolUpdateExpense       = "update_expense"
	ToolSummarize           = "summarize"
)

// ExpenseService is the store contract the tools are adapted onto.
type ExpenseService interface {
	AddExpense(ctx context.Context, dto expense.CreateExpenseDTO) (int64, error)
	ListExpenses(ctx context.Context) ([]*expense.Expense, error)
	ListExpensesInRange(ctx context.Context, startDate, endDate string) ([]*expense.Expense, error)
	GetExpense(ctx context.Context, id int64) (*expense.Expense, error)
	UpdateExpense(ctx context.Context, id int64, dto expense.UpdateExpenseDTO) error
	DeleteExpense(ctx context.Context, id int64) error
	Summarize(ctx context.Context, query expense.SummarizeQuery) (*expense.Summary, error)
}

type statusResponse struct {
	Status  string `json:"status"`
	ID      *int64 `json:"id,omitempty"`
	Message string `json:"message"`
}

const (
	statusOK    = "ok"
	statusError = "error"
)

type ToolHandler struct {
	*transport.BaseHandler
	expenses ExpenseService
}

func NewToolHandler(expenses ExpenseService, base *transport.BaseHandler) *ToolHandler {
	return &ToolHandler{BaseHandler: base, expenses: expenses}
}

func addExpenseTool() mcp.Tool {
	return mcp.NewTool(ToolAddExpense,
		mcp.WithDescription("Add a new expense entry"),
		mcp.WithString("date", mcp.Required(), mcp.Description("Expense date, YYYY-MM-DD")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Amount spent")),
		mcp.WithString("category", mcp.Required(), mcp.Description("Expense category")),
		mcp.WithString("subcategory", mcp.Description("Optional subcategory")),
		mcp.WithString("note", mcp.Description("Optional free-text note")),
	)
}

func listExpensesTool() mcp.Tool {
	return mcp.NewTool(ToolListExpenses,
		mcp.WithDescription("List all expense entries"),
	)
}

func listExpensesInRangeTool() mcp.Tool {
	return mcp.NewTool(ToolListExpensesInRange,
		mcp.WithDescription("List all expense entries within a date range"),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Inclusive start date, YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Inclusive end date, YYYY-MM-DD")),
	)
}

func getExpenseTool() mcp.Tool {
	return mcp.NewTool(ToolGetExpense,
		mcp.WithDescription("Get details of a specific expense entry by ID"),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("Expense ID")),
	)
}

func deleteExpenseTool() mcp.Tool {
	return mcp.NewTool(ToolDeleteExpense,
		mcp.WithDescription("Delete an expense entry by ID"),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("Expense ID")),
	)
}

func updateExpenseTool() mcp.Tool {
	return mcp.NewTool(ToolUpdateExpense,
		mcp.WithDescription("Update an existing expense entry by ID"),
		mcp.WithNumber("expense_id", mcp.Required(), mcp.Description("Expense ID")),
		mcp.WithString("date", mcp.Description("New date, YYYY-MM-DD")),
		mcp.WithNumber("amount", mcp.Description("New amount")),
		mcp.WithString("category", mcp.Description("New category")),
		mcp.WithString("subcategory", mcp.Description("New subcategory")),
		mcp.WithString("note", mcp.Description("New note")),
	)
}

func summarizeTool() mcp.Tool {
	return mcp.NewTool(ToolSummarize,
		mcp.WithDescription("Summarize expenses within a date range, optionally filtered by category"),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("Inclusive start date, YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Required(), mcp.Description("Inclusive end date, YYYY-MM-DD")),
		mcp.WithString("category", mcp.Description("Only sum this exact category")),
	)
}

func (h *ToolHandler) AddExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var dto expense.CreateExpenseDTO
	var err error
	if dto.Date, err = requiredString(args, "date"); err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}
	if dto.Amount, err = requiredNumber(args, "amount"); err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}
	if dto.Category, err = requiredString(args, "category"); err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}
	if dto.Subcategory, err = optionalString(args, "subcategory"); err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}
	if dto.Note, err = optionalString(args, "note"); err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}

	id, err := h.expenses.AddExpense(ctx, dto)
	if err != nil {
		return h.ToolError(ctx, ToolAddExpense, err), nil
	}

	return h.JSONResult(statusResponse{
		Status:  statusOK,
		ID:      &id,
		Message: "Expense added successfully",
	})
}

func (h *ToolHandler) ListExpenses(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expenses, err := h.expenses.ListExpenses(ctx)
	if err != nil {
		return h.ToolError(ctx, ToolListExpenses, err), nil
	}
	return h.JSONResult(nonNil(expenses))
}

func (h *ToolHandler) ListExpensesInRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	startDate, err := requiredString(args, "start_date")
	if err != nil {
		return h.ToolError(ctx, ToolListExpensesInRange, err), nil
	}
	endDate, err := requiredString(args, "end_date")
	if err != nil {
		return h.ToolError(ctx, ToolListExpensesInRange, err), nil
	}

	expenses, err := h.expenses.ListExpensesInRange(ctx, startDate, endDate)
	if err != nil {
		return h.ToolError(ctx, ToolListExpensesInRange, err), nil
	}
	return h.JSONResult(nonNil(expenses))
}

// GetExpense reports a missing record as a regular result carrying an error
// status, not as a tool error.
func (h *ToolHandler) GetExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredInteger(req.GetArguments(), "expense_id")
	if err != nil {
		return h.ToolError(ctx, ToolGetExpense, err), nil
	}

	exp, err := h.expenses.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrExpenseNotFound) {
			return h.JSONResult(statusResponse{
				Status:  statusError,
				Message: internal.ErrExpenseNotFound.Message,
			})
		}
		return h.ToolError(ctx, ToolGetExpense, err), nil
	}
	return h.JSONResult(exp)
}

func (h *ToolHandler) DeleteExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredInteger(req.GetArguments(), "expense_id")
	if err != nil {
		return h.ToolError(ctx, ToolDeleteExpense, err), nil
	}

	if err := h.expenses.DeleteExpense(ctx, id); err != nil {
		return h.ToolError(ctx, ToolDeleteExpense, err), nil
	}

	return h.JSONResult(statusResponse{
		Status:  statusOK,
		Message: "Expense deleted successfully",
	})
}

func (h *ToolHandler) UpdateExpense(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	id, err := requiredInteger(args, "expense_id")
	if err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}

	var dto expense.UpdateExpenseDTO
	if dto.Date, err = optionalString(args, "date"); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}
	if dto.Amount, err = optionalNumber(args, "amount"); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}
	if dto.Category, err = optionalString(args, "category"); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}
	if dto.Subcategory, err = optionalString(args, "subcategory"); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}
	if dto.Note, err = optionalString(args, "note"); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}

	if err := h.expenses.UpdateExpense(ctx, id, dto); err != nil {
		return h.ToolError(ctx, ToolUpdateExpense, err), nil
	}

	return h.JSONResult(statusResponse{
		Status:  statusOK,
		Message: "Expense updated successfully",
	})
}

func (h *ToolHandler) Summarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var query expense.SummarizeQuery
	var err error
	if query.StartDate, err = requiredString(args, "start_date"); err != nil {
		return h.ToolError(ctx, ToolSummarize, err), nil
	}
	if query.EndDate, err = requiredString(args, "end_date"); err != nil {
		return h.ToolError(ctx, ToolSummarize, err), nil
	}
	if query.Category, err = optionalString(args, "category"); err != nil {
		return h.ToolError(ctx, ToolSummarize, err), nil
	}

	summary, err := h.expenses.Summarize(ctx, query)
	if err != nil {
		return h.ToolError(ctx, ToolSummarize, err), nil
	}
	return h.JSONResult(summary)
}

func nonNil(expenses []*expense.Expense) []*expense.Expense {
	if expenses == nil {
		return []*expense.Expense{}
	}
	return expenses
}
