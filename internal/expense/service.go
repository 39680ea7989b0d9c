package expense

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

// RepositoryAPI defines the data access methods for expenses. Every method
// runs in its own storage session.
type RepositoryAPI interface {
	Create(ctx context.Context, expense *Expense) (int64, error)
	List(ctx context.Context) ([]*Expense, error)
	ListInRange(ctx context.Context, startDate, endDate string) ([]*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, id int64, changes Changes) error
	Delete(ctx context.Context, id int64) error
	Sum(ctx context.Context, query SummarizeQuery) (float64, error)
}

// EventPublisher receives expense change events after the change committed.
type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

// NewService creates a new expense service. publisher may be nil.
func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) AddExpense(ctx context.Context, dto CreateExpenseDTO) (int64, error) {
	id, err := s.repo.Create(ctx, NewExpense(dto))
	if err != nil {
		s.logger.Error("failed to create expense", "error", err, "category", dto.Category)
		return 0, internal.NewStorageError("failed to add expense", err)
	}

	s.logger.Info("expense created", "expense_id", id, "amount", dto.Amount, "category", dto.Category)
	s.publish(ctx, events.NewExpenseCreatedEvent(id, dto.Date, dto.Amount, dto.Category))

	return id, nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]*Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, internal.NewStorageError("failed to list expenses", err)
	}
	return expenses, nil
}

// ListExpensesInRange returns expenses whose date lies in [startDate, endDate].
// Dates are compared as text, so a reversed range simply matches nothing.
func (s *Service) ListExpensesInRange(ctx context.Context, startDate, endDate string) ([]*Expense, error) {
	expenses, err := s.repo.ListInRange(ctx, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to list expenses in range",
			"error", err,
			"start_date", startDate,
			"end_date", endDate)
		return nil, internal.NewStorageError("failed to list expenses", err)
	}
	return expenses, nil
}

func (s *Service) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			s.logger.Debug("expense not found", "expense_id", id)
			return nil, internal.ErrExpenseNotFound.WithCause(err)
		}
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewStorageError("failed to get expense", err)
	}
	return exp, nil
}

// UpdateExpense applies only the supplied fields. An update without fields
// never reaches the store. Unknown ids are not reported.
func (s *Service) UpdateExpense(ctx context.Context, id int64, dto UpdateExpenseDTO) error {
	changes := dto.Changes()
	if changes.IsEmpty() {
		s.logger.Debug("update without fields ignored", "expense_id", id)
		return nil
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return internal.NewStorageError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id, "fields", changes.Columns())
	s.publish(ctx, events.NewExpenseUpdatedEvent(id, changes.Columns()))

	return nil
}

func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewStorageError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id)
	s.publish(ctx, events.NewExpenseDeletedEvent(id))

	return nil
}

func (s *Service) Summarize(ctx context.Context, query SummarizeQuery) (*Summary, error) {
	total, err := s.repo.Sum(ctx, query)
	if err != nil {
		s.logger.Error("failed to summarize expenses",
			"error", err,
			"start_date", query.StartDate,
			"end_date", query.EndDate)
		return nil, internal.NewStorageError("failed to summarize expenses", err)
	}
	return &Summary{Total: total}, nil
}

// publish never fails the caller; the change is already committed.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Warn("failed to publish expense event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}
