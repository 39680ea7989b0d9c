package database

import (
	"context"
	"errors"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM. It holds no
// state besides the pool handle; each call takes its own session.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) (int64, error) {
	row := expense.ToDataModel(exp)
	row.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err != nil {
		return 0, err
	}

	exp.ID = row.ID
	return row.ID, nil
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

// ListInRange compares dates as text, inclusive on both ends.
func (r *ExpenseRepository) ListInRange(ctx context.Context, startDate, endDate string) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Order("date DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

// Update issues a single UPDATE with bound values for the given changes.
// Zero rows affected is not an error.
func (r *ExpenseRepository) Update(ctx context.Context, id int64, changes expense.Changes) error {
	if changes.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&expenseDatamodel.Expense{}).
			Where("id = ?", id).
			Updates(changes.Map()).Error
	})
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(&expenseDatamodel.Expense{}).Error
	})
}

func (r *ExpenseRepository) Sum(ctx context.Context, query expense.SummarizeQuery) (float64, error) {
	q := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("date BETWEEN ? AND ?", query.StartDate, query.EndDate)
	if category, ok := query.CategoryFilter(); ok {
		q = q.Where("category = ?", category)
	}

	var total float64
	if err := q.Row().Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Count returns the number of stored expenses.
func (r *ExpenseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).Count(&n).Error
	return n, err
}

var _ expense.RepositoryAPI = (*ExpenseRepository)(nil)
