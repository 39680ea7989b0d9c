package cmd

import (
	"fmt"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense/database"
	"github.com/spf13/cobra"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Insert sample expenses for development and write the default categories document when it is missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		created, err := deps.Categories.WriteDefault()
		if err != nil {
			return fmt.Errorf("failed to write categories: %w", err)
		}
		if created {
			fmt.Println("Wrote default categories:", deps.Categories.Path())
		} else {
			fmt.Println("Categories already present:", deps.Categories.Path())
		}

		count, err := database.NewExpenseRepository(deps.DB).Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count expenses: %w", err)
		}
		if count > 0 && !seedForce {
			fmt.Printf("Table already holds %d expenses; use --force to add samples anyway\n", count)
			return nil
		}

		for _, dto := range sampleExpenses(time.Now()) {
			id, err := deps.Expenses.AddExpense(ctx, dto)
			if err != nil {
				return fmt.Errorf("failed to insert sample expense: %w", err)
			}
			fmt.Printf("Seeded expense %d: %s %.2f %s\n", id, dto.Date, dto.Amount, dto.Category)
		}

		fmt.Println("Sample expenses seeded successfully")
		return nil
	},
}

// sampleExpenses spreads a handful of records over the month before now.
func sampleExpenses(now time.Time) []expense.CreateExpenseDTO {
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format("2006-01-02")
	}
	str := func(s string) *string { return &s }

	return []expense.CreateExpenseDTO{
		{Date: day(0), Amount: 4.5, Category: "food", Subcategory: str("coffee")},
		{Date: day(1), Amount: 62.3, Category: "food", Subcategory: str("groceries"), Note: str("weekly shop")},
		{Date: day(3), Amount: 18, Category: "transport", Subcategory: str("taxi")},
		{Date: day(7), Amount: 950, Category: "housing", Subcategory: str("rent")},
		{Date: day(9), Amount: 45.99, Category: "housing", Subcategory: str("internet")},
		{Date: day(14), Amount: 12.99, Category: "entertainment", Subcategory: str("subscriptions")},
		{Date: day(21), Amount: 30, Category: "health", Subcategory: str("medicine"), Note: str("pharmacy")},
		{Date: day(28), Amount: 27.5, Category: "education", Subcategory: str("books")},
	}
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "insert samples even when the table is not empty")
}
