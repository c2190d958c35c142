package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

// CreateBudget inserts the budget and its category rows in one transaction so
// a half-written allocation set never becomes visible.
func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	dbtx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback(ctx)

	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	query := `
		INSERT INTO budgets (id, user_id, name, method, monthly_income)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, method, monthly_income, created_at, updated_at
	`
	var b models.Budget
	err = dbtx.QueryRow(ctx, query, budget.ID, budget.UserID, budget.Name, budget.Method, budget.MonthlyIncome).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Method, &b.MonthlyIncome, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, c := range budget.Categories {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = dbtx.Exec(ctx, `
			INSERT INTO budget_categories (id, budget_id, name, type, allocated)
			VALUES ($1, $2, $3, $4, $5)
		`, id, b.ID, c.Name, c.Type, c.Allocated)
		if err != nil {
			return nil, err
		}
		c.ID = id
		c.BudgetID = b.ID
		b.Categories = append(b.Categories, c)
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID int, budgetID string) (*models.Budget, error) {
	query := `
		SELECT id, user_id, name, method, monthly_income, created_at, updated_at
		FROM budgets WHERE id = $1 AND user_id = $2
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budgetID, userID).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Method, &b.MonthlyIncome, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	categories, err := getBudgetCategories(ctx, pool, b.ID)
	if err != nil {
		return nil, err
	}
	b.Categories = categories
	return &b, nil
}

func getBudgetCategories(ctx context.Context, pool *pgxpool.Pool, budgetID string) ([]models.BudgetCategory, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, budget_id, name, type, allocated
		FROM budget_categories WHERE budget_id = $1
		ORDER BY allocated DESC
	`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.BudgetCategory
	for rows.Next() {
		var c models.BudgetCategory
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.Name, &c.Type, &c.Allocated); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, name, method, monthly_income, created_at, updated_at
		FROM budgets WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Method, &b.MonthlyIncome, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range budgets {
		categories, err := getBudgetCategories(ctx, pool, budgets[i].ID)
		if err != nil {
			return nil, err
		}
		budgets[i].Categories = categories
	}
	return budgets, nil
}

// UpdateBudget replaces the budget row and its category set.
func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	dbtx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer dbtx.Rollback(ctx)

	query := `
		UPDATE budgets
		SET name = $1, method = $2, monthly_income = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, name, method, monthly_income, created_at, updated_at
	`
	var b models.Budget
	err = dbtx.QueryRow(ctx, query, budget.Name, budget.Method, budget.MonthlyIncome, budget.ID, budget.UserID).
		Scan(&b.ID, &b.UserID, &b.Name, &b.Method, &b.MonthlyIncome, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("budget not found")
		}
		return nil, err
	}

	if _, err := dbtx.Exec(ctx, `DELETE FROM budget_categories WHERE budget_id = $1`, b.ID); err != nil {
		return nil, err
	}
	for _, c := range budget.Categories {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = dbtx.Exec(ctx, `
			INSERT INTO budget_categories (id, budget_id, name, type, allocated)
			VALUES ($1, $2, $3, $4, $5)
		`, id, b.ID, c.Name, c.Type, c.Allocated)
		if err != nil {
			return nil, err
		}
		c.ID = id
		c.BudgetID = b.ID
		b.Categories = append(b.Categories, c)
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID int, budgetID string) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
