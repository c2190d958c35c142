package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

const transactionColumns = `id, user_id, type, amount, currency, category_id, date, description, is_recurring, created_by, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.Currency,
		&t.CategoryID,
		&t.Date,
		&t.Description,
		&t.IsRecurring,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, currency, category_id, date, description, is_recurring, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns
	id := tx.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := pool.QueryRow(ctx, query,
		id, tx.UserID, tx.Type, tx.Amount, tx.Currency, tx.CategoryID,
		tx.Date, tx.Description, tx.IsRecurring, tx.CreatedBy,
	)
	return scanTransaction(row)
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID int, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	return scanTransaction(pool.QueryRow(ctx, query, id, userID))
}

// GetTransactions lists a user's transactions newest first, narrowed by the
// filter's optional type/category/date bounds and paginated by limit/offset.
func GetTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, filter models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`)
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		sb.WriteString(" AND type = $" + strconv.Itoa(len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		sb.WriteString(" AND category_id = $" + strconv.Itoa(len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		sb.WriteString(" AND date >= $" + strconv.Itoa(len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		sb.WriteString(" AND date <= $" + strconv.Itoa(len(args)))
	}

	sb.WriteString(" ORDER BY date DESC, created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// GetAllTransactionsForUser loads every transaction a user owns, used by the
// report calculators.
func GetAllTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY date DESC`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, currency = $3, category_id = $4, date = $5,
		    description = $6, is_recurring = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + transactionColumns
	row := pool.QueryRow(ctx, query,
		tx.Type, tx.Amount, tx.Currency, tx.CategoryID, tx.Date,
		tx.Description, tx.IsRecurring, tx.ID, tx.UserID,
	)
	return scanTransaction(row)
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID int, id string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
