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

const alertColumns = `id, user_id, coin_id, target_price, condition, is_active, is_triggered, created_at, triggered_at`

func scanAlert(row interface{ Scan(...any) error }) (*models.PriceAlert, error) {
	var a models.PriceAlert
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.CoinID,
		&a.TargetPrice,
		&a.Condition,
		&a.IsActive,
		&a.IsTriggered,
		&a.CreatedAt,
		&a.TriggeredAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func CreatePriceAlert(ctx context.Context, pool *pgxpool.Pool, alert *models.PriceAlert) (*models.PriceAlert, error) {
	query := `
		INSERT INTO price_alerts (id, user_id, coin_id, target_price, condition, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + alertColumns
	id := alert.ID
	if id == "" {
		id = uuid.NewString()
	}
	row := pool.QueryRow(ctx, query, id, alert.UserID, alert.CoinID, alert.TargetPrice, alert.Condition, alert.IsActive)
	return scanAlert(row)
}

func GetPriceAlertsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.PriceAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func GetPriceAlertByID(ctx context.Context, pool *pgxpool.Pool, userID int, id string) (*models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE id = $1 AND user_id = $2`
	a, err := scanAlert(pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("price alert not found")
		}
		return nil, err
	}
	return a, nil
}

// GetActivePriceAlerts loads every active, not-yet-triggered alert across all
// users. The poller calls this once per tick.
func GetActivePriceAlerts(ctx context.Context, pool *pgxpool.Pool) ([]models.PriceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM price_alerts WHERE is_active AND NOT is_triggered`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.PriceAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

func UpdatePriceAlert(ctx context.Context, pool *pgxpool.Pool, alert *models.PriceAlert) (*models.PriceAlert, error) {
	query := `
		UPDATE price_alerts
		SET coin_id = $1, target_price = $2, condition = $3, is_active = $4
		WHERE id = $5 AND user_id = $6
		RETURNING ` + alertColumns
	row := pool.QueryRow(ctx, query, alert.CoinID, alert.TargetPrice, alert.Condition, alert.IsActive, alert.ID, alert.UserID)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("price alert not found")
		}
		return nil, err
	}
	return a, nil
}

// MarkPriceAlertTriggered latches the alert so it fires at most once. The
// is_triggered guard makes the update a no-op when a concurrent poll already
// claimed it; the caller checks RowsAffected.
func MarkPriceAlertTriggered(ctx context.Context, pool *pgxpool.Pool, id string) (bool, error) {
	cmd, err := pool.Exec(ctx, `
		UPDATE price_alerts
		SET is_triggered = TRUE, triggered_at = NOW()
		WHERE id = $1 AND NOT is_triggered
	`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func DeletePriceAlert(ctx context.Context, pool *pgxpool.Pool, userID int, id string) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM price_alerts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("price alert not found")
	}
	return nil
}
