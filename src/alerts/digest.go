package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/finance"
	"fintrack-server/src/mail"
	"fintrack-server/src/models"
)

// WeeklyDigest mails every user a summary of the past week on an interval.
type WeeklyDigest struct {
	pool     *pgxpool.Pool
	notifier *mail.Notifier
	interval time.Duration
}

func NewWeeklyDigest(pool *pgxpool.Pool, notifier *mail.Notifier, interval time.Duration) *WeeklyDigest {
	return &WeeklyDigest{pool: pool, notifier: notifier, interval: interval}
}

// Run sends digests until the context ends. A failed run logs and waits for
// the next tick.
func (d *WeeklyDigest) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.run(ctx); err != nil {
				log.Error().Err(err).Msg("weekly digest run failed")
			}
		}
	}
}

func (d *WeeklyDigest) run(ctx context.Context) error {
	users, err := db.ListUsers(ctx, d.pool)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	for _, u := range users {
		txs, err := db.GetAllTransactionsForUser(ctx, d.pool, u.ID)
		if err != nil {
			log.Error().Err(err).Int("user_id", u.ID).Msg("weekly digest: failed to load transactions")
			continue
		}
		cats, err := db.GetCategoriesForUser(ctx, d.pool, u.ID)
		if err != nil {
			log.Error().Err(err).Int("user_id", u.ID).Msg("weekly digest: failed to load categories")
			continue
		}
		budgets, err := db.GetAllBudgetsForUser(ctx, d.pool, u.ID)
		if err != nil {
			log.Error().Err(err).Int("user_id", u.ID).Msg("weekly digest: failed to load budgets")
			continue
		}

		summary := buildWeeklySummary(u.FirstName, txs, cats, budgets, now)
		if err := d.notifier.SendWeeklySummary(ctx, u.Email, summary); err != nil {
			log.Error().Err(err).Int("user_id", u.ID).Msg("weekly digest: failed to send summary")
		}
	}
	return nil
}

// buildWeeklySummary aggregates the past seven days of activity. Over-budget
// counts compare the current month's spending against each budget line, since
// budgets are monthly.
func buildWeeklySummary(name string, txs []models.Transaction, cats []models.Category, budgets []models.Budget, now time.Time) mail.WeeklySummaryEmail {
	weekStart := now.AddDate(0, 0, -7)
	income, expenses := finance.PeriodTotals(txs, weekStart, now)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	spentByName := finance.SpentByCategoryName(txs, cats, monthStart, now)

	overBudget := 0
	for _, b := range budgets {
		for _, c := range b.Categories {
			if c.Allocated > 0 && spentByName[strings.ToLower(c.Name)] > c.Allocated {
				overBudget++
			}
		}
	}

	return mail.WeeklySummaryEmail{
		Name:           name,
		Income:         income,
		Expenses:       expenses,
		SavingsRatePct: finance.SavingsRate(income, expenses) * 100,
		OverBudget:     overBudget,
	}
}
