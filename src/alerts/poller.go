package alerts

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/mail"
	"fintrack-server/src/market"
	"fintrack-server/src/models"
	"fintrack-server/src/syncutil"
)

// Poller evaluates active price alerts against market quotes on an interval.
// Crossed alerts are latched in the database (they fire at most once) and
// their notifications flow through a debounced queue so one volatile tick
// doesn't hammer the email provider.
type Poller struct {
	pool     *pgxpool.Pool
	market   *market.Client
	notifier *mail.Notifier
	interval time.Duration
	queue    *syncutil.DebouncedQueue[notification]
}

type notification struct {
	alert models.PriceAlert
	price float64
}

func NewPoller(pool *pgxpool.Pool, marketClient *market.Client, notifier *mail.Notifier, interval time.Duration) *Poller {
	p := &Poller{
		pool:     pool,
		market:   marketClient,
		notifier: notifier,
		interval: interval,
	}
	p.queue = syncutil.NewDebouncedQueue(25, 5*time.Second, p.deliver)
	return p
}

// Run polls until the context ends. A failed poll logs and waits for the
// next tick.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := p.queue.Close(); err != nil {
				log.Error().Err(err).Msg("failed to drain alert notifications")
			}
			return
		case <-ticker.C:
			if err := p.poll(ctx); err != nil {
				log.Error().Err(err).Msg("price alert poll failed")
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context) error {
	alerts, err := db.GetActivePriceAlerts(ctx, p.pool)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var coinIDs []string
	for _, a := range alerts {
		if _, ok := seen[a.CoinID]; !ok {
			seen[a.CoinID] = struct{}{}
			coinIDs = append(coinIDs, a.CoinID)
		}
	}

	prices, err := p.market.Prices(ctx, coinIDs)
	if err != nil {
		return err
	}

	for _, a := range alerts {
		price, ok := prices[a.CoinID]
		if !ok || !a.Crossed(price) {
			continue
		}
		claimed, err := db.MarkPriceAlertTriggered(ctx, p.pool, a.ID)
		if err != nil {
			log.Error().Err(err).Str("alert_id", a.ID).Msg("failed to latch triggered alert")
			continue
		}
		if !claimed {
			continue
		}
		log.Info().Str("alert_id", a.ID).Str("coin", a.CoinID).Float64("price", price).Msg("price alert triggered")
		p.queue.Add(notification{alert: a, price: price})
	}
	return nil
}

// deliver sends a batch of triggered-alert emails. Any failure re-queues the
// batch through the debounced queue's retry path.
func (p *Poller) deliver(batch []notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var firstErr error
	for _, n := range batch {
		user, err := db.GetUserByID(ctx, p.pool, n.alert.UserID)
		if err != nil {
			log.Error().Err(err).Int("user_id", n.alert.UserID).Msg("cannot resolve alert recipient")
			continue
		}
		triggeredAt := time.Now()
		if n.alert.TriggeredAt != nil {
			triggeredAt = *n.alert.TriggeredAt
		}
		err = p.notifier.SendAlertTriggered(ctx, user.Email, mail.AlertTriggeredEmail{
			Name:         user.FirstName,
			CoinID:       n.alert.CoinID,
			Condition:    n.alert.Condition,
			TargetPrice:  n.alert.TargetPrice,
			CurrentPrice: n.price,
			TriggeredAt:  triggeredAt,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
