package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderAlertTriggered(t *testing.T) {
	subject, body, err := RenderAlertTriggered(AlertTriggeredEmail{
		Name:         "Dana",
		CoinID:       "bitcoin",
		Condition:    "above",
		TargetPrice:  60000,
		CurrentPrice: 64250.12,
		TriggeredAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, "bitcoin is above $60000.00", subject)
	require.Contains(t, body, "Hi Dana,")
	require.Contains(t, body, "$64250.12")
	require.Contains(t, body, "Mar 14, 2026")
}

func TestRenderAlertTriggeredEscapesHTML(t *testing.T) {
	_, body, err := RenderAlertTriggered(AlertTriggeredEmail{
		Name:   `<script>alert("x")</script>`,
		CoinID: "bitcoin",
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}

func TestRenderWeeklySummary(t *testing.T) {
	subject, body, err := RenderWeeklySummary(WeeklySummaryEmail{
		Name:           "Dana",
		Income:         4000,
		Expenses:       2600,
		SavingsRatePct: 35,
		OverBudget:     2,
	})
	require.NoError(t, err)
	require.Equal(t, "Your weekly money summary", subject)
	require.Contains(t, body, "$2600.00")
	require.Contains(t, body, "over budget in 2 categories")

	_, body, err = RenderWeeklySummary(WeeklySummaryEmail{Name: "Dana"})
	require.NoError(t, err)
	require.NotContains(t, body, "over budget")
}
