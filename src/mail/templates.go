package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var alertTriggeredTmpl = template.Must(template.New("alert_triggered").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Price alert triggered</h2>
  <p>Hi {{.Name}},</p>
  <p>
    <strong>{{.CoinID}}</strong> is now trading {{.Condition}} your target of
    <strong>${{printf "%.2f" .TargetPrice}}</strong> — current price
    <strong>${{printf "%.2f" .CurrentPrice}}</strong>.
  </p>
  <p style="color: #616e7c; font-size: 12px;">
    Triggered at {{.TriggeredAt.Format "Jan 2, 2006 15:04 MST"}}.
    Manage your alerts from the portfolio page.
  </p>
</body>
</html>`))

var weeklySummaryTmpl = template.Must(template.New("weekly_summary").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Your week in numbers</h2>
  <p>Hi {{.Name}},</p>
  <table cellpadding="6">
    <tr><td>Income</td><td align="right"><strong>${{printf "%.2f" .Income}}</strong></td></tr>
    <tr><td>Spending</td><td align="right"><strong>${{printf "%.2f" .Expenses}}</strong></td></tr>
    <tr><td>Savings rate</td><td align="right"><strong>{{printf "%.0f" .SavingsRatePct}}%</strong></td></tr>
  </table>
  {{if .OverBudget}}<p style="color: #ba2525;">You are over budget in {{.OverBudget}} categories.</p>{{end}}
</body>
</html>`))

// AlertTriggeredEmail is the payload rendered into the alert template.
type AlertTriggeredEmail struct {
	Name         string
	CoinID       string
	Condition    string
	TargetPrice  float64
	CurrentPrice float64
	TriggeredAt  time.Time
}

type WeeklySummaryEmail struct {
	Name           string
	Income         float64
	Expenses       float64
	SavingsRatePct float64
	OverBudget     int
}

// RenderAlertTriggered produces the subject and HTML body for a triggered
// price alert.
func RenderAlertTriggered(data AlertTriggeredEmail) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := alertTriggeredTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render alert email: %w", err)
	}
	subject = fmt.Sprintf("%s is %s $%.2f", data.CoinID, data.Condition, data.TargetPrice)
	return subject, buf.String(), nil
}

func RenderWeeklySummary(data WeeklySummaryEmail) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := weeklySummaryTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render summary email: %w", err)
	}
	return "Your weekly money summary", buf.String(), nil
}
