package balance

import (
	"bytes"
	"html/template"
	"time"

	"csei-backend/internal/domain/ledger"
	"csei-backend/internal/domain/notify"
	"csei-backend/pkg/money"

	"github.com/shopspring/decimal"
)

var changeTmpl = template.Must(template.New("balance_change").Funcs(template.FuncMap{
	"amount": money.Format,
	"day":    func(t time.Time) string { return t.Format("1/2/2006") },
	"orTx": func(s string) string {
		if s == "" {
			return "Transaction"
		}
		return s
	},
}).Parse(`<h2>Account Balance Update</h2>
<p>Dear {{.Name}},</p>
<p>Your account balance has been updated.</p>
<h3>Transaction Details:</h3>
<ul>
<li><strong>Amount:</strong> {{.Delta}} FCFA</li>
<li><strong>Previous Balance:</strong> {{amount .Previous}} FCFA</li>
<li><strong>New Balance:</strong> {{amount .Current}} FCFA</li>
<li><strong>Date:</strong> {{.Date}}</li>
</ul>
{{- if .Current.IsNegative}}
<p style="color: #DC2626;"><strong>Note:</strong> Your account balance is now negative ({{amount .Current}} FCFA). Please contact us to resolve this.</p>
{{- end}}
{{- if .Recent}}
<h3>Recent Transactions:</h3>
<ul>
{{- range .Recent}}
<li>{{orTx .Description}} - {{amount .OriginalAmount}} FCFA ({{day .PostingDate}})</li>
{{- end}}
</ul>
{{- end}}
<p>If you have any questions about this transaction, please contact us.</p>
<p>Thank you for choosing CSEI.</p>`))

type change struct {
	Name     string
	To       string
	Previous decimal.Decimal
	Current  decimal.Decimal
	At       time.Time
	Recent   []ledger.Transaction
}

func changeMessage(c change) (notify.Message, error) {
	delta := c.Current.Sub(c.Previous)
	var buf bytes.Buffer
	err := changeTmpl.Execute(&buf, map[string]any{
		"Name":     c.Name,
		"Delta":    money.Signed(delta),
		"Previous": c.Previous,
		"Current":  c.Current,
		"Date":     c.At.Format("January 2, 2006 at 03:04 PM"),
		"Recent":   c.Recent,
	})
	if err != nil {
		return notify.Message{}, err
	}
	subject := "Account Debited - CSEI"
	if delta.IsPositive() {
		subject = "Account Credited - CSEI"
	}
	return notify.Message{
		FromName:    notify.AlertsName,
		FromAddress: notify.AlertsAddress,
		To:          c.To,
		Subject:     subject,
		HTMLBody:    buf.String(),
	}, nil
}
