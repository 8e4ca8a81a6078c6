package loan

import (
	"bytes"
	"html/template"
	"strings"

	"csei-backend/internal/domain/loan"
	"csei-backend/internal/domain/notify"
	"csei-backend/pkg/money"

	"github.com/shopspring/decimal"
)

var submittedTmpl = template.Must(template.New("loan_submitted").Parse(`<h2>Loan Application Confirmation</h2>
<p>Dear {{.Name}},</p>
<p>Your loan application has been submitted successfully.</p>
<h3>Application Details:</h3>
<ul>
<li><strong>Application ID:</strong> {{.ApplicationID}}</li>
<li><strong>Amount:</strong> {{.Amount}} FCFA</li>
<li><strong>Duration:</strong> {{.Duration}} months</li>
<li><strong>Status:</strong> Pending Review</li>
</ul>
<p>You will be notified once your application has been reviewed.</p>
<p>Thank you for choosing CSEI.</p>`))

var reviewedTmpl = template.Must(template.New("loan_reviewed").Parse(`<h2>Loan Application Status Update</h2>
<p>Dear {{.Name}},</p>
<p>Your loan application <strong>{{.ApplicationID}}</strong> has been reviewed.</p>
<p><strong>New Status:</strong> {{.StatusLabel}}</p>
{{- if .Comments}}
<p><strong>Comments:</strong> {{.Comments}}</p>
{{- end}}
{{- range .Lines}}
<p>{{.}}</p>
{{- end}}
<p>If you have any questions, please don't hesitate to contact us.</p>
<p>Thank you for choosing CSEI.</p>`))

// Per-outcome copy; statuses without an entry get none.
var reviewCopy = map[loan.Status][]string{
	loan.StatusApproved: {
		"Congratulations! Your loan application has been approved.",
		"Our team will contact you shortly to complete the loan disbursement process.",
	},
	loan.StatusRejected: {
		"Unfortunately, your loan application has been rejected.",
		"You may reapply after addressing the concerns mentioned in the comments.",
	},
	loan.StatusRequiresMoreInfo: {
		"We need additional information to process your application.",
		"Please contact our loan department or submit the required documents.",
	},
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func submittedMessage(to, name, applicationID string, amount decimal.Decimal, duration int) (notify.Message, error) {
	body, err := render(submittedTmpl, map[string]any{
		"Name":          name,
		"ApplicationID": applicationID,
		"Amount":        money.Format(amount),
		"Duration":      duration,
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		FromName:    notify.LoansName,
		FromAddress: notify.LoansAddress,
		To:          to,
		Subject:     "Loan Application Submitted Successfully",
		HTMLBody:    body,
	}, nil
}

func reviewedMessage(to, name, applicationID string, status loan.Status, comments string) (notify.Message, error) {
	body, err := render(reviewedTmpl, map[string]any{
		"Name":          name,
		"ApplicationID": applicationID,
		"StatusLabel":   strings.ToUpper(strings.ReplaceAll(string(status), "_", " ")),
		"Comments":      comments,
		"Lines":         reviewCopy[status],
	})
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		FromName:    notify.LoansName,
		FromAddress: notify.LoansAddress,
		To:          to,
		Subject:     "Loan Application Status Update",
		HTMLBody:    body,
	}, nil
}
