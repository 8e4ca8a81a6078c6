package prospect

import (
	"bytes"
	"html/template"
	"strings"

	"csei-backend/internal/domain/notify"
	"csei-backend/internal/domain/prospect"
)

var reviewTmpl = template.Must(template.New("prospect_review").Parse(`<h2>Membership Application Update</h2>
<p>Dear {{.Name}},</p>
{{- if .Approved}}
<p>Congratulations! Your membership application has been approved.</p>
<p><strong>Member ID:</strong> {{.MemberID}}</p>
<p><strong>Temporary password:</strong> {{.Password}}</p>
<p>Please sign in and change your password as soon as possible.</p>
{{- else}}
<p><strong>New Status:</strong> {{.StatusLabel}}</p>
{{- if .Rejected}}
<p>Unfortunately, your membership application has been rejected.</p>
{{- else if .MoreInfo}}
<p>We need additional information to process your application.</p>
{{- else}}
<p>Your application is being reviewed by our membership team.</p>
{{- end}}
{{- end}}
{{- if .Comment}}
<p><strong>Comments:</strong> {{.Comment}}</p>
{{- end}}
<p>Thank you for your interest in CSEI.</p>
<p>Best regards,<br>CSEI Membership Team</p>`))

type reviewEmail struct {
	Name        string
	Approved    bool
	Rejected    bool
	MoreInfo    bool
	StatusLabel string
	MemberID    string
	Password    string
	Comment     string
}

func statusLabel(s prospect.Status) string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

func reviewMessage(p *prospect.Prospect, comment, memberID, password string) (notify.Message, error) {
	data := reviewEmail{
		Name:        strings.TrimSpace(p.Name + " " + p.Surname),
		Approved:    p.Status == prospect.StatusApproved,
		Rejected:    p.Status == prospect.StatusRejected,
		MoreInfo:    p.Status == prospect.StatusRequiresMoreInfo,
		StatusLabel: statusLabel(p.Status),
		MemberID:    memberID,
		Password:    password,
		Comment:     comment,
	}
	var buf bytes.Buffer
	if err := reviewTmpl.Execute(&buf, data); err != nil {
		return notify.Message{}, err
	}
	subject := "Membership Application Status Update"
	if data.Approved {
		subject = "Membership Application Approved"
	}
	return notify.Message{
		FromName:    notify.MembershipName,
		FromAddress: notify.MembershipAddress,
		To:          p.Email,
		Subject:     subject,
		HTMLBody:    buf.String(),
	}, nil
}
