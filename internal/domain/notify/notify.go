// Package notify declares the outbound email contract used by the workflows.
package notify

import "context"

type Message struct {
	FromName    string
	FromAddress string
	To          string
	Subject     string
	HTMLBody    string
}

// Sender delivers one message synchronously.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Dispatcher hands a message off for asynchronous delivery. It reports whether
// the message was accepted; delivery failures are never returned to callers.
type Dispatcher interface {
	Dispatch(ctx context.Context, m Message) bool
}

// Department senders.
const (
	LoansName         = "CSEI Loan Department"
	LoansAddress      = "loans@csei.com"
	MembershipName    = "CSEI Membership"
	MembershipAddress = "membership@csei.com"
	AlertsName        = "CSEI Notifications"
	AlertsAddress     = "notifications@csei.com"
)
