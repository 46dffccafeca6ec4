// Package notify routes notification events to their target users.
// Delivery itself (email, SMS, push) is an external collaborator behind
// the Channel interface; this package only resolves recipients and
// shapes payloads.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mabuhanifa/aahaar-backend/internal/model"
	"github.com/mabuhanifa/aahaar-backend/internal/store"
)

// Notification types.
const (
	TypeDonationReceived = "donation_received"
	TypeProofUploaded    = "proof_uploaded"
	TypeTaskCompleted    = "task_completed"
	TypeLowInventory     = "low_inventory"
)

type recipientKind int

const (
	kindUser recipientKind = iota
	kindEmail
	kindRoles
)

// Recipient is the three-way notification target: a concrete user, a
// bare email address, or a set of roles. Construct with User, Email or
// Roles; the zero value is a user reference to ID 0 and resolves to
// nobody.
type Recipient struct {
	kind   recipientKind
	userID int64
	email  string
	roles  []string
}

// User targets a single user by ID.
func User(id int64) Recipient { return Recipient{kind: kindUser, userID: id} }

// Email targets an email address directly, with no user lookup.
// Email recipients always proceed to dispatch.
func Email(addr string) Recipient { return Recipient{kind: kindEmail, email: addr} }

// Roles targets every active user holding at least one of the roles.
func Roles(roles ...string) Recipient { return Recipient{kind: kindRoles, roles: roles} }

// String describes the recipient for logging.
func (r Recipient) String() string {
	switch r.kind {
	case kindEmail:
		return "email " + r.email
	case kindRoles:
		return "roles " + strings.Join(r.roles, ",")
	default:
		return fmt.Sprintf("user %d", r.userID)
	}
}

// Event is a resolved notification handed to the delivery channel.
// Targets is empty for email-only recipients; Email is empty otherwise.
type Event struct {
	Type    string
	Targets []model.User
	Email   string
	Payload map[string]any
}

// Channel delivers resolved notification events. Implementations must
// not block the caller for long; no delivery result is consumed.
type Channel interface {
	Deliver(ctx context.Context, event Event)
}

// Sender is the dispatch interface the engines depend on.
type Sender interface {
	Send(ctx context.Context, notificationType string, recipient Recipient, payload map[string]any)
}

// Dispatcher resolves recipients against the user directory and hands
// events to its channel. Dispatch is fire-and-forget: every failure is
// logged, none is surfaced to the caller.
type Dispatcher struct {
	DB      *sql.DB
	Channel Channel
}

// Send resolves the recipient and dispatches one event.
func (d *Dispatcher) Send(ctx context.Context, notificationType string, recipient Recipient, payload map[string]any) {
	var targets []model.User

	switch recipient.kind {
	case kindUser:
		user, err := store.GetUser(ctx, d.DB, recipient.userID)
		if err != nil {
			slog.Error("resolving notification recipient", "type", notificationType, "recipient", recipient.String(), "error", err)
			return
		}
		if user != nil && user.DeletedAt == nil {
			targets = []model.User{*user}
		}
	case kindEmail:
		// No lookup: the address is the target.
	case kindRoles:
		users, err := store.FindUsersByRoles(ctx, d.DB, recipient.roles)
		if err != nil {
			slog.Error("resolving notification recipient", "type", notificationType, "recipient", recipient.String(), "error", err)
			return
		}
		targets = users
	}

	if len(targets) == 0 && recipient.kind != kindEmail {
		slog.Warn("no recipients for notification", "type", notificationType, "recipient", recipient.String())
		return
	}

	slog.Info("sending notification", "type", notificationType, "recipient", recipient.String(), "targets", len(targets))

	d.Channel.Deliver(ctx, Event{
		Type:    notificationType,
		Targets: targets,
		Email:   recipient.email,
		Payload: payload,
	})
}

// LogChannel records every delivered event via slog. It stands in for
// the real email/SMS channels, which live outside this backend.
type LogChannel struct{}

// Deliver implements Channel.
func (LogChannel) Deliver(_ context.Context, event Event) {
	attrs := []any{"targets", len(event.Targets)}
	if event.Email != "" {
		attrs = append(attrs, "email", event.Email)
	}

	switch event.Type {
	case TypeDonationReceived:
		attrs = append(attrs, "donation_id", event.Payload["donationId"], "amount", event.Payload["amount"])
	case TypeProofUploaded:
		attrs = append(attrs, "media_id", event.Payload["mediaId"], "donation_id", event.Payload["donationId"], "task_id", event.Payload["taskId"])
	case TypeTaskCompleted:
		attrs = append(attrs, "task_id", event.Payload["taskId"], "task_type", event.Payload["taskType"])
	case TypeLowInventory:
		attrs = append(attrs, "item", event.Payload["itemName"], "stock", event.Payload["stock"], "threshold", event.Payload["threshold"])
	default:
		slog.Warn("unknown notification type", "type", event.Type)
		return
	}

	slog.Info("notification: "+event.Type, attrs...)
}
