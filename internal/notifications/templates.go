package notifications

import (
	"fmt"
	"html"

	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
)

// Notice is a rendered email ready for the mailer.
type Notice struct {
	Subject string
	Preview string
	HTML    string
}

func shortID(id fmt.Stringer) string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func renderMessage(event payloads.MessagePostedEvent, kind RecipientKind) Notice {
	subject := fmt.Sprintf("New message on quote %s", shortID(event.QuoteID))
	if kind == RecipientAdmin {
		subject = fmt.Sprintf("Customer message on quote %s", shortID(event.QuoteID))
	}
	preview := event.Preview
	return Notice{
		Subject: subject,
		Preview: preview,
		HTML: fmt.Sprintf("<p>A new message was posted on quote <strong>%s</strong>:</p><blockquote>%s</blockquote>",
			shortID(event.QuoteID), html.EscapeString(event.Preview)),
	}
}

func renderStatusChange(event payloads.QuoteStatusChangedEvent) Notice {
	return Notice{
		Subject: fmt.Sprintf("Quote %s is now %s", shortID(event.QuoteID), event.ToStatus),
		Preview: fmt.Sprintf("Status moved from %s to %s", event.FromStatus, event.ToStatus),
		HTML: fmt.Sprintf("<p>Your quote <strong>%s</strong> moved from <em>%s</em> to <em>%s</em>.</p>",
			shortID(event.QuoteID), event.FromStatus, event.ToStatus),
	}
}

func renderOfferWon(event payloads.OfferWonEvent, kind RecipientKind) Notice {
	switch kind {
	case RecipientSupplier:
		return Notice{
			Subject: fmt.Sprintf("You won quote %s", shortID(event.QuoteID)),
			Preview: "Your bid was selected. Kickoff starts now.",
			HTML: fmt.Sprintf("<p>Congratulations! Your bid on quote <strong>%s</strong> was selected.</p>",
				shortID(event.QuoteID)),
		}
	case RecipientLosingBidder:
		return Notice{
			Subject: fmt.Sprintf("Quote %s was awarded to another supplier", shortID(event.QuoteID)),
			Preview: "This request has been awarded.",
			HTML: fmt.Sprintf("<p>Quote <strong>%s</strong> has been awarded to another supplier. Thank you for bidding.</p>",
				shortID(event.QuoteID)),
		}
	default:
		return Notice{
			Subject: fmt.Sprintf("A supplier was selected for quote %s", shortID(event.QuoteID)),
			Preview: "Your project is moving to kickoff.",
			HTML: fmt.Sprintf("<p>A supplier was selected for your quote <strong>%s</strong>. Kickoff tasks are being prepared.</p>",
				shortID(event.QuoteID)),
		}
	}
}

func renderKickoffChange(event payloads.KickoffChangedEvent) Notice {
	if event.AllComplete {
		// TaskID is absent when an admin signs off directly, so no
		// rollup counts are available to show.
		if event.TaskID == nil {
			return Notice{
				Subject: fmt.Sprintf("Kickoff complete for quote %s", shortID(event.QuoteID)),
				Preview: "Kickoff was signed off by the FabLink team.",
				HTML: fmt.Sprintf("<p>Kickoff for quote <strong>%s</strong> was marked complete by the FabLink team.</p>",
					shortID(event.QuoteID)),
			}
		}
		return Notice{
			Subject: fmt.Sprintf("Kickoff complete for quote %s", shortID(event.QuoteID)),
			Preview: "All kickoff tasks are done.",
			HTML: fmt.Sprintf("<p>Kickoff for quote <strong>%s</strong> is complete (%d/%d tasks).</p>",
				shortID(event.QuoteID), event.CompletedTasks, event.TotalTasks),
		}
	}
	return Notice{
		Subject: fmt.Sprintf("Kickoff update on quote %s", shortID(event.QuoteID)),
		Preview: fmt.Sprintf("%d of %d tasks complete", event.CompletedTasks, event.TotalTasks),
		HTML: fmt.Sprintf("<p>Kickoff progress on quote <strong>%s</strong>: %d of %d tasks complete.</p>",
			shortID(event.QuoteID), event.CompletedTasks, event.TotalTasks),
	}
}

func renderChangeRequest(event payloads.ChangeRequestSubmittedEvent, kind RecipientKind) Notice {
	if kind == RecipientAdmin {
		return Notice{
			Subject: fmt.Sprintf("Change request on quote %s", shortID(event.QuoteID)),
			Preview: event.Summary,
			HTML: fmt.Sprintf("<p>A customer filed a change request on quote <strong>%s</strong>:</p><blockquote>%s</blockquote>",
				shortID(event.QuoteID), html.EscapeString(event.Summary)),
		}
	}
	return Notice{
		Subject: fmt.Sprintf("We received your change request for quote %s", shortID(event.QuoteID)),
		Preview: "Our team is reviewing your request.",
		HTML: fmt.Sprintf("<p>We received your change request for quote <strong>%s</strong> and will follow up shortly.</p>",
			shortID(event.QuoteID)),
	}
}

// renderUnknown is the fallback for event kinds this worker version does
// not know how to phrase. It should never reach a customer; the matrix
// returns no recipients for unknown kinds.
func renderUnknown(eventType enums.OutboxEventType) Notice {
	return Notice{
		Subject: fmt.Sprintf("Notification: %s", eventType),
		Preview: string(eventType),
		HTML:    fmt.Sprintf("<p>Event: %s</p>", html.EscapeString(string(eventType))),
	}
}
