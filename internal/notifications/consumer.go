package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/logger"
	"github.com/dcortinas/fablink-backend/pkg/mailer"
	"github.com/dcortinas/fablink-backend/pkg/metrics"
	"github.com/dcortinas/fablink-backend/pkg/outbox"
	"github.com/dcortinas/fablink-backend/pkg/outbox/idempotency"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
)

// ConsumerName scopes the redis idempotency markers.
const ConsumerName = "notification-worker"

// Attribute keys stamped on published outbox messages.
const (
	AttrEventType     = "event_type"
	AttrAggregateType = "aggregate_type"
	AttrAggregateID   = "aggregate_id"
)

// QuoteReader resolves the quote an event refers to.
type QuoteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
}

// ProviderReader resolves supplier records for recipient addressing.
type ProviderReader interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Provider, error)
}

// Dispatcher consumes notification events and sends email. Every
// failure past decode is absorbed: dispatch is a best-effort side
// channel and must never poison the subscription.
type Dispatcher struct {
	quotes     QuoteReader
	providers  ProviderReader
	deliveries DeliveryLog
	sender     mailer.Sender
	idemp      *idempotency.Manager
	metrics    *metrics.DispatchMetrics
	opts       Options
	logg       *logger.Logger
}

// NewDispatcher wires a notification dispatcher.
func NewDispatcher(quotes QuoteReader, providers ProviderReader, deliveries DeliveryLog, sender mailer.Sender, idemp *idempotency.Manager, m *metrics.DispatchMetrics, opts Options, logg *logger.Logger) (*Dispatcher, error) {
	if quotes == nil {
		return nil, fmt.Errorf("quote reader required")
	}
	if providers == nil {
		return nil, fmt.Errorf("provider reader required")
	}
	if deliveries == nil {
		return nil, fmt.Errorf("delivery log required")
	}
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{
		quotes:     quotes,
		providers:  providers,
		deliveries: deliveries,
		sender:     sender,
		idemp:      idemp,
		metrics:    m,
		opts:       opts,
		logg:       logg,
	}, nil
}

// Run blocks on the subscription until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, sub *pubsub.Subscriber) error {
	if sub == nil {
		return fmt.Errorf("subscription required")
	}
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		d.Process(ctx, msg.Data, msg.Attributes)
		// Always ack: redelivery cannot fix a bad payload, and partial
		// sends are guarded by the idempotency marker.
		msg.Ack()
	})
}

// Process handles one raw event. It never returns an error; everything
// is logged and recorded instead.
func (d *Dispatcher) Process(ctx context.Context, data []byte, attributes map[string]string) {
	eventType := enums.OutboxEventType(attributes[AttrEventType])
	ctx = d.logg.WithField(ctx, "event_type", string(eventType))

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		d.logg.Error(ctx, "undecodable notification payload", err)
		return
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		d.logg.Error(ctx, "notification envelope has no usable event id", err)
		return
	}
	ctx = d.logg.WithField(ctx, "event_id", envelope.EventID)

	if d.idemp != nil {
		already, err := d.idemp.CheckAndMarkProcessed(ctx, ConsumerName, eventID)
		if err != nil {
			// A broken marker store should not stall notifications;
			// proceed and tolerate a possible duplicate email.
			d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "idempotency check failed, processing anyway")
		} else if already {
			if d.metrics != nil {
				d.metrics.IncDuplicate(string(eventType))
			}
			d.logg.Info(ctx, "duplicate notification event skipped")
			return
		}
	}

	sends, err := d.resolve(ctx, eventType, envelope.Data)
	if err != nil {
		d.logg.Error(ctx, "notification resolution failed", err)
		return
	}
	d.deliver(ctx, eventID, eventType, sends)
}

// send pairs a recipient with its rendered notice.
type send struct {
	recipient Recipient
	notice    Notice
}

func (d *Dispatcher) resolve(ctx context.Context, eventType enums.OutboxEventType, raw json.RawMessage) ([]send, error) {
	switch eventType {
	case enums.EventMessagePosted:
		var event payloads.MessagePostedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		quote, err := d.quotes.FindByID(ctx, event.QuoteID)
		if err != nil {
			return nil, err
		}
		var awarded *models.Provider
		if quote.IsAwarded() {
			awarded = d.findProvider(ctx, *quote.AwardedSupplierID)
		}
		return renderAll(ForMessage(event.AuthorRole, *quote, awarded, d.opts), func(kind RecipientKind) Notice {
			return renderMessage(event, kind)
		}), nil

	case enums.EventQuoteStatusChanged:
		var event payloads.QuoteStatusChangedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		quote, err := d.quotes.FindByID(ctx, event.QuoteID)
		if err != nil {
			return nil, err
		}
		notice := renderStatusChange(event)
		return renderAll(ForStatusChange(*quote), func(RecipientKind) Notice { return notice }), nil

	case enums.EventOfferWon:
		var event payloads.OfferWonEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		quote, err := d.quotes.FindByID(ctx, event.QuoteID)
		if err != nil {
			return nil, err
		}
		suppliers := d.findProviders(ctx, supplierIDs(event))
		var winner *models.Provider
		if provider, ok := suppliers[event.SupplierID]; ok {
			winner = &provider
		}
		sends := renderAll(ForOfferWon(*quote, winner), func(kind RecipientKind) Notice {
			return renderOfferWon(event, kind)
		})
		for _, loser := range event.Losers {
			sends = append(sends, renderAll(ForOfferLost(loser, suppliers), func(kind RecipientKind) Notice {
				return renderOfferWon(event, kind)
			})...)
		}
		return sends, nil

	case enums.EventKickoffChanged:
		var event payloads.KickoffChangedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		quote, err := d.quotes.FindByID(ctx, event.QuoteID)
		if err != nil {
			return nil, err
		}
		awarded := d.findProvider(ctx, event.SupplierID)
		notice := renderKickoffChange(event)
		return renderAll(ForKickoffChange(*quote, awarded), func(RecipientKind) Notice { return notice }), nil

	case enums.EventChangeRequestSubmitted:
		var event payloads.ChangeRequestSubmittedEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		quote, err := d.quotes.FindByID(ctx, event.QuoteID)
		if err != nil {
			return nil, err
		}
		return renderAll(ForChangeRequest(event, *quote, d.opts), func(kind RecipientKind) Notice {
			return renderChangeRequest(event, kind)
		}), nil

	default:
		// Forward-compat: surface events this worker predates to ops
		// rather than dropping them silently.
		d.logg.Warn(ctx, "unknown notification event type")
		notice := renderUnknown(eventType)
		return renderAll(compact(admin(d.opts)), func(RecipientKind) Notice { return notice }), nil
	}
}

// deliver fans sends out concurrently. Order across recipients is
// unspecified; every attempt lands in the delivery log either way.
func (d *Dispatcher) deliver(ctx context.Context, eventID uuid.UUID, eventType enums.OutboxEventType, sends []send) {
	group, groupCtx := errgroup.WithContext(ctx)
	for _, item := range sends {
		group.Go(func() error {
			err := d.sender.Send(groupCtx, mailer.Message{
				To:       item.recipient.Email,
				Subject:  item.notice.Subject,
				TextBody: item.notice.Preview,
				HTMLBody: item.notice.HTML,
			})

			delivery := &models.EmailDelivery{
				EventID:   eventID,
				Recipient: item.recipient.Email,
				Subject:   item.notice.Subject,
				Status:    models.EmailDeliverySent,
			}
			if err != nil {
				msg := err.Error()
				delivery.Status = models.EmailDeliveryFailed
				delivery.Error = &msg
				if d.metrics != nil {
					d.metrics.IncEmailFailed(string(eventType))
				}
				d.logg.Error(groupCtx, "notification send failed", err)
			} else if d.metrics != nil {
				d.metrics.IncEmailSent(string(eventType))
			}

			if recordErr := d.deliveries.Record(groupCtx, delivery); recordErr != nil {
				d.logg.Error(groupCtx, "delivery record write failed", recordErr)
			}
			return nil
		})
	}
	_ = group.Wait()
}

func renderAll(recipients []Recipient, render func(RecipientKind) Notice) []send {
	sends := make([]send, 0, len(recipients))
	for _, r := range recipients {
		sends = append(sends, send{recipient: r, notice: render(r.Kind)})
	}
	return sends
}

func (d *Dispatcher) findProvider(ctx context.Context, id uuid.UUID) *models.Provider {
	providers := d.findProviders(ctx, []uuid.UUID{id})
	if provider, ok := providers[id]; ok {
		return &provider
	}
	return nil
}

// findProviders is best effort: a failed directory read means fewer
// resolvable recipients, not a dead event.
func (d *Dispatcher) findProviders(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]models.Provider {
	out := map[uuid.UUID]models.Provider{}
	if len(ids) == 0 {
		return out
	}
	rows, err := d.providers.FindByIDs(ctx, ids)
	if err != nil {
		d.logg.Error(ctx, "provider lookup failed during dispatch", err)
		return out
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out
}

func supplierIDs(event payloads.OfferWonEvent) []uuid.UUID {
	ids := []uuid.UUID{event.SupplierID}
	for _, loser := range event.Losers {
		if loser.SupplierID != nil {
			ids = append(ids, *loser.SupplierID)
		}
	}
	return ids
}
