package notifications

import (
	"github.com/google/uuid"

	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
	"github.com/dcortinas/fablink-backend/pkg/outbox/payloads"
)

// RecipientKind tags who a notice is for. It drives template wording,
// not delivery mechanics.
type RecipientKind string

const (
	RecipientAdmin        RecipientKind = "admin"
	RecipientCustomer     RecipientKind = "customer"
	RecipientSupplier     RecipientKind = "supplier"
	RecipientLosingBidder RecipientKind = "losing_bidder"
)

// Recipient is one resolved delivery target. Targets without a known
// address are dropped during resolution, never erroring.
type Recipient struct {
	Kind  RecipientKind
	Email string
}

// Options carries the deployment-level gates recipient resolution needs.
type Options struct {
	AdminInbox string
	// Production gates customer-facing change-request mail: test and
	// development environments never email customers about them.
	Production                  bool
	ChangeRequestCustomerEmails bool
}

// ForMessage resolves the thread notice targets: customer-authored
// entries go to admin, supplier- and admin-authored entries go to the
// customer, and admin-authored entries additionally copy the awarded
// supplier when one is assigned.
func ForMessage(authorRole enums.ActorRole, quote models.Quote, awardedSupplier *models.Provider, opts Options) []Recipient {
	switch authorRole {
	case enums.ActorRoleCustomer:
		return compact(admin(opts))
	case enums.ActorRoleSupplier:
		return compact(customer(quote))
	case enums.ActorRoleAdmin:
		recipients := compact(customer(quote))
		if quote.IsAwarded() {
			recipients = append(recipients, compact(supplier(awardedSupplier))...)
		}
		return recipients
	default:
		return nil
	}
}

// ForStatusChange notifies the quote's customer.
func ForStatusChange(quote models.Quote) []Recipient {
	return compact(customer(quote))
}

// ForKickoffChange notifies the customer and the awarded supplier.
func ForKickoffChange(quote models.Quote, awardedSupplier *models.Provider) []Recipient {
	return compact(customer(quote), supplier(awardedSupplier))
}

// ForOfferWon notifies the winning supplier and the customer. Losing
// bidders are resolved separately, one notice each.
func ForOfferWon(quote models.Quote, winner *models.Provider) []Recipient {
	return compact(supplier(winner), customer(quote))
}

// ForOfferLost resolves one losing bidder's notice.
func ForOfferLost(loser payloads.LosingBidder, suppliers map[uuid.UUID]models.Provider) []Recipient {
	if loser.SupplierID == nil {
		return nil
	}
	provider, ok := suppliers[*loser.SupplierID]
	if !ok {
		return nil
	}
	if provider.Email == nil || *provider.Email == "" {
		return nil
	}
	return []Recipient{{Kind: RecipientLosingBidder, Email: *provider.Email}}
}

// ForChangeRequest always notifies admin. The customer is copied only
// when the environment gate and the per-request preference both allow.
func ForChangeRequest(event payloads.ChangeRequestSubmittedEvent, quote models.Quote, opts Options) []Recipient {
	recipients := compact(admin(opts))
	if opts.Production && opts.ChangeRequestCustomerEmails && event.NotifyCustomer {
		recipients = append(recipients, compact(customer(quote))...)
	}
	return recipients
}

func admin(opts Options) Recipient {
	return Recipient{Kind: RecipientAdmin, Email: opts.AdminInbox}
}

func customer(quote models.Quote) Recipient {
	r := Recipient{Kind: RecipientCustomer}
	if quote.CustomerEmail != nil {
		r.Email = *quote.CustomerEmail
	}
	return r
}

func supplier(provider *models.Provider) Recipient {
	r := Recipient{Kind: RecipientSupplier}
	if provider != nil && provider.Email != nil {
		r.Email = *provider.Email
	}
	return r
}

// compact drops recipients with no address.
func compact(candidates ...Recipient) []Recipient {
	out := make([]Recipient, 0, len(candidates))
	for _, r := range candidates {
		if r.Email == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
