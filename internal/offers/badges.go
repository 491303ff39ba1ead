package offers

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcortinas/fablink-backend/pkg/config"
	"github.com/dcortinas/fablink-backend/pkg/db/models"
	"github.com/dcortinas/fablink-backend/pkg/enums"
)

// fastTurnaroundDays is the cutoff for the threshold badge policy.
const fastTurnaroundDays = 10.0

const (
	PolicySingle    = "single"
	PolicyThreshold = "threshold"
	PolicyWeighted  = "weighted"
)

// BadgePolicy selects which fastest and best-value variants are active.
// Exactly one variant of each runs per deployment; the two are never
// mixed within one offer set.
type BadgePolicy struct {
	Fastest   string
	BestValue string
}

// PolicyFromConfig maps the deployment config onto a badge policy.
func PolicyFromConfig(cfg config.CompareConfig) BadgePolicy {
	return BadgePolicy{
		Fastest:   cfg.FastestPolicy,
		BestValue: cfg.BestValuePolicy,
	}
}

// ComparedOffer is an offer enriched with derived display fields and
// trust badges. Nil TotalPrice or LeadTimeDays means the underlying
// offer did not carry enough data to compute the value.
type ComparedOffer struct {
	Offer        models.Offer       `json:"offer"`
	TotalPrice   *decimal.Decimal   `json:"total_price"`
	LeadTimeDays *float64           `json:"lead_time_days"`
	PriceLabel   string             `json:"price_label"`
	LeadLabel    string             `json:"lead_label"`
	Badges       []enums.OfferBadge `json:"badges"`
}

// ParseTotalPrice converts a number-or-string price into a decimal.
// Currency symbols, commas, and surrounding whitespace are tolerated.
// Unparseable input yields nil rather than an error.
func ParseTotalPrice(value any) *decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		return &v
	case *decimal.Decimal:
		return v
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case float32:
		d := decimal.NewFromFloat32(v)
		return &d
	case int:
		d := decimal.NewFromInt(int64(v))
		return &d
	case int64:
		d := decimal.NewFromInt(v)
		return &d
	case string:
		cleaned := strings.TrimSpace(v)
		cleaned = strings.TrimPrefix(cleaned, "$")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		if cleaned == "" {
			return nil
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

// AveragedLeadDays computes the display lead time: mean of both bounds
// when present, the present bound otherwise, nil when neither is set.
func AveragedLeadDays(offer models.Offer) *float64 {
	minDays, maxDays := offer.LeadTimeDaysMin, offer.LeadTimeDaysMax
	switch {
	case minDays != nil && maxDays != nil:
		avg := (float64(*minDays) + float64(*maxDays)) / 2
		return &avg
	case minDays != nil:
		avg := float64(*minDays)
		return &avg
	case maxDays != nil:
		avg := float64(*maxDays)
		return &avg
	default:
		return nil
	}
}

// Compare enriches an offer set for one quote with derived fields and
// badges. Providers and matchHealth are lookups keyed by provider id;
// missing entries degrade (carve-out verification, withheld great-fit)
// instead of erroring. Output order follows input order, and for a fixed
// input the assignment is reproducible.
func Compare(offerRows []models.Offer, providers map[uuid.UUID]models.Provider, matchHealth map[uuid.UUID]enums.MatchHealth, policy BadgePolicy) []ComparedOffer {
	compared := make([]ComparedOffer, len(offerRows))
	for i, offer := range offerRows {
		compared[i] = ComparedOffer{
			Offer:        offer,
			TotalPrice:   offer.TotalPrice,
			LeadTimeDays: AveragedLeadDays(offer),
			Badges:       []enums.OfferBadge{},
		}
		compared[i].PriceLabel = priceLabel(offer.Currency, compared[i].TotalPrice)
		compared[i].LeadLabel = leadLabel(offer)

		if isVerified(offer, providers) {
			compared[i].Badges = append(compared[i].Badges, enums.OfferBadgeVerified)
		}
		if healthFor(offer, matchHealth) == enums.MatchHealthGood {
			compared[i].Badges = append(compared[i].Badges, enums.OfferBadgeGreatFit)
		}
	}

	switch policy.Fastest {
	case PolicyThreshold:
		for i := range compared {
			if lead := compared[i].LeadTimeDays; lead != nil && *lead <= fastTurnaroundDays {
				compared[i].Badges = append(compared[i].Badges, enums.OfferBadgeFastTurnaround)
			}
		}
	default:
		if winner := fastestIndex(compared); winner >= 0 {
			compared[winner].Badges = append(compared[winner].Badges, enums.OfferBadgeFastest)
		}
	}

	var valueWinner int
	if policy.BestValue == PolicyWeighted {
		valueWinner = weightedBestValueIndex(compared)
	} else {
		valueWinner = bestValueIndex(compared)
	}
	if valueWinner >= 0 {
		compared[valueWinner].Badges = append(compared[valueWinner].Badges, enums.OfferBadgeBestValue)
	}

	return compared
}

// Offers without a provider on record predate the directory and are
// treated as verified. This is a backward-compatibility carve-out, not
// a trust signal.
func isVerified(offer models.Offer, providers map[uuid.UUID]models.Provider) bool {
	if offer.ProviderID == nil {
		return true
	}
	provider, ok := providers[*offer.ProviderID]
	if !ok {
		return true
	}
	return provider.VerificationStatus == enums.VerificationStatusVerified
}

func healthFor(offer models.Offer, matchHealth map[uuid.UUID]enums.MatchHealth) enums.MatchHealth {
	if offer.ProviderID == nil {
		return enums.MatchHealthUnknown
	}
	health, ok := matchHealth[*offer.ProviderID]
	if !ok {
		return enums.MatchHealthUnknown
	}
	return health
}

// fastestIndex picks the single offer with the minimum averaged lead
// time, breaking ties by lower price. Offers without lead data never
// win. Remaining ties resolve to the earliest offer in input order.
func fastestIndex(compared []ComparedOffer) int {
	winner := -1
	for i := range compared {
		if compared[i].LeadTimeDays == nil {
			continue
		}
		if winner < 0 {
			winner = i
			continue
		}
		current, best := *compared[i].LeadTimeDays, *compared[winner].LeadTimeDays
		if current < best {
			winner = i
			continue
		}
		if current == best && priceLess(compared[i].TotalPrice, compared[winner].TotalPrice) {
			winner = i
		}
	}
	return winner
}

// bestValueIndex picks the single lowest-priced offer, breaking ties by
// shorter averaged lead time. Offers without a parseable price never win.
func bestValueIndex(compared []ComparedOffer) int {
	winner := -1
	for i := range compared {
		if compared[i].TotalPrice == nil {
			continue
		}
		if winner < 0 {
			winner = i
			continue
		}
		current, best := compared[i].TotalPrice, compared[winner].TotalPrice
		if current.LessThan(*best) {
			winner = i
			continue
		}
		if current.Equal(*best) && leadLess(compared[i].LeadTimeDays, compared[winner].LeadTimeDays) {
			winner = i
		}
	}
	return winner
}

// weightedBestValueIndex scores each fully-priced offer as
// 0.6*(minPrice/price) + 0.4*(minLead/lead) and picks the single
// highest score. Offers missing either input, or carrying zero values,
// are excluded from scoring.
func weightedBestValueIndex(compared []ComparedOffer) int {
	var minPrice *decimal.Decimal
	var minLead *float64
	for i := range compared {
		price, lead := compared[i].TotalPrice, compared[i].LeadTimeDays
		if price == nil || lead == nil || !price.IsPositive() || *lead <= 0 {
			continue
		}
		if minPrice == nil || price.LessThan(*minPrice) {
			minPrice = price
		}
		if minLead == nil || *lead < *minLead {
			minLead = lead
		}
	}
	if minPrice == nil || minLead == nil {
		return -1
	}

	winner := -1
	bestScore := 0.0
	for i := range compared {
		price, lead := compared[i].TotalPrice, compared[i].LeadTimeDays
		if price == nil || lead == nil || !price.IsPositive() || *lead <= 0 {
			continue
		}
		priceRatio, _ := minPrice.Div(*price).Float64()
		score := 0.6*priceRatio + 0.4*(*minLead / *lead)
		if winner < 0 || score > bestScore {
			winner = i
			bestScore = score
		}
	}
	return winner
}

func priceLess(a, b *decimal.Decimal) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.LessThan(*b)
}

func leadLess(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

func priceLabel(currency string, price *decimal.Decimal) string {
	if price == nil {
		return "Price on request"
	}
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %s", currency, price.StringFixed(2))
}

func leadLabel(offer models.Offer) string {
	minDays, maxDays := offer.LeadTimeDaysMin, offer.LeadTimeDaysMax
	switch {
	case minDays != nil && maxDays != nil && *minDays != *maxDays:
		return fmt.Sprintf("%d-%d days", *minDays, *maxDays)
	case minDays != nil:
		return fmt.Sprintf("%d days", *minDays)
	case maxDays != nil:
		return fmt.Sprintf("%d days", *maxDays)
	default:
		return "Lead time TBD"
	}
}
