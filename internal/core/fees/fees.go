package fees

import (
	"strings"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Region groups countries into the pricing zones used by the corridor table.
type Region int

const (
	RegionOther Region = iota
	RegionCentralAfrica
	RegionWestAfrica
	RegionEurope
)

var centralAfrica = map[string]struct{}{
	"cameroon":                 {},
	"gabon":                    {},
	"chad":                     {},
	"central african republic": {},
	"congo":                    {},
	"equatorial guinea":        {},
	"democratic republic of congo": {},
}

var westAfrica = map[string]struct{}{
	"senegal":       {},
	"ivory coast":   {},
	"cote d'ivoire": {},
	"mali":          {},
	"burkina faso":  {},
	"benin":         {},
	"togo":          {},
	"niger":         {},
	"guinea-bissau": {},
	"nigeria":       {},
	"ghana":         {},
}

var europe = map[string]struct{}{
	"france":         {},
	"germany":        {},
	"belgium":        {},
	"spain":          {},
	"italy":          {},
	"united kingdom": {},
	"switzerland":    {},
}

var (
	rateNational      = decimal.NewFromFloat(0.01)
	rateIntraRegion   = decimal.NewFromFloat(0.03)
	rateCrossRegion   = decimal.NewFromFloat(0.06)
	agentCommissionPc = decimal.NewFromFloat(0.10)
)

// Result is the outcome of a fee computation. Fee always equals
// AgentCommission plus PlatformCommission.
type Result struct {
	Fee                decimal.Decimal `json:"fee"`
	Rate               decimal.Decimal `json:"rate"` // fraction, e.g. 0.03
	AgentCommission    decimal.Decimal `json:"agentCommission"`
	PlatformCommission decimal.Decimal `json:"platformCommission"`
}

// RegionOf classifies a country name into a pricing region. Matching is
// case-insensitive; unknown countries fall into RegionOther.
func RegionOf(country string) Region {
	name := strings.ToLower(strings.TrimSpace(country))
	if _, ok := centralAfrica[name]; ok {
		return RegionCentralAfrica
	}
	if _, ok := westAfrica[name]; ok {
		return RegionWestAfrica
	}
	if _, ok := europe[name]; ok {
		return RegionEurope
	}
	return RegionOther
}

// rateFor resolves the corridor rate, most specific rule first.
func rateFor(senderCountry, recipientCountry string) (rate decimal.Decimal, national bool) {
	if strings.EqualFold(strings.TrimSpace(senderCountry), strings.TrimSpace(recipientCountry)) {
		return rateNational, true
	}

	from := RegionOf(senderCountry)
	to := RegionOf(recipientCountry)

	switch {
	case from == RegionCentralAfrica && to == RegionCentralAfrica:
		return rateIntraRegion, false
	case from == RegionWestAfrica && to == RegionWestAfrica:
		return rateIntraRegion, false
	case (from == RegionCentralAfrica && to == RegionWestAfrica) ||
		(from == RegionWestAfrica && to == RegionCentralAfrica):
		return rateCrossRegion, false
	case (from == RegionEurope && (to == RegionCentralAfrica || to == RegionWestAfrica)) ||
		(to == RegionEurope && (from == RegionCentralAfrica || from == RegionWestAfrica)):
		return rateIntraRegion, false
	default:
		return rateCrossRegion, false
	}
}

// Calculate maps a transfer to its fee and commission split.
//
// Amounts are whole currency units; the fee and both commission shares are
// rounded to whole units, with the platform share taking the remainder so the
// split always sums to the fee. Agents earn a 10% commission on international
// transfers only; national transfers and non-agent senders yield the whole
// fee to the platform.
func Calculate(amount decimal.Decimal, senderCountry, recipientCountry string, role domain.AccountRole) (Result, error) {
	if amount.LessThanOrEqual(decimal.Zero) || !amount.IsInteger() {
		return Result{}, apperrors.ErrInvalidAmount
	}

	rate, national := rateFor(senderCountry, recipientCountry)
	fee := amount.Mul(rate).Round(0)

	res := Result{
		Fee:                fee,
		Rate:               rate,
		AgentCommission:    decimal.Zero,
		PlatformCommission: fee,
	}

	if role == domain.RoleAgent && !national {
		res.AgentCommission = fee.Mul(agentCommissionPc).Round(0)
		res.PlatformCommission = fee.Sub(res.AgentCommission)
	}

	return res, nil
}
