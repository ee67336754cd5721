package services

import (
	"fmt"
	"time"

	"github.com/IfedayoAwe/corp-payment-gateway/models"
	"github.com/shopspring/decimal"
)

// IST is India Standard Time. A fixed zone keeps the cutoff independent of
// the host's tzdata.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// ModeRule bounds the amount for one payment mode. Nil bounds are open.
type ModeRule struct {
	Mode            models.PaymentMode
	Min             *decimal.Decimal
	Max             *decimal.Decimal
	MaxExclusive    bool
	HoldAfterCutoff bool
	Reason          error
	Description     string
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultModeRules is the rail table: FT and IMPS below 2,00,000, RTGS from
// 2,00,000, NEFT between 1,000 and 5,00,000 and held after the cutoff.
func DefaultModeRules() []ModeRule {
	return []ModeRule{
		{
			Mode:         models.ModeFT,
			Max:          bound(200000),
			MaxExclusive: true,
			Reason:       ErrAmountTooHigh,
			Description:  "For FT and IMPS, Amount must be < Rs 2,00,000",
		},
		{
			Mode:        models.ModeRTGS,
			Min:         bound(200000),
			Reason:      ErrAmountTooLow,
			Description: "For RTGS, Amount must be >= Rs 2,00,000",
		},
		{
			Mode:         models.ModeIMPS,
			Max:          bound(200000),
			MaxExclusive: true,
			Reason:       ErrAmountTooHigh,
			Description:  "For FT and IMPS, Amount must be < Rs 2,00,000",
		},
		{
			Mode:            models.ModeNEFT,
			Min:             bound(1000),
			Max:             bound(500000),
			HoldAfterCutoff: true,
			Reason:          ErrAmountOutOfBand,
			Description:     "For NEFT, Amount must be between Rs 1,000 and Rs 5,00,000",
		},
	}
}

type BusinessRuleEngine interface {
	Supports(mode models.PaymentMode) bool
	Modes() []models.PaymentMode
	// Evaluate returns a *RuleError for a bound violation and ErrCutoffHold
	// when the payment is valid but must wait for the next business day.
	Evaluate(mode models.PaymentMode, amount decimal.Decimal, now time.Time) error
}

type ruleEngine struct {
	rules  map[models.PaymentMode]ModeRule
	modes  []models.PaymentMode
	cutoff time.Duration
}

// ParseCutoff reads an HH:MM wall-clock time as an offset from midnight.
func ParseCutoff(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid cutoff %q: %w", value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// NewRuleEngine enables the given modes. Every enabled mode must have a rule.
func NewRuleEngine(rules []ModeRule, enabled []string, cutoff string) (BusinessRuleEngine, error) {
	at, err := ParseCutoff(cutoff)
	if err != nil {
		return nil, err
	}

	byMode := make(map[models.PaymentMode]ModeRule, len(rules))
	for _, r := range rules {
		byMode[r.Mode] = r
	}

	e := &ruleEngine{
		rules:  make(map[models.PaymentMode]ModeRule, len(enabled)),
		cutoff: at,
	}
	for _, m := range enabled {
		mode := models.PaymentMode(m)
		r, ok := byMode[mode]
		if !ok {
			return nil, fmt.Errorf("no rule for payment mode %q", m)
		}
		if _, dup := e.rules[mode]; dup {
			continue
		}
		e.rules[mode] = r
		e.modes = append(e.modes, mode)
	}
	if len(e.modes) == 0 {
		return nil, fmt.Errorf("no payment modes enabled")
	}

	return e, nil
}

func (e *ruleEngine) Supports(mode models.PaymentMode) bool {
	_, ok := e.rules[mode]
	return ok
}

func (e *ruleEngine) Modes() []models.PaymentMode {
	out := make([]models.PaymentMode, len(e.modes))
	copy(out, e.modes)
	return out
}

func (e *ruleEngine) Evaluate(mode models.PaymentMode, amount decimal.Decimal, now time.Time) error {
	r, ok := e.rules[mode]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	if r.Min != nil && amount.LessThan(*r.Min) {
		return &RuleError{Reason: r.Reason, Description: r.Description}
	}
	if r.Max != nil {
		if amount.GreaterThan(*r.Max) || (r.MaxExclusive && amount.Equal(*r.Max)) {
			return &RuleError{Reason: r.Reason, Description: r.Description}
		}
	}

	if r.HoldAfterCutoff && e.pastCutoff(now) {
		return ErrCutoffHold
	}
	return nil
}

// pastCutoff is true at or after the cutoff on the IST calendar day of now.
func (e *ruleEngine) pastCutoff(now time.Time) bool {
	local := now.In(IST)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, IST)
	return local.Sub(midnight) >= e.cutoff
}
