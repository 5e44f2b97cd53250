package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when stored subscription data has none.
const DefaultCurrency = "BRL"

// Subscription is a user's plan and billing state.
type Subscription struct {
	Plan               Plan
	Status             SubscriptionStatus
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	PaymentProvider    string
	Amount             *decimal.Decimal
	Currency           string
}

// DefaultSubscription is the free/inactive value returned whenever no
// record can be read.
func DefaultSubscription() Subscription {
	return Subscription{Plan: PlanFree, Status: SubscriptionInactive}
}

// subscriptionData is the JSON shape of profiles.subscription_data.
type subscriptionData struct {
	Plan               string           `json:"plan,omitempty"`
	Status             string           `json:"status,omitempty"`
	CurrentPeriodStart string           `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   string           `json:"current_period_end,omitempty"`
	PaymentProvider    string           `json:"payment_provider,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Currency           string           `json:"currency,omitempty"`
}

// DecodeSubscription maps a profile's plan column and subscription_data
// payload to a Subscription. Missing plan defaults to free, missing status
// to inactive and missing currency to BRL. Each payload key is read on its
// own, so a malformed field is dropped without affecting the others.
func DecodeSubscription(plan string, raw []byte) Subscription {
	s := Subscription{Plan: PlanFree, Status: SubscriptionInactive, Currency: DefaultCurrency}
	if p, ok := ParsePlan(plan); ok {
		s.Plan = p
	}

	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return s
	}
	if st, ok := ParseSubscriptionStatus(stringField(fields, "status")); ok {
		s.Status = st
	}
	s.CurrentPeriodStart = parseTimestamp(stringField(fields, "current_period_start"))
	s.CurrentPeriodEnd = parseTimestamp(stringField(fields, "current_period_end"))
	s.PaymentProvider = stringField(fields, "payment_provider")
	s.Amount = decimalField(fields, "amount")
	if c := stringField(fields, "currency"); c != "" {
		s.Currency = c
	}
	return s
}

// decimalField accepts a JSON number or numeric string.
func decimalField(fields map[string]json.RawMessage, key string) *decimal.Decimal {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return &d
}

// EncodeSubscriptionData serializes s for profiles.subscription_data.
func EncodeSubscriptionData(s Subscription) ([]byte, error) {
	data := subscriptionData{
		Plan:            string(s.Plan),
		Status:          string(s.Status),
		PaymentProvider: s.PaymentProvider,
		Amount:          s.Amount,
		Currency:        s.Currency,
	}
	if s.CurrentPeriodStart != nil {
		data.CurrentPeriodStart = s.CurrentPeriodStart.UTC().Format(time.RFC3339)
	}
	if s.CurrentPeriodEnd != nil {
		data.CurrentPeriodEnd = s.CurrentPeriodEnd.UTC().Format(time.RFC3339)
	}
	return json.Marshal(data)
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, DueDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
