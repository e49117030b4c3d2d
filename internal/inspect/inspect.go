// Package inspect detects payment-processor return parameters in a page's
// query string and reduces them to a Summary.
package inspect

import (
	"strings"

	"github.com/dgnsrekt/return_notice/internal/query"
)

// DetectionKeys are the parameter names whose presence, even with an empty
// value, marks a page load as a payment return.
var DetectionKeys = []string{"tx", "txn_id", "PayerID", "payment_status", "st"}

const (
	statusCompleted = "completed"
	defaultCurrency = "USD"
)

// Summary is the normalized view of a payment return.
type Summary struct {
	Status           string `json:"status"`
	TransactionID    string `json:"transaction_id"`
	AmountRaw        string `json:"amount_raw"`
	CurrencyCode     string `json:"currency_code"`
	BeneficiaryLabel string `json:"beneficiary_label,omitempty"`
}

// Completed reports whether the summary describes a finished payment that
// deserves a confirmation.
func (s Summary) Completed() bool {
	return s.Status == statusCompleted && s.TransactionID != ""
}

// Snapshot is a read-only view of the query taken once at page load.
type Snapshot struct {
	params query.Params
}

// NewSnapshot parses rawQuery into a Snapshot.
func NewSnapshot(rawQuery string) Snapshot {
	return Snapshot{params: query.Parse(rawQuery)}
}

// Has reports whether name is present.
func (s Snapshot) Has(name string) bool { return s.params.Has(name) }

// Get returns the first value for name, or "".
func (s Snapshot) Get(name string) string {
	v, _ := s.params.Get(name)
	return v
}

// Inspect parses rawQuery and returns its Summary. The bool is false when
// none of DetectionKeys is present.
func Inspect(rawQuery string) (Summary, bool) {
	return FromSnapshot(NewSnapshot(rawQuery))
}

// FromSnapshot derives a Summary from an existing snapshot.
func FromSnapshot(snap Snapshot) (Summary, bool) {
	if !detected(snap) {
		return Summary{}, false
	}
	return Summary{
		Status:           strings.ToLower(firstNonEmpty(snap, "", "payment_status", "st")),
		TransactionID:    firstNonEmpty(snap, "", "tx", "txn_id"),
		AmountRaw:        firstNonEmpty(snap, "", "mc_gross", "amt"),
		CurrencyCode:     firstNonEmpty(snap, defaultCurrency, "mc_currency", "cc"),
		BeneficiaryLabel: strings.TrimSpace(firstNonEmpty(snap, "", "option_selection1", "os0")),
	}, true
}

func detected(snap Snapshot) bool {
	for _, k := range DetectionKeys {
		if snap.Has(k) {
			return true
		}
	}
	return false
}

// firstNonEmpty returns the first alias carrying a non-empty value. An alias
// that is present but empty falls through to the next one.
func firstNonEmpty(snap Snapshot, fallback string, aliases ...string) string {
	for _, a := range aliases {
		if v := snap.Get(a); v != "" {
			return v
		}
	}
	return fallback
}
