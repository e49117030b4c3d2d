// Package scrub strips payment-return parameters from the page address once
// they have been consumed, rewriting the current history entry in place.
package scrub

import (
	"log/slog"

	"github.com/dgnsrekt/return_notice/internal/query"
)

// SensitiveKeys are removed from the address whether or not a notice was
// shown.
var SensitiveKeys = []string{
	"PayerID", "st", "tx", "cc", "amt", "contact_phone", "payer_email", "payer_id", "payer_status",
	"first_name", "last_name", "address_name", "address_street", "address_city", "address_state",
	"address_country_code", "address_zip", "residence_country", "txn_id", "mc_currency", "mc_fee",
	"mc_gross", "protection_eligibility", "payment_fee", "payment_gross", "payment_status",
	"payment_type", "handling_amount", "shipping", "item_name", "quantity", "txn_type",
	"option_name1", "option_selection1", "payment_date", "receiver_id", "notify_version", "verify_sign",
	"os0",
}

// Page is the addressable location of a loaded document.
type Page interface {
	// Href returns the current absolute address. It is read fresh on every
	// call.
	Href() string
	// ReplaceState swaps the current history entry for ref (path, query and
	// fragment) without navigating.
	ReplaceState(ref string)
}

// Result describes one sanitization pass.
type Result struct {
	URL     string `json:"url"`
	Removed int    `json:"removed"`
}

// Changed reports whether any key was removed.
func (r Result) Changed() bool { return r.Removed > 0 }

// Sanitizer removes a fixed key set from addresses.
type Sanitizer struct {
	keys []string
}

// New returns a Sanitizer for keys, or for SensitiveKeys when none are given.
func New(keys ...string) *Sanitizer {
	if len(keys) == 0 {
		keys = SensitiveKeys
	}
	return &Sanitizer{keys: append([]string(nil), keys...)}
}

// Sanitize computes the scrubbed reference for href. When no key is present
// the result is unchanged and URL is empty. href is split like
// window.location, so any address a browser holds can be scrubbed.
func (s *Sanitizer) Sanitize(href string) Result {
	loc := query.SplitHref(href)
	params := query.Parse(loc.RawQuery)
	removed := 0
	for _, k := range s.keys {
		if params.Delete(k) {
			removed++
		}
	}
	if removed == 0 {
		return Result{}
	}
	loc.RawQuery = params.Encode()
	return Result{URL: loc.Reference(), Removed: removed}
}

// Apply scrubs p's current address and replaces its history entry only when
// something was removed.
func (s *Sanitizer) Apply(p Page) Result {
	res := s.Sanitize(p.Href())
	if !res.Changed() {
		return res
	}
	p.ReplaceState(res.URL)
	slog.Info("url sanitized", "removed", res.Removed)
	return res
}

// Sanitize scrubs href with SensitiveKeys.
func Sanitize(href string) (string, bool) {
	res := New().Sanitize(href)
	return res.URL, res.Changed()
}
