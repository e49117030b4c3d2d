package notice

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/return_notice/internal/inspect"
	"golang.org/x/text/language"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		raw, code, want string
	}{
		{"50.00", "USD", "$50.00"},
		{"50", "usd", "$50.00"},
		{"12.5", "EUR", "€12.50"},
		{"1500", "JPY", "¥1,500"},
		{"1234.5", "USD", "$1,234.50"},
		{"50.00 extra", "USD", "$50.00"},
		{"-3", "USD", "-$3.00"},
		{"0.125", "USD", "$0.13"},
		{"-0.125", "USD", "-$0.13"},
		{"2.5", "JPY", "¥3"},
		{"20", "CHF", "CHF\u00a020.00"},
		{"50.00", "ZZZ", "50.00"},
		{"50.00", "dollars", "50.00"},
		{"notanumber", "USD", ""},
		{"", "USD", ""},
		{"Infinity", "USD", ""},
		{"1e400", "USD", ""},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.raw, tt.code, language.AmericanEnglish); got != tt.want {
			t.Fatalf("FormatAmount(%q, %q) = %q; want %q", tt.raw, tt.code, got, tt.want)
		}
	}
}

func TestComposerMessage(t *testing.T) {
	c := Composer{ProgramName: "Little Hands, Big Work", Locale: language.AmericanEnglish}
	tests := []struct {
		name string
		in   inspect.Summary
		want string
	}{
		{
			name: "amount and beneficiary",
			in:   inspect.Summary{AmountRaw: "50.00", CurrencyCode: "USD", BeneficiaryLabel: "Test Family"},
			want: "Your donation of $50.00 on behalf of Test Family was received. Thank you for supporting Little Hands, Big Work!",
		},
		{
			name: "amount only",
			in:   inspect.Summary{AmountRaw: "50.00", CurrencyCode: "USD"},
			want: "Your donation of $50.00 was received. Thank you for supporting Little Hands, Big Work!",
		},
		{
			name: "unparseable amount",
			in:   inspect.Summary{AmountRaw: "notanumber", CurrencyCode: "USD"},
			want: "Your donation was received. Thank you for supporting Little Hands, Big Work!",
		},
		{
			name: "unknown currency keeps raw",
			in:   inspect.Summary{AmountRaw: "10", CurrencyCode: "ABCD"},
			want: "Your donation of 10 was received. Thank you for supporting Little Hands, Big Work!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Message(tt.in); got != tt.want {
				t.Fatalf("Message() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestComposerDefaults(t *testing.T) {
	got := Composer{}.Message(inspect.Summary{AmountRaw: "5", CurrencyCode: "USD"})
	if !strings.Contains(got, "$5.00") {
		t.Fatalf("Message() = %q; want default locale formatting", got)
	}
	if !strings.HasSuffix(got, "supporting "+DefaultProgramName+"!") {
		t.Fatalf("Message() = %q; want default program name", got)
	}
}
