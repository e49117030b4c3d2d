package notice

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgnsrekt/return_notice/internal/inspect"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultProgramName is thanked when no program name is configured.
const DefaultProgramName = "Little Hands, Big Work"

// leadingNumber matches the numeric prefix a lenient float parser accepts,
// so "50.00 USD" reads as 50.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// symbols holds the narrow prefixes en-US formatting uses. Codes missing here
// render as the ISO code followed by a no-break space.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
	"MXN": "MX$",
	"HKD": "HK$",
	"TWD": "NT$",
	"BRL": "R$",
	"CNY": "CN¥",
	"INR": "₹",
	"KRW": "₩",
	"ILS": "₪",
	"VND": "₫",
	"PHP": "₱",
}

// Composer builds the confirmation text shown in the dialog.
type Composer struct {
	ProgramName string
	Locale      language.Tag
}

// Message renders the acknowledgement for s.
func (c Composer) Message(s inspect.Summary) string {
	program := c.ProgramName
	if program == "" {
		program = DefaultProgramName
	}

	var b strings.Builder
	b.WriteString("Your donation")
	if amount := FormatAmount(s.AmountRaw, s.CurrencyCode, c.Locale); amount != "" {
		b.WriteString(" of ")
		b.WriteString(amount)
	}
	if s.BeneficiaryLabel != "" {
		b.WriteString(" on behalf of ")
		b.WriteString(s.BeneficiaryLabel)
	}
	b.WriteString(" was received. Thank you for supporting ")
	b.WriteString(program)
	b.WriteString("!")
	return b.String()
}

// FormatAmount formats raw as a currency amount in locale. It returns "" when
// raw has no finite numeric prefix and raw unchanged when code is not a known
// ISO 4217 currency.
func FormatAmount(raw, code string, locale language.Tag) string {
	f, ok := parseLeadingFloat(raw)
	if !ok {
		return ""
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return raw
	}

	if locale == language.Und {
		locale = language.AmericanEnglish
	}
	scale, _ := currency.Standard.Rounding(unit)
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	// Round half away from zero before formatting; number.Decimal rounds
	// half to even.
	pow := math.Pow10(scale)
	if r := math.Round(f*pow) / pow; !math.IsInf(r, 0) {
		f = r
	}
	p := message.NewPrinter(locale)
	digits := p.Sprint(number.Decimal(f, number.Scale(scale)))
	return sign + symbolFor(unit) + digits
}

func symbolFor(unit currency.Unit) string {
	iso := unit.String()
	if s, ok := symbols[iso]; ok {
		return s
	}
	return iso + "\u00a0"
}

func parseLeadingFloat(raw string) (float64, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
