package scrub

import (
	"strings"
	"testing"
)

type spyPage struct {
	href     string
	history  []string
	replaces int
}

func (p *spyPage) Href() string { return p.href }

func (p *spyPage) ReplaceState(ref string) {
	p.replaces++
	p.history[len(p.history)-1] = ref
	p.href = "https://example.org" + ref
}

func newSpyPage(href string) *spyPage {
	return &spyPage{href: href, history: []string{href}}
}

func TestApplyRemovesSensitiveKeysKeepingOrder(t *testing.T) {
	p := newSpyPage("https://example.org/who-we-are/?lang=en&PayerID=P1&st=Completed&page=2&tx=T1&amt=50.00&ref=mail#give")
	res := New().Apply(p)

	if res.Removed != 4 {
		t.Fatalf("Removed = %d; want 4", res.Removed)
	}
	if got, want := res.URL, "/who-we-are/?lang=en&page=2&ref=mail#give"; got != want {
		t.Fatalf("URL = %q; want %q", got, want)
	}
	if p.replaces != 1 {
		t.Fatalf("replaces = %d; want 1", p.replaces)
	}
	if len(p.history) != 1 {
		t.Fatalf("history length = %d; want 1", len(p.history))
	}
}

func TestApplyDropsEmptyQuery(t *testing.T) {
	p := newSpyPage("https://example.org/give?tx=T1&st=Completed&verify_sign=abc")
	res := New().Apply(p)
	if res.URL != "/give" {
		t.Fatalf("URL = %q; want %q", res.URL, "/give")
	}
	if strings.Contains(p.history[0], "?") {
		t.Fatalf("history entry %q kept a trailing ?", p.history[0])
	}
}

func TestApplyNoSensitiveKeysIsNoop(t *testing.T) {
	for _, href := range []string{
		"https://example.org/",
		"https://example.org/blog?page=3&sort=new#top",
		"https://example.org/x?STATUS=ok&Tx=upper",
	} {
		p := newSpyPage(href)
		res := New().Apply(p)
		if res.Changed() {
			t.Fatalf("Apply(%q) changed = true; want false", href)
		}
		if p.replaces != 0 {
			t.Fatalf("Apply(%q) replaced history %d times; want 0", href, p.replaces)
		}
		if p.href != href {
			t.Fatalf("href = %q; want unchanged %q", p.href, href)
		}
	}
}

func TestSanitizeRemovesDuplicatesAndEmptyValues(t *testing.T) {
	got, ok := Sanitize("https://example.org/?tx=&tx=2&keep=1&os0")
	if !ok {
		t.Fatal("Sanitize() changed = false; want true")
	}
	if got != "/?keep=1" {
		t.Fatalf("Sanitize() = %q; want %q", got, "/?keep=1")
	}
}

func TestSanitizeReencodesRemainingPairs(t *testing.T) {
	got, _ := Sanitize("https://example.org/p%20q?name=a%20b&tx=1")
	if got != "/p%20q?name=a+b" {
		t.Fatalf("Sanitize() = %q; want %q", got, "/p%20q?name=a+b")
	}
}

func TestEveryListedKeyIsRemoved(t *testing.T) {
	var b strings.Builder
	b.WriteString("https://example.org/thanks?keep=yes")
	for _, k := range SensitiveKeys {
		b.WriteString("&" + k + "=v")
	}
	res := New().Sanitize(b.String())
	if res.Removed != len(SensitiveKeys) {
		t.Fatalf("Removed = %d; want %d", res.Removed, len(SensitiveKeys))
	}
	if res.URL != "/thanks?keep=yes" {
		t.Fatalf("URL = %q; want %q", res.URL, "/thanks?keep=yes")
	}
}

func TestCustomKeySet(t *testing.T) {
	res := New("session").Sanitize("https://example.org/?session=1&tx=2")
	if res.URL != "/?tx=2" {
		t.Fatalf("URL = %q; want %q", res.URL, "/?tx=2")
	}
}

func TestApplyAddressesNetURLRejects(t *testing.T) {
	tests := []struct {
		href, want string
		removed    int
	}{
		{"https://example.org/give?tx=T1&st=Completed&payer_email=a%40b.c#100%", "/give#100%", 3},
		{"https://example.org/50%off/?keep=1&tx=T1&payer_email=a%40b.c", "/50%off/?keep=1", 2},
	}
	for _, tt := range tests {
		p := newSpyPage(tt.href)
		res := New().Apply(p)
		if !res.Changed() || res.Removed != tt.removed {
			t.Fatalf("Apply(%q) = %+v; want keys removed", tt.href, res)
		}
		if res.URL != tt.want {
			t.Fatalf("Apply(%q) URL = %q; want %q", tt.href, res.URL, tt.want)
		}
		if p.replaces != 1 {
			t.Fatalf("Apply(%q) replaces = %d; want 1", tt.href, p.replaces)
		}
	}
}
