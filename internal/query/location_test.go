package query

import "testing"

func TestSplitHref(t *testing.T) {
	tests := []struct {
		href string
		want Location
	}{
		{"https://example.org/give?tx=T1#top", Location{"https://example.org", "/give", "tx=T1", "top"}},
		{"https://example.org", Location{"https://example.org", "/", "", ""}},
		{"https://example.org/50%off/?tx=1", Location{"https://example.org", "/50%off/", "tx=1", ""}},
		{"https://example.org/give?tx=1#100%", Location{"https://example.org", "/give", "tx=1", "100%"}},
		{"https://example.org/p#frag?tx=1", Location{"https://example.org", "/p", "", "frag?tx=1"}},
		{"/give?a=1", Location{"", "/give", "a=1", ""}},
	}
	for _, tt := range tests {
		if got := SplitHref(tt.href); got != tt.want {
			t.Fatalf("SplitHref(%q) = %+v; want %+v", tt.href, got, tt.want)
		}
	}
}

func TestLocationStringRoundTrip(t *testing.T) {
	for _, href := range []string{
		"https://example.org/give?tx=T1#top",
		"https://example.org/50%off/?tx=1#100%",
		"http://127.0.0.1:8190/give/",
	} {
		if got := SplitHref(href).String(); got != href {
			t.Fatalf("SplitHref(%q).String() = %q", href, got)
		}
	}
}

func TestLocationResolve(t *testing.T) {
	base := SplitHref("https://example.org/give/thanks?tx=1#top")
	tests := []struct {
		ref, want string
	}{
		{"/give?keep=1#top", "https://example.org/give?keep=1#top"},
		{"?keep=1", "https://example.org/give/thanks?keep=1"},
		{"#done", "https://example.org/give/thanks?tx=1#done"},
		{"other", "https://example.org/give/other"},
		{"https://other.example/x", "https://other.example/x"},
		{"", "https://example.org/give/thanks?tx=1"},
	}
	for _, tt := range tests {
		if got := base.Resolve(tt.ref); got != tt.want {
			t.Fatalf("Resolve(%q) = %q; want %q", tt.ref, got, tt.want)
		}
	}
}
