package utils

import "testing"

func TestNormalizeURLEquivalentForms(t *testing.T) {
	// Variants of the same URL must normalize to one canonical string.
	variants := []string{
		"HTTPS://Tiles.Example.COM/wms/?b=2&a=1",
		"https://tiles.example.com/wms?a=1&b=2",
		"  https://tiles.example.com/wms/?b=2&a=1#layers  ",
		"https://TILES.example.com/wms?b=2&a=1",
	}

	canonical := NormalizeURL(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeURL(v); got != canonical {
			t.Errorf("NormalizeURL(%q) = %q, want %q", v, got, canonical)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases scheme and host", "HTTP://Example.Com/Path", "http://example.com/Path"},
		{"keeps path case", "https://example.com/Tiles/COG.tif", "https://example.com/Tiles/COG.tif"},
		{"strips trailing slash", "https://example.com/wms/", "https://example.com/wms"},
		{"keeps root slash", "https://example.com/", "https://example.com/"},
		{"sorts query keys", "https://example.com/w?z=1&a=2", "https://example.com/w?a=2&z=1"},
		{"drops fragment", "https://example.com/w#frag", "https://example.com/w"},
		{"keeps blank query values", "https://example.com/w?a=&b=1", "https://example.com/w?a=&b=1"},
		{"keeps explicit default port", "http://Example.com:80/w", "http://example.com:80/w"},
		{"trims whitespace", "  https://example.com/w  ", "https://example.com/w"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeURL(c.in); got != c.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://Tiles.Example.COM/wms/?b=2&a=1#f",
		"https://example.com/{z}/{x}/{y}.png",
		"not a url at all",
	}
	for _, in := range inputs {
		once := NormalizeURL(in)
		twice := NormalizeURL(once)
		if once != twice {
			t.Errorf("NormalizeURL not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeURLUnparseable(t *testing.T) {
	in := "  http://bad url with spaces \x7f"
	got := NormalizeURL(in)
	if got != "http://bad url with spaces \x7f" {
		t.Errorf("unparseable input should be returned trimmed, got %q", got)
	}
}

func TestMatchesTemplate(t *testing.T) {
	template := "https://example.com/tiles/{z}/{x}/{y}.png"

	cases := []struct {
		name string
		url  string
		want bool
	}{
		{"digits match", "https://example.com/tiles/3/4/5.png", true},
		{"multi-digit coordinates", "https://example.com/tiles/12/4096/2748.png", true},
		{"non-numeric rejected", "https://example.com/tiles/a/4/5.png", false},
		{"missing segment rejected", "https://example.com/tiles/3/4.png", false},
		{"prefix only rejected", "https://example.com/tiles/3/4/5.png.extra", false},
		{"suffix only rejected", "prefix-https://example.com/tiles/3/4/5.png", false},
		{"different host rejected", "https://other.com/tiles/3/4/5.png", false},
		{"empty coordinate rejected", "https://example.com/tiles//4/5.png", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MatchesTemplate(c.url, template); got != c.want {
				t.Errorf("MatchesTemplate(%q) = %v, want %v", c.url, got, c.want)
			}
		})
	}
}

func TestMatchesTemplateAfterNormalization(t *testing.T) {
	// Normalization may percent-encode the braces in a stored template.
	// Matching must survive a normalized template.
	template := NormalizeURL("https://Example.com/tiles/{z}/{x}/{y}.png")
	if !MatchesTemplate("https://example.com/tiles/3/4/5.png", template) {
		t.Errorf("normalized template %q should match tile URL", template)
	}
}

func TestMatchesTemplateQueryForm(t *testing.T) {
	template := NormalizeURL("https://example.com/wmts?x={x}&y={y}&z={z}")
	tile := NormalizeURL("https://example.com/wmts?x=4&y=5&z=3")
	if !MatchesTemplate(tile, template) {
		t.Errorf("query-style template %q should match %q", template, tile)
	}
}
