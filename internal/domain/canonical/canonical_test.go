package canonical

import "testing"

func TestNormalizeEquivalentForms(t *testing.T) {
	want := Normalize("https://example.com/p").Key

	equivalent := []string{
		"https://www.example.com/p/",
		"http://example.com/p",
		"http://www.example.com/p",
		"example.com/p/",
	}
	for _, raw := range equivalent {
		if got := Normalize(raw).Key; got != want {
			t.Errorf("Normalize(%q).Key = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeStripsTrackingParams(t *testing.T) {
	a := Normalize("https://example.com/article?utm_source=feed&utm_medium=rss")
	b := Normalize("https://example.com/article")
	if a.Key != b.Key {
		t.Errorf("tracking params changed key: %q != %q", a.Key, b.Key)
	}
}

func TestNormalizeKeepsWhitelistedParams(t *testing.T) {
	a := Normalize("https://example.com/watch?v=abc123&utm_campaign=x")
	if a.Key != "example.com/watch?v=abc123" {
		t.Errorf("got key %q", a.Key)
	}

	b := Normalize("https://example.com/watch?v=other")
	if a.Key == b.Key {
		t.Error("different video ids must produce different keys")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://www.Example.com/Path/?id=1&junk=2",
		"http://example.com",
		"example.com/p/",
		"not a url at all",
		"https://example.com/watch?v=abc&t=42",
		"",
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once.Key)
		if once.Key != twice.Key {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", raw, once.Key, twice.Key)
		}
	}
}

func TestNormalizeFields(t *testing.T) {
	n := Normalize("https://www.foo.com/x/")
	if n.Domain != "foo.com" {
		t.Errorf("Domain = %q, want foo.com", n.Domain)
	}
	if n.Path != "/x" {
		t.Errorf("Path = %q, want /x", n.Path)
	}
	if n.Key != "foo.com/x" {
		t.Errorf("Key = %q, want foo.com/x", n.Key)
	}
	if n.Original != "https://www.foo.com/x/" {
		t.Errorf("Original = %q", n.Original)
	}
}

func TestNormalizeRootPath(t *testing.T) {
	n := Normalize("https://example.com")
	if n.Key != "example.com/" {
		t.Errorf("Key = %q, want example.com/", n.Key)
	}
}

func TestNormalizeNeverFails(t *testing.T) {
	inputs := []string{
		"", "   ", "http://", "://", "http://%zz", "\x00", "?&=",
	}
	for _, raw := range inputs {
		n := Normalize(raw)
		if n.Original != raw {
			t.Errorf("Original not preserved for %q", raw)
		}
	}
}
