package match

import "testing"

func TestResolve_ExtensionRule(t *testing.T) {
	m := New()
	cases := []string{
		"https://example.com/pic.jpg",
		"https://example.com/pic.jpeg",
		"https://example.com/a/b/c.png",
		"https://x.com/a/B.PNG",
		"http://example.com/anim.GIF",
		"https://example.com/modern.webp",
		"https://example.com/old.bmp",
		"https://example.com/vector.svg",
		"https://example.com/pic.jpg?w=640&h=480",
	}
	for _, href := range cases {
		got, ok := m.Resolve(href)
		if !ok {
			t.Errorf("Resolve(%q): no match, want match", href)
			continue
		}
		if got != href {
			t.Errorf("Resolve(%q): got %q, want unchanged", href, got)
		}
	}
}

func TestResolve_ImgurRewrite(t *testing.T) {
	m := New()
	got, ok := m.Resolve("https://imgur.com/hI9rZU3")
	if !ok {
		t.Fatal("Resolve imgur page: no match, want match")
	}
	if want := "https://i.imgur.com/hI9rZU3.jpeg"; got != want {
		t.Errorf("Resolve imgur page: got %q, want %q", got, want)
	}

	// http scheme is accepted too, rewrite is always https.
	got, ok = m.Resolve("http://imgur.com/hI9rZU3")
	if !ok || got != "https://i.imgur.com/hI9rZU3.jpeg" {
		t.Errorf("Resolve http imgur page: got %q ok=%v", got, ok)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	m := New()
	cases := []string{
		"https://example.com/page",
		"https://imgur.com/hI9rZU3/more", // extra path segment
		"https://imgur.com/short",        // wrong id length
		"https://imgur.com/hI9rZU3?x=1",  // query defeats the exact match
		"https://imgur.com/hI9rZU3extra", // too long
		"https://example.com/file.jpg.txt",
		"not a url at all",
		"",
	}
	for _, href := range cases {
		if got, ok := m.Resolve(href); ok {
			t.Errorf("Resolve(%q): got %q, want no match", href, got)
		}
	}
}

func TestResolve_ExtensionBeforeImgur(t *testing.T) {
	// A direct i.imgur.com image URL hits the extension rule and is
	// returned as-is, not rewritten.
	m := New()
	href := "https://i.imgur.com/hI9rZU3.jpeg"
	got, ok := m.Resolve(href)
	if !ok || got != href {
		t.Errorf("Resolve(%q): got %q ok=%v, want unchanged match", href, got, ok)
	}
}

func TestResolve_ExtraExtensions(t *testing.T) {
	m := New(".avif")
	if _, ok := m.Resolve("https://example.com/pic.avif"); !ok {
		t.Error("Resolve .avif with extra extension: no match, want match")
	}
	if _, ok := New().Resolve("https://example.com/pic.avif"); ok {
		t.Error("Resolve .avif without extra extension: matched, want no match")
	}
}
