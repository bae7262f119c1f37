package domain

import "testing"

func TestArticlePending(t *testing.T) {
	t.Parallel()

	html := "<h2>done</h2>"
	blank := "  "

	cases := []struct {
		name string
		in   *string
		want bool
	}{
		{name: "absent", in: nil, want: true},
		{name: "blank", in: &blank, want: true},
		{name: "enhanced", in: &html, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Article{AIContent: tc.in}.Pending()
			if got != tc.want {
				t.Fatalf("Pending() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestArticleStoreKey(t *testing.T) {
	t.Parallel()

	if got := (Article{ID: "1", LegacyID: "abc"}).StoreKey(); got != "1" {
		t.Fatalf("expected primary id, got %q", got)
	}
	if got := (Article{LegacyID: "abc"}).StoreKey(); got != "abc" {
		t.Fatalf("expected legacy id, got %q", got)
	}
	if got := (Article{}).StoreKey(); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}

func TestFallbackSnippet(t *testing.T) {
	t.Parallel()

	s := FallbackSnippet("")
	if !s.IsFallback() || s.Text != DefaultFallbackText {
		t.Fatalf("unexpected fallback snippet: %+v", s)
	}
	if got := FallbackSnippet("custom").Text; got != "custom" {
		t.Fatalf("expected custom text, got %q", got)
	}
}
