package domain

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full article URL", "https://www.nytimes.com/2024/01/15/politics/story.html", "nytimes.com"},
		{"bare domain", "nytimes.com", "nytimes.com"},
		{"www prefix no scheme", "www.nytimes.com", "nytimes.com"},
		{"deep subdomain", "https://edition.cnn.com/2024/world", "cnn.com"},
		{"multi-label public suffix", "https://www.bbc.co.uk/news", "bbc.co.uk"},
		{"uppercase host", "HTTPS://WWW.Reuters.COM/article", "reuters.com"},
		{"port stripped", "http://example.com:8080/path", "example.com"},
		{"query and fragment", "https://apnews.com/article/x?utm=1#top", "apnews.com"},
		{"http scheme", "http://foxnews.com", "foxnews.com"},
		{"trailing whitespace", "  reuters.com  ", "reuters.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"scheme only", "https://"},
		{"single label", "localhost"},
		{"bare public suffix", "co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := Normalize(tt.input); err == nil {
				t.Errorf("Normalize(%q) = %q, expected error", tt.input, got)
			}
		})
	}
}

// Two spellings of the same outlet must resolve to the same key.
func TestNormalize_Canonical(t *testing.T) {
	variants := []string{
		"nytimes.com",
		"www.nytimes.com",
		"https://nytimes.com",
		"https://www.nytimes.com/2024/section/article.html",
		"http://www.nytimes.com?ref=home",
	}

	for _, v := range variants {
		got, err := Normalize(v)
		if err != nil {
			t.Fatalf("Normalize(%q) unexpected error: %v", v, err)
		}
		if got != "nytimes.com" {
			t.Errorf("Normalize(%q) = %q, want nytimes.com", v, got)
		}
	}
}
