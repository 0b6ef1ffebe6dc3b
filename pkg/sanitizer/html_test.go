package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/locallibrary/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "removes script with its body", input: `<p>Dune</p><script>alert('x')</script>`, expected: "Dune"},
		{name: "keeps nested text", input: `<div><p>Frank <span>Herbert</span></p></div>`, expected: "Frank Herbert"},
		{name: "drops javascript links", input: `<a href="javascript:alert(1)">read</a>`, expected: "read"},
		{name: "plain text unchanged", input: "The Left Hand of Darkness", expected: "The Left Hand of Darkness"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "keeps formatting", input: `<p>A <strong>classic</strong> <em>novel</em></p>`, expected: `<p>A <strong>classic</strong> <em>novel</em></p>`},
		{name: "keeps lists", input: `<ul><li>one</li></ul>`, expected: `<ul><li>one</li></ul>`},
		{name: "adds nofollow to links", input: `<a href="https://example.com">site</a>`, expected: `<a href="https://example.com" rel="nofollow">site</a>`},
		{name: "strips scripts", input: `<p>ok</p><script>alert(1)</script>`, expected: `<p>ok</p>`},
		{name: "strips event handlers", input: `<p onclick="alert(1)">ok</p>`, expected: `<p>ok</p>`},
		{name: "strips images", input: `<img src="x" onerror="alert(1)">`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizeHTML(tt.input))
		})
	}
}
