package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     string
	}{
		{
			name:     "single keyword",
			text:     "React Hooks Guide",
			keywords: []string{"react"},
			want:     "<mark>React</mark> Hooks Guide",
		},
		{
			name:     "preserves original case",
			text:     "GoLang and golang",
			keywords: []string{"golang"},
			want:     "<mark>GoLang</mark> and <mark>golang</mark>",
		},
		{
			name:     "multiple keywords",
			text:     "React hooks",
			keywords: []string{"react", "hooks"},
			want:     "<mark>React</mark> <mark>hooks</mark>",
		},
		{
			name:     "overlapping keywords prefer longest",
			text:     "kubernetes",
			keywords: []string{"kube", "kubernetes"},
			want:     "<mark>kubernetes</mark>",
		},
		{
			name:     "regex metacharacters are literal",
			text:     "c++ tips",
			keywords: []string{"c++"},
			want:     "<mark>c++</mark> tips",
		},
		{
			name:     "no keywords",
			text:     "React Hooks Guide",
			keywords: nil,
			want:     "React Hooks Guide",
		},
		{
			name:     "empty text",
			text:     "",
			keywords: []string{"react"},
			want:     "",
		},
		{
			name:     "no match",
			text:     "Sourdough",
			keywords: []string{"react"},
			want:     "Sourdough",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.keywords))
		})
	}
}

func TestHighlight_Idempotent(t *testing.T) {
	texts := []string{
		"React Hooks Guide",
		"a mark on the react mark",
		"nothing to see",
	}
	keywords := [][]string{
		{"react"},
		{"mark", "react"},
		{"hooks", "guide", "react"},
	}

	for _, text := range texts {
		for _, kws := range keywords {
			once := Highlight(text, kws)
			assert.Equal(t, once, Highlight(once, kws), "text=%q keywords=%v", text, kws)
		}
	}
}
