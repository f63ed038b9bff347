package insight

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_templates(t *testing.T) {
	tests := []struct {
		ctx  string
		want string
	}{
		{"How are my APPLICATIONS doing?", applicationsTemplate},
		{"students in screening", applicationsTemplate},
		{"Visa appointments", visaTemplate},
		{"visa for my application", visaTemplate},
		{"", defaultTemplate},
		{"hello", defaultTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.ctx, func(t *testing.T) {
			got := Generate(tt.ctx)
			assert.Equal(t, tt.ctx, got.Context)
			assert.Equal(t, tt.want, got.Content)
			assert.Equal(t, tt.want, strings.Join(got.Chunks, "\n\n"))
		})
	}
}

func TestChunk(t *testing.T) {
	a := strings.Repeat("a", 150)
	b := strings.Repeat("b", 200)
	c := strings.Repeat("c", 500)

	chunks := Chunk(strings.Join([]string{a, b, "", c, "tail"}, "\n\n"), 400)
	require.Len(t, chunks, 3)
	assert.Equal(t, a+"\n\n"+b, chunks[0])
	assert.Equal(t, c, chunks[1])
	assert.Equal(t, "tail", chunks[2])

	assert.Empty(t, Chunk("   \n\n  ", 400))
}

func TestChunk_limit(t *testing.T) {
	for _, tmpl := range []string{applicationsTemplate, visaTemplate, defaultTemplate} {
		paragraphs := strings.Split(tmpl, "\n\n")
		for _, ch := range Chunk(tmpl, MaxChunkLen) {
			if utf8.RuneCountInString(ch) > MaxChunkLen {
				// only an oversized single paragraph may exceed the limit
				assert.Contains(t, paragraphs, ch)
			}
		}
	}
}
