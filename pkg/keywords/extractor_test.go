package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmpty(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("")
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, e.Extract("   \n\t "))
	assert.Empty(t, e.Extract("a an the and for with"))
}

func TestExtractOrdering(t *testing.T) {
	e := NewExtractor()

	text := "Kubernetes operator. Golang golang GOLANG! Kubernetes, terraform."
	got := e.Extract(text)

	assert.Equal(t, []string{"golang", "kubernetes", "operator", "terraform"}, got)
}

func TestExtractTiesKeepFirstSeenOrder(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("zebra apple mango apple zebra")

	assert.Equal(t, []string{"zebra", "apple", "mango"}, got)
}

func TestExtractFilters(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short words dropped",
			text: "go api sql java",
			want: []string{"java"},
		},
		{
			name: "stop words dropped",
			text: "Required: looking for people that should have skills",
			want: []string{"people", "skills"},
		},
		{
			name: "punctuation stripped inside words",
			text: "node.js c++ we're e-mail",
			want: []string{"nodejs", "email"},
		},
		{
			name: "non ascii letters stripped",
			text: "café résumé naïve",
			want: []string{"rsum", "nave"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestExtractLimit(t *testing.T) {
	e := NewExtractor()

	var words []string
	for i := 0; i < 40; i++ {
		words = append(words, "word"+strings.Repeat("x", i))
	}
	got := e.Extract(strings.Join(words, " "))

	require.Len(t, got, MaxKeywords)
	assert.Equal(t, "word", got[0])
}

func TestExtractProperties(t *testing.T) {
	e := NewExtractor()

	text := `We are looking for a Senior Software Engineer with strong Java and Spring Boot
	experience. The engineer will design microservices, review code, mentor engineers and
	own delivery. Experience with Kubernetes, Docker and cloud platforms is required.
	Software engineering excellence, software craftsmanship and clean code matter.`

	got := e.Extract(text)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), MaxKeywords)

	counts := make(map[string]int)
	for _, w := range strings.Fields(normalize(text)) {
		counts[w]++
	}

	for i, kw := range got {
		assert.Greater(t, len(kw), MinLength, kw)
		assert.False(t, IsStopWord(kw), kw)
		if i > 0 {
			assert.GreaterOrEqual(t, counts[got[i-1]], counts[kw], "frequency must not increase at %s", kw)
		}
	}
	assert.Equal(t, "software", got[0])
}
