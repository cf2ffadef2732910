package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText_ErrorPage(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>502 Bad Gateway</title><style>body { color: red; }</style></head>
<body>
  <h1>Bad Gateway</h1>
  <p>The proxy server received an invalid
     response from an upstream server.</p>
  <!-- nginx -->
  <script>var x = {a: 1};</script>
</body>
</html>`

	text, err := VisibleText(page)
	require.NoError(t, err)

	assert.Equal(t, "502 Bad Gateway\nBad Gateway\nThe proxy server received an invalid\nresponse from an upstream server.", text)
	assert.NotContains(t, text, "color")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "nginx")
}

func TestVisibleText_Fragment(t *testing.T) {
	text, err := VisibleText("plain <b>bold</b> words")
	require.NoError(t, err)
	assert.Equal(t, "plain bold words", text)
}

func TestVisibleText_DecodesEntities(t *testing.T) {
	text, err := VisibleText("<p>a &amp; b &lt;c&gt;</p>")
	require.NoError(t, err)
	assert.Equal(t, "a & b <c>", text)
}

func TestVisibleText_Empty(t *testing.T) {
	text, err := VisibleText("")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestCollapseLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank lines dropped", "a\n\n\nb", "a\nb"},
		{"lines trimmed", "  a  \n\t b\t", "a\nb"},
		{"whitespace only", " \n \t\n", ""},
		{"single line", "hello", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseLines(tt.in))
		})
	}
}
