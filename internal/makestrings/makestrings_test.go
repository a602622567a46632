package makestrings

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_PrefixAndWide(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(strings.NewReader("a\"b\n\nc"), &buf, Options{Prefix: "s", Wide: true})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "$s_0 = \"a\\\"b\" wide\n$s_1 = \"c\" wide\n", buf.String())
}

func TestGenerate_DefaultPrefix(t *testing.T) {
	var buf bytes.Buffer
	_, err := Generate(strings.NewReader("evil.exe\n"), &buf, Options{})
	require.NoError(t, err)

	assert.Equal(t, "$string_0 = \"evil.exe\"\n", buf.String())
}

func TestGenerate_TrimsAndSkipsWhitespaceLines(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(strings.NewReader("  one  \n \t \r\n\ttwo\r\n"), &buf, Options{Prefix: "x"})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "$x_0 = \"one\"\n$x_1 = \"two\"\n", buf.String())
}

func TestGenerate_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(strings.NewReader(""), &buf, Options{})
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Empty(t, buf.String())
}
