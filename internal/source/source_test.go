package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.ts")
	require.NoError(t, os.WriteFile(path, []byte("catch (error: any) {}"), 0644))

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	var out bytes.Buffer
	sp := &SourceProvider{stdin: in, stdout: &out}

	content, origin, err := sp.GetContent()
	require.NoError(t, err)
	assert.Equal(t, OriginStdin, origin)
	assert.Equal(t, "catch (error: any) {}", content)

	require.NoError(t, sp.PutContent("rewritten", origin))
	assert.Equal(t, "rewritten", out.String())
}
