package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumperWrites(t *testing.T) {
	dir := t.TempDir()
	d := &Dumper{Dir: filepath.Join(dir, "debug")}

	att := Attachment{Data: []byte("payload"), Type: "image/png"}
	require.NoError(t, d.Dump(context.Background(), "image", att))

	got, err := os.ReadFile(filepath.Join(dir, "debug", "image.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestDumperDisabled(t *testing.T) {
	d := &Dumper{}
	require.NoError(t, d.Dump(context.Background(), "image", Attachment{Data: []byte("payload")}))
}
