package media

import (
	"context"
	"os"
	"path/filepath"

	"github.com/interera-ai/backend/internal/log"
)

// Dumper writes validated uploads to a local directory for inspection.
// A Dumper with an empty Dir does nothing.
type Dumper struct {
	Dir string
}

func (d *Dumper) Dump(ctx context.Context, name string, att Attachment) error {
	if d.Dir == "" {
		return nil
	}
	log := log.FromContextOrDiscard(ctx).WithGroup("dump").With("name", name, "dir", d.Dir)
	log.Debug("writing upload")

	if err := os.MkdirAll(d.Dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.Dir, name+".bin"), att.Data, 0600)
}
