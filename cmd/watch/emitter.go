package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
)

// emitter writes one compact JSON document per rebuild, skipping rebuilds that
// produce the same database as the last one written.
type emitter struct {
	out        io.Writer
	newSession func() *sourcedb.Session
	files      []string
	logger     *slog.Logger
	last       []byte
}

func (e *emitter) emit(ctx context.Context) error {
	result, err := e.newSession().Build(ctx, e.files)
	if err != nil {
		return fmt.Errorf("failed to build source database: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode source database: %w", err)
	}
	if bytes.Equal(data, e.last) {
		e.logger.Debug("source database unchanged")
		return nil
	}
	e.last = data

	if _, err := fmt.Fprintf(e.out, "%s\n", data); err != nil {
		return fmt.Errorf("failed to write source database: %w", err)
	}
	e.logger.Info("source database updated", "targets", len(result.DB))
	return nil
}
