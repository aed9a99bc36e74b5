package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sherolroses/Transport/pkg/report"
)

// ErrUnknownFormat is returned by Export for formats other than csv and json.
var ErrUnknownFormat = errors.New("engine: unknown export format")

// Export writes every adjacency entry with its adjusted weight for hour to
// location (a local path, an s3:// URL, or a key in the configured blob
// store). It returns the number of entries written.
func (e *Engine) Export(ctx context.Context, format string, hour int, location string) (int, error) {
	var written int
	err := e.observe(ctx, "export", false,
		[]attribute.KeyValue{
			attribute.String("format", format),
			attribute.Int("hour", hour),
			attribute.String("location", location),
		},
		func(ctx context.Context) error {
			mult, err := e.Router.Multiplier(hour)
			if err != nil {
				return err
			}
			items := report.Entries(e.Store.Snapshot(), hour, mult)

			var buf bytes.Buffer
			switch strings.ToLower(format) {
			case "csv":
				err = report.WriteCSV(&buf, items)
			case "json":
				err = report.WriteJSON(&buf, items)
			default:
				return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
			}
			if err != nil {
				return fmt.Errorf("render export: %w", err)
			}

			blobs, key, err := e.resolve(ctx, location)
			if err != nil {
				return err
			}
			if err := blobs.Put(ctx, key, buf.Bytes()); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			written = len(items)
			return nil
		})
	return written, err
}

// Fetch reads a script or seed from a location.
func (e *Engine) Fetch(ctx context.Context, location string) ([]byte, error) {
	var data []byte
	err := e.observe(ctx, "fetch", false,
		[]attribute.KeyValue{attribute.String("location", location)},
		func(ctx context.Context) error {
			blobs, key, err := e.resolve(ctx, location)
			if err != nil {
				return err
			}
			data, err = blobs.Get(ctx, key)
			return err
		})
	return data, err
}
