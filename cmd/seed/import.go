package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fxchart-service/internal/application"
	"fxchart-service/internal/bootstrap"
	"fxchart-service/internal/domain"
	infraconfig "fxchart-service/internal/infrastructure/config"
	"fxchart-service/internal/infrastructure/logx"
	"fxchart-service/internal/infrastructure/recordjson"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func readRecords(r io.Reader) ([]domain.QuoteRecord, error) {
	var wire []recordjson.Record
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]domain.QuoteRecord, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.Domain())
	}
	return out, nil
}

type importer interface {
	Import(ctx context.Context, records []domain.QuoteRecord) (int, error)
}

var _ importer = (*application.RecordService)(nil)

// importBatches stores records in chunks of batch, one unit of work each.
func importBatches(ctx context.Context, svc importer, records []domain.QuoteRecord, batch int) (int, error) {
	if batch <= 0 {
		batch = infraconfig.DefaultImportBatch
	}
	total := 0
	for start := 0; start < len(records); start += batch {
		end := min(start+batch, len(records))
		n, err := svc.Import(ctx, records[start:end])
		if err != nil {
			return total, fmt.Errorf("batch at %d: %w", start, err)
		}
		total += n
	}
	return total, nil
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load a JSON array of records into the configured store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logx.L()
		batch, _ := cmd.Flags().GetInt("batch")

		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		records, err := readRecords(in)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc, cleanup, err := bootstrap.InitRecordService(ctx)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		defer cleanup()

		n, err := importBatches(ctx, svc, records, batch)
		if err != nil {
			log.Error("seed.import_failed", zap.Int("imported", n), zap.Error(err))
			return err
		}
		log.Info("seed.import_done", zap.Int("imported", n))
		return nil
	},
}

func init() {
	importCmd.Flags().Int("batch", infraconfig.DefaultImportBatch, "records per transaction")
}
