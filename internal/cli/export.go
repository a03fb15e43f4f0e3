package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rostercore/internal/adapters/export"
	"rostercore/internal/blob"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var formats []string

	c := &cobra.Command{
		Use:   "export <roster|inventory>",
		Short: "Render a report and store its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			blobs, err := blob.Open(cmd.Context())
			if err != nil {
				return fmt.Errorf("open blob store: %w", err)
			}

			exporter := export.NewExporter(svc.Store(), blobs)
			exporter.Start()
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = exporter.Stop(stopCtx)
			}()

			req := export.Request{Report: export.Report(args[0])}
			for _, f := range formats {
				req.Formats = append(req.Formats, export.Format(f))
			}
			job, err := exporter.Enqueue(cmd.Context(), req)
			if err != nil {
				return err
			}

			job, err = waitForJob(cmd.Context(), exporter, job.ID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), job)
		},
	}
	c.Flags().StringSliceVar(&formats, "format", []string{"json", "csv"}, "artifact formats (json, csv)")
	return c
}

func waitForJob(ctx context.Context, exporter *export.Exporter, id string) (export.Job, error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		job, ok := exporter.GetJob(id)
		if !ok {
			return export.Job{}, fmt.Errorf("export job %s not found", id)
		}
		switch job.Status {
		case export.StatusSucceeded:
			return job, nil
		case export.StatusFailed:
			return job, fmt.Errorf("export failed: %s", job.Error)
		}
		select {
		case <-ctx.Done():
			return export.Job{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
