package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/headlesswp/internal/storage"
)

func ExportCmd() *cobra.Command {
	var (
		out    string
		useS3  bool
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render every page, the feed and the sitemap for static hosting",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := loadApp()
			ctx := cmd.Context()

			var (
				sink storage.Storage
				err  error
			)
			if useS3 {
				sink, err = storage.NewS3(ctx, app.Cfg, prefix)
			} else {
				sink, err = storage.NewLocalStorage(out)
			}
			if err != nil {
				return err
			}

			fmt.Println("==> Exporting to", sink)
			result, err := app.Exporter.Export(ctx, sink)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Printf("==> Exported %d pages\n", result.Pages)
			for _, path := range result.Skipped {
				fmt.Println("    skipped", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "out", "output directory")
	cmd.Flags().BoolVar(&useS3, "s3", false, "upload to the S3 bucket from S3_* instead of a directory")
	cmd.Flags().StringVar(&prefix, "prefix", "", "key prefix inside the bucket")
	cmd.MarkFlagsMutuallyExclusive("out", "s3")

	return cmd
}
