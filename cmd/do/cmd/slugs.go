package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func SlugsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slugs",
		Short: "List the page paths generated ahead of time",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := loadApp()
			paths, err := app.PageService.StaticPaths(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		},
	}
}
