package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the model from the object store",
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, closeFetcher, err := a.newFetcher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFetcher()

			if err := fetcher.Fetch(cmd.Context(), a.objectRef(), a.cfg.ModelPath); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Downloaded %s to %s\n", a.objectRef(), a.cfg.ModelPath)
			return nil
		},
	}
}
