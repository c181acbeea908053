package cmd

import (
	"sync"

	"github.com/spf13/cobra"
	config "github.com/spf13/viper"

	"umeng-push/internal/app"
	"umeng-push/internal/fetcher"
	"umeng-push/internal/liveness"
	"umeng-push/internal/push/umeng"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Take casts from the tarantool queue and dispatch them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := startRunner()
			if err != nil {
				return err
			}

			fetch, err := fetcher.NewTntFetcher(ctx)
			if err != nil {
				return err
			}

			var wg sync.WaitGroup

			if config.GetBool("liveness_enabled") {
				liveness.NewDefaultLiveness().Start(ctx, &wg)
			}

			app.NewDefaultApp(fetch, umeng.New()).Start(ctx, &wg)

			wg.Wait()

			return nil
		},
	}
}
