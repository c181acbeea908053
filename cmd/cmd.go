package cmd

import (
	"context"

	"github.com/spf13/cobra"
	config "github.com/spf13/viper"

	"umeng-push/internal/runner"
	"umeng-push/internal/transport"
)

var configFileName string

func init() {
	config.SetDefault("liveness_enabled", false)
}

func Run() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "umeng-push",
		Short:         "Build, sign and dispatch umeng push casts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFileName, "config", "/usr/local/etc/umeng-push.conf", "config file")

	root.AddCommand(
		newServeCommand(),
		newSendCommand(),
		newEnqueueCommand(),
		newCancelCommand(),
		newUploadCommand(),
	)

	return root
}

func startRunner() (context.Context, error) {
	return runner.NewDefaultRunner(
		configFileName,
		map[string]func(param string){
			"credentials": transport.FlushConfig,
		},
	).StartAsync()
}
