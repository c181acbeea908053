package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
	"umeng-push/internal/transport"
)

type projectFlags struct {
	project  string
	platform string
}

func (f *projectFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.project, "project", "", "project whose credentials are used")
	cmd.Flags().StringVar(&f.platform, "platform", "", "android or ios")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("platform")
}

func (f *projectFlags) transport() (transport.Transport, error) {
	return transport.GetTransport(task.Platform(f.platform), umeng.New())
}

func newCancelCommand() *cobra.Command {
	var (
		f      projectFlags
		taskID string
	)

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a scheduled or running umeng task",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := startRunner()
			if err != nil {
				return err
			}

			sender, err := f.transport()
			if err != nil {
				return err
			}

			return sender.Cancel(ctx, f.project, taskID)
		},
	}

	f.bind(cmd)
	cmd.Flags().StringVar(&taskID, "task-id", "", "task id returned by send")
	_ = cmd.MarkFlagRequired("task-id")

	return cmd
}

func newUploadCommand() *cobra.Command {
	var (
		f    projectFlags
		file string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload newline separated device tokens or aliases and print the file id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := startRunner()
			if err != nil {
				return err
			}

			contents, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			sender, err := f.transport()
			if err != nil {
				return err
			}

			fileID, err := sender.Upload(ctx, f.project, string(contents))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), fileID)
			return nil
		},
	}

	f.bind(cmd)
	cmd.Flags().StringVar(&file, "file", "", "file with one token or alias per line")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
