package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"umeng-push/internal/fetcher"
	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
	"umeng-push/internal/transport"
)

type taskFlags struct {
	project     string
	platform    string
	cast        string
	to          string
	title       string
	content     string
	sendTime    string
	url         string
	description string
	aliasType   string
	extra       map[string]string
	fields      map[string]string
}

func (f *taskFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.project, "project", "", "project whose credentials are used")
	fl.StringVar(&f.platform, "platform", "", "android or ios")
	fl.StringVar(&f.cast, "cast", "", "unicast, listcast, broadcast, groupcast, customizedcast or filecast")
	fl.StringVar(&f.to, "to", "", "device tokens, tag or filter, alias, or file contents depending on cast")
	fl.StringVar(&f.title, "title", "", "notification title")
	fl.StringVar(&f.content, "content", "", "notification text, markup is stripped")
	fl.StringVar(&f.sendTime, "send-time", "", "scheduled start time, 2006-01-02 15:04:05")
	fl.StringVar(&f.url, "url", "", "url or activity opened on tap (android)")
	fl.StringVar(&f.description, "description", "", "task description")
	fl.StringVar(&f.aliasType, "alias-type", "", "alias type for customizedcast")
	fl.StringToStringVar(&f.extra, "extra", nil, "custom key=value delivered to the app")
	fl.StringToStringVar(&f.fields, "field", nil, "raw umeng key=value, routed to its nesting level")

	for _, name := range []string{"project", "platform", "cast"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func toAny(m map[string]string) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *taskFlags) task() *task.Task {
	payload := map[string]any{}
	for k, v := range map[string]string{
		task.KeyTitle:       f.title,
		task.KeyContent:     f.content,
		task.KeySendTime:    f.sendTime,
		task.KeyURL:         f.url,
		task.KeyDescription: f.description,
		task.KeyAliasType:   f.aliasType,
	} {
		if v != "" {
			payload[k] = v
		}
	}
	if extra := toAny(f.extra); extra != nil {
		payload[task.KeyExtra] = extra
	}
	if fields := toAny(f.fields); fields != nil {
		payload[task.KeyFields] = fields
	}

	return &task.Task{
		Project: f.project,
		Type:    task.Platform(f.platform),
		Cast:    f.cast,
		To:      f.to,
		Payload: payload,
	}
}

func newSendCommand() *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Dispatch one cast right away and print its task id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := startRunner()
			if err != nil {
				return err
			}

			qtask := f.task()

			sender, err := transport.GetTransport(qtask.Type, umeng.New())
			if err != nil {
				return err
			}

			taskID, err := sender.Send(ctx, qtask)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), taskID)
			return nil
		},
	}

	f.bind(cmd)

	return cmd
}

func newEnqueueCommand() *cobra.Command {
	var f taskFlags

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Put a cast into the tarantool queue for serve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := startRunner()
			if err != nil {
				return err
			}

			producer, err := fetcher.NewTntProducer(ctx)
			if err != nil {
				return err
			}
			defer producer.Close()

			id, err := producer.Put(f.task())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	f.bind(cmd)

	return cmd
}
