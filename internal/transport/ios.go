package transport

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"umeng-push/internal/push"
	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
)

type iosSender struct {
	sender
}

func NewIosTransport(client Dispatcher) Transport {
	return &iosSender{
		sender: sender{
			platform: task.Ios,
			client:   client,
			config:   newDefaultAppConfig(),
		},
	}
}

func (i *iosSender) Send(ctx context.Context, qtask *task.Task) (string, error) {
	opts, err := i.opts(qtask.Project)
	if err != nil {
		return "", err
	}

	n, err := i.build(ctx, qtask, opts)
	if err != nil {
		return "", err
	}

	return i.dispatch(ctx, &n.Notification)
}

func (i *iosSender) build(ctx context.Context, qtask *task.Task, opts *AppOpts) (*umeng.IOSNotification, error) {
	cast, err := castOf(qtask)
	if err != nil {
		return nil, err
	}

	n := umeng.NewIOSCast(cast, opts.AppKey, opts.AppMasterSecret)

	errs := []error{
		n.SetAlert(map[string]any{
			"title":    qtask.String(task.KeyTitle),
			"subtitle": "",
			"body":     plainContent(qtask.String(task.KeyContent)),
		}),
		n.SetBadge(0),
		n.SetSound("default"),
	}

	for k, v := range qtask.Map(task.KeyExtra) {
		errs = append(errs, n.SetCustomizedField(k, fmt.Sprint(v)))
	}

	if err := errors.Join(errs...); err != nil {
		log.Errorf("transport: ios task %d %s", qtask.ID, err)
		return nil, push.ErrorRequest
	}

	if err := i.prepare(ctx, &n.Notification, qtask, opts); err != nil {
		return nil, err
	}

	return n, nil
}
