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

type androidSender struct {
	sender
}

func NewAndroidTransport(client Dispatcher) Transport {
	return &androidSender{
		sender: sender{
			platform: task.Android,
			client:   client,
			config:   newDefaultAppConfig(),
		},
	}
}

func (a *androidSender) Send(ctx context.Context, qtask *task.Task) (string, error) {
	opts, err := a.opts(qtask.Project)
	if err != nil {
		return "", err
	}

	n, err := a.build(ctx, qtask, opts)
	if err != nil {
		return "", err
	}

	return a.dispatch(ctx, &n.Notification)
}

func (a *androidSender) build(ctx context.Context, qtask *task.Task, opts *AppOpts) (*umeng.AndroidNotification, error) {
	cast, err := castOf(qtask)
	if err != nil {
		return nil, err
	}

	n := umeng.NewAndroidCast(cast, opts.AppKey, opts.AppMasterSecret)

	title := fieldString(qtask, task.KeyTitle, "title")
	text := plainContent(fieldString(qtask, task.KeyContent, "text"))
	if title == "" || text == "" {
		log.Errorf("transport: android task %d without title or content", qtask.ID)
		return nil, push.ErrorRequest
	}

	errs := []error{
		n.SetDisplayType(umeng.DisplayNotification),
		n.SetTicker(title),
		n.SetTitle(title),
		n.SetText(text),
	}

	switch url := qtask.String(task.KeyURL); {
	case url == "":
		errs = append(errs, n.GoAppAfterOpen())
	case isWebURL(url):
		errs = append(errs, n.GoURLAfterOpen(url))
	default:
		errs = append(errs, n.GoActivityAfterOpen(url))
	}

	for k, v := range qtask.Map(task.KeyExtra) {
		errs = append(errs, n.SetExtraField(k, fmt.Sprint(v)))
	}

	if err := errors.Join(errs...); err != nil {
		log.Errorf("transport: android task %d %s", qtask.ID, err)
		return nil, push.ErrorRequest
	}

	if err := a.prepare(ctx, &n.Notification, qtask, opts); err != nil {
		return nil, err
	}

	return n, nil
}
