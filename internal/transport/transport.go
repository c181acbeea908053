package transport

import (
	"context"
	"time"

	"umeng-push/internal/metrics"
	"umeng-push/internal/push"
	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
)

// Dispatcher is the umeng api surface the transports need.
type Dispatcher interface {
	Send(ctx context.Context, n *umeng.Notification) (string, error)
	Upload(ctx context.Context, appKey, appMasterSecret, contents string) (string, error)
	Cancel(ctx context.Context, appKey, appMasterSecret, taskID string) error
}

type Transport interface {
	// Send dispatches the task as one cast and returns the umeng task id.
	Send(ctx context.Context, qtask *task.Task) (string, error)
	Cancel(ctx context.Context, project, taskID string) error
	Upload(ctx context.Context, project, contents string) (string, error)
}

func GetTransport(t task.Platform, client Dispatcher) (Transport, error) {
	switch t {
	case task.Android:
		return NewAndroidTransport(client), nil
	case task.Ios:
		return NewIosTransport(client), nil
	}
	return nil, push.ErrorUnknownPlatform
}

// sender holds what android and ios share: credentials, recipients, dispatch.
type sender struct {
	platform task.Platform
	client   Dispatcher
	config   AppConfig
}

func (s *sender) opts(project string) (*AppOpts, error) {
	return s.config.GetConfig(project, s.platform)
}

func (s *sender) dispatch(ctx context.Context, n *umeng.Notification) (taskID string, err error) {
	start := time.Now()
	defer func() { metrics.Observe("send", string(s.platform), start, err) }()
	return s.client.Send(ctx, n)
}

func (s *sender) Cancel(ctx context.Context, project, taskID string) (err error) {
	start := time.Now()
	defer func() { metrics.Observe("cancel", string(s.platform), start, err) }()

	opts, err := s.opts(project)
	if err != nil {
		return err
	}
	return s.client.Cancel(ctx, opts.AppKey, opts.AppMasterSecret, taskID)
}

func (s *sender) Upload(ctx context.Context, project, contents string) (string, error) {
	opts, err := s.opts(project)
	if err != nil {
		return "", err
	}
	return s.upload(ctx, opts, contents)
}

func (s *sender) upload(ctx context.Context, opts *AppOpts, contents string) (fileID string, err error) {
	start := time.Now()
	defer func() { metrics.Observe("upload", string(s.platform), start, err) }()
	return s.client.Upload(ctx, opts.AppKey, opts.AppMasterSecret, contents)
}
