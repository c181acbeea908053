package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	config "github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umeng-push/internal/fetcher"
	"umeng-push/internal/push/umeng"
	"umeng-push/internal/task"
	"umeng-push/internal/transport"
)

type sliceFetcher struct {
	mu     sync.Mutex
	tasks  []*task.Task
	errs   []error
	closed bool
}

func (f *sliceFetcher) Get() (*task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	if len(f.tasks) == 0 {
		time.Sleep(time.Millisecond)
		return nil, fetcher.ErrContinue
	}
	t := f.tasks[0]
	f.tasks = f.tasks[1:]
	return t, nil
}

func (f *sliceFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

type countingDispatcher struct {
	mu    sync.Mutex
	casts []umeng.Cast
	done  chan struct{}
	want  int
}

func (d *countingDispatcher) Send(_ context.Context, n *umeng.Notification) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.casts = append(d.casts, n.Cast())
	if len(d.casts) == d.want {
		close(d.done)
	}
	return "us1", nil
}

func (d *countingDispatcher) Upload(context.Context, string, string, string) (string, error) {
	return "PF1", nil
}

func (d *countingDispatcher) Cancel(context.Context, string, string, string) error {
	return nil
}

func TestAppDispatchesQueuedTasks(t *testing.T) {
	config.Set("worker_count", 2)
	config.Set("app.android.appkey", "ak")
	config.Set("app.android.master_secret", "as")
	config.Set("app.ios.appkey", "ik")
	config.Set("app.ios.master_secret", "is")
	transport.FlushConfig("")

	f := &sliceFetcher{tasks: []*task.Task{
		{ID: 1, Project: "app", Type: task.Android, Cast: "broadcast", Payload: map[string]any{
			task.KeyTitle: "title", task.KeyContent: "content",
		}},
		{ID: 2, Project: "app", Type: task.Ios, Cast: "unicast", To: "token"},
		{ID: 3, Project: "app", Type: task.Platform("huawei"), Cast: "unicast", To: "token"},
	}}
	d := &countingDispatcher{done: make(chan struct{}), want: 2}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	NewDefaultApp(f, d).Start(ctx, &wg)

	select {
	case <-d.done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks were not dispatched")
	}

	cancel()
	wg.Wait()

	assert.ElementsMatch(t, []umeng.Cast{umeng.Broadcast, umeng.Unicast}, d.casts)
	require.True(t, f.closed)
}

func TestAppSurvivesFetchErrors(t *testing.T) {
	config.Set("worker_count", 1)
	config.Set("fetch_backoff", 10*time.Millisecond)
	config.Set("app.ios.appkey", "ik")
	config.Set("app.ios.master_secret", "is")
	transport.FlushConfig("")

	f := &sliceFetcher{
		errs:  []error{errors.New("connection reset"), errors.New("no connection")},
		tasks: []*task.Task{{ID: 7, Project: "app", Type: task.Ios, Cast: "unicast", To: "token"}},
	}
	d := &countingDispatcher{done: make(chan struct{}), want: 1}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	NewDefaultApp(f, d).Start(ctx, &wg)

	select {
	case <-d.done:
	case <-time.After(5 * time.Second):
		t.Fatal("fetcher stopped after a transient error")
	}

	cancel()
	wg.Wait()

	assert.Equal(t, []umeng.Cast{umeng.Unicast}, d.casts)
	require.True(t, f.closed)
}

func TestAppStopsDuringBackoff(t *testing.T) {
	config.Set("worker_count", 1)
	config.Set("fetch_backoff", time.Hour)

	f := &sliceFetcher{errs: []error{errors.New("down")}}
	d := &countingDispatcher{done: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	NewDefaultApp(f, d).Start(ctx, &wg)
	time.Sleep(20 * time.Millisecond)
	cancel()

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("fetcher did not stop while backing off")
	}
	require.True(t, f.closed)
}
