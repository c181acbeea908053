package worker

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"umeng-push/internal/task"
	"umeng-push/internal/transport"
)

type Worker interface {
	Start(ctx context.Context, channel <-chan *task.Task, wg *sync.WaitGroup)
}

type defaultWorker struct {
	transports map[task.Platform]transport.Transport
}

func NewDefaultWorker(client transport.Dispatcher) Worker {
	dw := &defaultWorker{
		transports: make(map[task.Platform]transport.Transport),
	}
	for _, p := range []task.Platform{task.Android, task.Ios} {
		t, _ := transport.GetTransport(p, client)
		dw.transports[p] = t
	}
	return dw
}

// Start drains channel until it is closed. Casts already taken from the queue
// are finished even after ctx is cancelled.
func (dw *defaultWorker) Start(ctx context.Context, channel <-chan *task.Task, wg *sync.WaitGroup) {
	sendCtx := context.WithoutCancel(ctx)
	go func(dw *defaultWorker) {
		defer wg.Done()
		for qtask := range channel {
			dw.push(sendCtx, qtask)
		}
	}(dw)
}

func (dw *defaultWorker) push(ctx context.Context, qtask *task.Task) {
	sender, ok := dw.transports[qtask.Type]
	if !ok {
		log.Errorf("worker: task %d unknown platform %q", qtask.ID, qtask.Type)
		return
	}

	taskID, err := sender.Send(ctx, qtask)
	if err != nil {
		log.Errorf("worker: task %d %s %s/%s failed %s", qtask.ID, qtask.Project, qtask.Type, qtask.Cast, err)
		return
	}

	log.Infof("worker: task %d %s %s/%s sent, umeng task %s", qtask.ID, qtask.Project, qtask.Type, qtask.Cast, taskID)
}
