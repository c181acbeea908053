package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"umeng-push/internal/fetcher"
	"umeng-push/internal/task"
	"umeng-push/internal/transport"
	"umeng-push/internal/worker"

	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
)

func init() {
	config.SetDefault("worker_count", 4)
	config.SetDefault("fetch_backoff", time.Second)
}

type Application interface {
	Start(ctx context.Context, wg *sync.WaitGroup)
}

type defaultApplication struct {
	channelTask chan *task.Task
	fetch       fetcher.Fetcher
	workers     []worker.Worker
}

func (da *defaultApplication) startFetcher(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer da.fetch.Close()
	defer close(da.channelTask)

	for {
		select {
		case <-ctx.Done():
			log.Debug("app: graceful shutdown fetcher")
			return
		default:
		}

		mtask, err := da.fetch.Get()
		if errors.Is(err, fetcher.ErrContinue) {
			continue
		}
		if err != nil {
			log.Errorf("app: cannot fetch data %s", err)
			select {
			case <-time.After(config.GetDuration("fetch_backoff")):
				continue
			case <-ctx.Done():
				log.Debug("app: graceful shutdown fetcher")
				return
			}
		}

		log.Debugf("app: got task %d", mtask.ID)

		select {
		case da.channelTask <- mtask:
		case <-ctx.Done():
			log.Errorf("app: task %d dropped on shutdown", mtask.ID)
			return
		}
	}
}

func (da *defaultApplication) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go da.startFetcher(ctx, wg)
	wg.Add(len(da.workers))
	for _, v := range da.workers {
		v.Start(ctx, da.channelTask, wg)
	}
}

func NewDefaultApp(fetch fetcher.Fetcher, client transport.Dispatcher) Application {
	count := config.GetInt("worker_count")
	if count < 1 {
		count = 1
	}

	app := &defaultApplication{
		channelTask: make(chan *task.Task),
		fetch:       fetch,
		workers:     make([]worker.Worker, 0, count),
	}
	for i := 0; i < count; i++ {
		app.workers = append(app.workers, worker.NewDefaultWorker(client))
	}

	return app
}
