package fetcher

import (
	"context"
	"errors"
	"time"

	"umeng-push/internal/task"
	"umeng-push/internal/tnt"

	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
	"github.com/tarantool/go-tarantool/v2/pool"
	"github.com/tarantool/go-tarantool/v2/queue"
)

var _ takenTask = (*queue.Task)(nil)

func init() {
	config.SetDefault("tarantool.queue_name", "umeng_push")
	config.SetDefault("tarantool.timeout", 1*time.Second)
	config.SetDefault("tarantool.take_timeout", 1*time.Second)
}

type tntFetcher struct {
	queue       tnt.Queue
	takeTimeout time.Duration
}

func newTntQueue(ctx context.Context) (tnt.Queue, error) {
	return tnt.NewTntQueue(ctx,
		config.GetString("tarantool.queue_name"),
		&tnt.TntCfg{
			Addrs:    config.GetStringSlice("tarantool.queue"),
			User:     config.GetString("tarantool.user"),
			Password: config.GetString("tarantool.password"),
			Timeout:  config.GetDuration("tarantool.timeout"),
			Ttl:      config.GetDuration("tarantool.ttl"),
		})
}

func NewTntFetcher(ctx context.Context) (Fetcher, error) {
	qu, err := newTntQueue(ctx)
	if err != nil {
		log.Errorf("fetcher: cannot connect to tarantool queue %s", err)
		return nil, err
	}

	return &tntFetcher{
		queue:       qu,
		takeTimeout: config.GetDuration("tarantool.take_timeout"),
	}, nil
}

// Get takes one tuple and acks it right away: a cast is attempted at most once.
func (f *tntFetcher) Get() (*task.Task, error) {
	qtask, err := f.queue.TakeTimeout(f.takeTimeout)
	if errors.Is(err, pool.ErrNoRwInstance) || (err == nil && qtask == nil) {
		return nil, ErrContinue
	}
	if err != nil {
		return nil, err
	}

	return decode(qtask)
}

// takenTask is the part of a taken queue tuple the fetcher settles.
type takenTask interface {
	Id() uint64
	Data() interface{}
	Ack() error
	Bury() error
}

// decode acks a well formed tuple and buries one that cannot be scanned.
func decode(qtask takenTask) (*task.Task, error) {
	retTask := &task.Task{
		ID: qtask.Id(),
	}

	if err := tnt.ScanFieldsAnyToStruct(qtask.Data(), retTask); err != nil {
		log.Errorf("fetcher: bad tuple %d %s", qtask.Id(), err)
		if err := qtask.Bury(); err != nil {
			log.Errorf("fetcher: cannot bury %d %s", qtask.Id(), err)
		}
		return nil, ErrContinue
	}

	if err := qtask.Ack(); err != nil {
		log.Errorf("fetcher: cannot ack %d %s", qtask.Id(), err)
		return nil, ErrContinue
	}

	return retTask, nil
}

func (f *tntFetcher) Close() {
	f.queue.Close()
}
