package fetcher

import (
	"context"

	"umeng-push/internal/task"
	"umeng-push/internal/tnt"
)

type Producer interface {
	Put(t *task.Task) (uint64, error)
	Close()
}

type tntProducer struct {
	queue tnt.Queue
}

func NewTntProducer(ctx context.Context) (Producer, error) {
	qu, err := newTntQueue(ctx)
	if err != nil {
		return nil, err
	}
	return &tntProducer{queue: qu}, nil
}

func (p *tntProducer) Put(t *task.Task) (uint64, error) {
	tuple, err := tnt.StructToTntArray(t)
	if err != nil {
		return 0, err
	}
	qtask, err := p.queue.Put(tuple)
	if err != nil {
		return 0, err
	}
	return qtask.Id(), nil
}

func (p *tntProducer) Close() {
	p.queue.Close()
}
