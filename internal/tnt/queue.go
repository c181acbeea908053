package tnt

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tarantool "github.com/tarantool/go-tarantool/v2"
	"github.com/tarantool/go-tarantool/v2/pool"
	"github.com/tarantool/go-tarantool/v2/queue"

	log "github.com/sirupsen/logrus"
)

// masterHandler waits until every instance of the pool is discovered and
// counts masters, the only instances the queue works with.
type masterHandler struct {
	name string

	err       error
	mutex     sync.Mutex
	updated   chan struct{}
	masterCnt int32
}

var _ pool.ConnectionHandler = &masterHandler{}

func newMasterHandler(name string, instances int) *masterHandler {
	return &masterHandler{
		name:    name,
		updated: make(chan struct{}, instances),
	}
}

// Discovered identifies masters. Master-master configurations are not supported.
func (h *masterHandler) Discovered(id string, conn *tarantool.Connection,
	role pool.Role) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.err != nil {
		return h.err
	}

	defer func() {
		select {
		case h.updated <- struct{}{}:
		default:
		}
	}()

	if role != pool.MasterRole {
		return nil
	}

	log.Debugf("tnt: master %s serves queue %s", id, h.name)
	atomic.AddInt32(&h.masterCnt, 1)

	return nil
}

func (h *masterHandler) Deactivated(id string, conn *tarantool.Connection,
	role pool.Role) error {
	if role == pool.MasterRole {
		atomic.AddInt32(&h.masterCnt, -1)
	}
	return nil
}

type TntCfg struct {
	Addrs    []string
	User     string
	Password string
	Timeout  time.Duration
	Ttl      time.Duration
}

type Queue interface {
	TakeTimeout(timeout time.Duration) (*queue.Task, error)
	Put(data interface{}) (*queue.Task, error)
	Close()
}

type TntQueue struct {
	name    string
	ttl     time.Duration
	handler *masterHandler
	pool    *pool.ConnectionPool
	queue   queue.Queue
}

func NewTntQueue(ctx context.Context, name string, cfg *TntCfg) (tqueue Queue, err error) {
	tntQueue := &TntQueue{
		name:    name,
		ttl:     cfg.Ttl,
		handler: newMasterHandler(name, len(cfg.Addrs)),
	}

	poolInstances := make([]pool.Instance, 0, len(cfg.Addrs))
	connOpts := tarantool.Opts{
		Timeout: cfg.Timeout,
	}
	for _, serv := range cfg.Addrs {
		poolInstances = append(poolInstances, pool.Instance{
			Name: serv,
			Dialer: tarantool.NetDialer{
				Address:  serv,
				User:     cfg.User,
				Password: cfg.Password,
			},
			Opts: connOpts,
		})
	}

	poolOpts := pool.Opts{
		CheckTimeout:      5 * time.Second,
		ConnectionHandler: tntQueue.handler,
	}

	tntQueue.pool, err = pool.ConnectWithOpts(ctx, poolInstances, poolOpts)

	if err != nil {
		log.Errorf("tnt: unable to connect to the pool: %s", err)
		return
	}

	for range cfg.Addrs {
		select {
		case <-tntQueue.handler.updated:
		case <-ctx.Done():
			tntQueue.Close()
			err = ctx.Err()
			return
		}
	}

	if tntQueue.handler.err != nil {
		log.Errorf("tnt: unable to identify in the pool: %s", tntQueue.handler.err)
		err = tntQueue.handler.err
		tntQueue.Close()
		return
	}

	rw := pool.NewConnectorAdapter(tntQueue.pool, pool.RW)
	tntQueue.queue = queue.New(rw, name)

	tqueue = tntQueue

	return
}

func (tntQueue *TntQueue) TakeTimeout(timeout time.Duration) (*queue.Task, error) {
	return tntQueue.queue.TakeTimeout(timeout)
}

func (tntQueue *TntQueue) Put(data interface{}) (*queue.Task, error) {
	if tntQueue.ttl > 0 {
		return tntQueue.queue.PutWithOpts(data, queue.Opts{Ttl: tntQueue.ttl})
	}
	return tntQueue.queue.Put(data)
}

func (tntQueue *TntQueue) Close() {
	if tntQueue.pool == nil {
		return
	}
	for _, err := range tntQueue.pool.Close() {
		log.Errorf("tnt: close queue %s: %s", tntQueue.name, err)
	}
}
