package fetcher

import (
	"errors"

	"umeng-push/internal/task"
)

var ErrContinue = errors.New("Continue")

// Fetcher hands out the next queued task. ErrContinue means nothing was
// available yet and the caller should ask again.
type Fetcher interface {
	Get() (*task.Task, error)
	Close()
}
