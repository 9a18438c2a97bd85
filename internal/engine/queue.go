package engine

import (
	"sync"

	"github.com/datallboy/godemo/internal/domain"
)

// pendingQueue holds the tasks no worker has claimed yet.
type pendingQueue struct {
	mu    sync.Mutex
	items []*domain.DownloadTask
}

func newPendingQueue(tasks []*domain.DownloadTask) *pendingQueue {
	items := make([]*domain.DownloadTask, len(tasks))
	copy(items, tasks)
	return &pendingQueue{items: items}
}

// Pop removes and returns the next task. Each task is handed out once.
func (q *pendingQueue) Pop() (*domain.DownloadTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	next := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return next, true
}

func (q *pendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
