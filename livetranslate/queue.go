package livetranslate

import (
	"sync"
	"sync/atomic"
)

// BlockQueue hands audio blocks from the capture callback to the
// processing loop. Push never blocks.
type BlockQueue struct {
	mu      sync.Mutex
	blocks  [][]float32
	limit   int
	ready   chan struct{}
	dropped atomic.Uint64
}

// NewBlockQueue creates a queue holding at most limit blocks. When full, the
// oldest block is dropped. limit <= 0 means unbounded.
func NewBlockQueue(limit int) *BlockQueue {
	return &BlockQueue{limit: limit, ready: make(chan struct{}, 1)}
}

// Push appends block. The queue takes ownership of the slice.
func (q *BlockQueue) Push(block []float32) {
	q.mu.Lock()
	if q.limit > 0 && len(q.blocks) >= q.limit {
		q.blocks[0] = nil
		q.blocks = q.blocks[1:]
		q.dropped.Add(1)
	}
	q.blocks = append(q.blocks, block)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns all pending blocks in arrival order.
func (q *BlockQueue) Drain() [][]float32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	blocks := q.blocks
	q.blocks = nil
	return blocks
}

// Ready receives a value after one or more Pushes.
func (q *BlockQueue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of pending blocks.
func (q *BlockQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.blocks)
}

// Dropped returns how many blocks were discarded because the queue was full.
func (q *BlockQueue) Dropped() uint64 {
	return q.dropped.Load()
}
