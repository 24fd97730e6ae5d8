package workers

import (
	"fmt"
	"log"
	"sync"
)

// QueueMetadataExtraction names the queue all extraction jobs run on.
const QueueMetadataExtraction = "metadata-extraction"

// JobKind constants
const (
	JobQueueAll        = "queue-all"
	JobExtractMetadata = "extract-metadata"
	JobLinkLivePhotos  = "link-live-photos"
)

// Job is the payload a worker processes. AssetID is empty for bulk jobs.
type Job struct {
	Kind    string
	AssetID string
	Force   bool
}

// Handler processes a single job. A returned error marks the job failed so
// the queue's retry policy applies; handlers swallow recoverable sub-step
// failures themselves.
type Handler interface {
	Handle(job Job) error
}

// ExtractionQueue is a channel-backed job queue with per-job dedup and a
// global pause barrier. While paused, no worker picks up further jobs;
// Resume releases them all.
type ExtractionQueue struct {
	jobQueue chan Job
	stopChan chan struct{}
	wg       sync.WaitGroup

	mutex   sync.Mutex
	pending map[string]bool

	pauseMu sync.Mutex
	paused  bool
	resumed *sync.Cond
}

// NewExtractionQueue creates a queue with the given buffer size. Workers are
// not started until Start is called.
func NewExtractionQueue(queueSize int) *ExtractionQueue {
	if queueSize <= 0 {
		queueSize = 100
	}
	q := &ExtractionQueue{
		jobQueue: make(chan Job, queueSize),
		stopChan: make(chan struct{}),
		pending:  make(map[string]bool),
	}
	q.resumed = sync.NewCond(&q.pauseMu)
	return q
}

// Start launches numWorkers goroutines feeding jobs to handler.
func (q *ExtractionQueue) Start(numWorkers int, handler Handler) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	q.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go q.worker(i, handler)
	}
	log.Printf("workers: started %d extraction worker(s) with queue size %d", numWorkers, cap(q.jobQueue))
}

func (q *ExtractionQueue) worker(id int, handler Handler) {
	defer q.wg.Done()

	for {
		select {
		case job, ok := <-q.jobQueue:
			if !ok {
				log.Printf("workers: worker %d stopping: job queue closed", id)
				return
			}

			q.waitWhilePaused()

			if err := handler.Handle(job); err != nil {
				log.Printf("workers: worker %d: job %s failed for asset %q: %v", id, job.Kind, job.AssetID, err)
			}

			q.mutex.Lock()
			delete(q.pending, pendingKey(job))
			q.mutex.Unlock()

		case <-q.stopChan:
			log.Printf("workers: worker %d stopping: stop signal received", id)
			return
		}
	}
}

// waitWhilePaused blocks until the queue is resumed.
func (q *ExtractionQueue) waitWhilePaused() {
	q.pauseMu.Lock()
	for q.paused {
		q.resumed.Wait()
	}
	q.pauseMu.Unlock()
}

// Pause stops workers from picking up further jobs on the named queue. Jobs
// already executing run to completion.
func (q *ExtractionQueue) Pause(queueName string) {
	if queueName != QueueMetadataExtraction {
		log.Printf("workers: ignoring pause for unknown queue %q", queueName)
		return
	}
	q.pauseMu.Lock()
	q.paused = true
	q.pauseMu.Unlock()
	log.Printf("workers: queue %s paused", queueName)
}

// Resume releases all workers blocked by Pause.
func (q *ExtractionQueue) Resume(queueName string) {
	if queueName != QueueMetadataExtraction {
		log.Printf("workers: ignoring resume for unknown queue %q", queueName)
		return
	}
	q.pauseMu.Lock()
	q.paused = false
	q.pauseMu.Unlock()
	q.resumed.Broadcast()
	log.Printf("workers: queue %s resumed", queueName)
}

// Enqueue queues a job if an identical one is not already pending.
func (q *ExtractionQueue) Enqueue(job Job) bool {
	key := pendingKey(job)

	q.mutex.Lock()
	if q.pending[key] {
		q.mutex.Unlock()
		return false
	}
	q.pending[key] = true
	q.mutex.Unlock()

	select {
	case q.jobQueue <- job:
		return true
	default:
		log.Printf("workers: WARNING: extraction queue full, failed to queue %s for %q", job.Kind, job.AssetID)
		q.mutex.Lock()
		delete(q.pending, key)
		q.mutex.Unlock()
		return false
	}
}

// Stop shuts the queue down and waits for workers to drain.
func (q *ExtractionQueue) Stop() {
	log.Println("workers: stopping extraction workers...")
	close(q.stopChan)
	q.Resume(QueueMetadataExtraction) // release any worker parked on the barrier
	q.wg.Wait()
	log.Println("workers: all extraction workers stopped")
}

func pendingKey(job Job) string {
	return fmt.Sprintf("%s:%s", job.Kind, job.AssetID)
}
