package pdfgen

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/calc"
)

type JobState string

const (
	JobQueued  JobState = "queued"
	JobRunning JobState = "running"
	JobDone    JobState = "done"
	JobFailed  JobState = "failed"
)

// JobStatus is the public view of a render job.
type JobStatus struct {
	ID         string     `json:"id"`
	State      JobState   `json:"state"`
	Variant    string     `json:"variant"`
	Pages      int        `json:"pages,omitempty"`
	Code       string     `json:"document_code,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s JobStatus) pending() bool { return s.State == JobQueued || s.State == JobRunning }

type job struct {
	status  JobStatus
	payload calc.Payload
	doc     Document
	err     error
}

// Jobs renders documents in the background. Submit returns immediately;
// callers poll the status and fetch the file once the job is done. Finished
// jobs are forgotten after the TTL, or earlier when more than maxStored jobs
// are kept.
type Jobs struct {
	ctx       context.Context
	renderer  Renderer
	ttl       time.Duration
	maxPend   int
	maxStored int
	now       func() time.Time

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// NewJobs runs jobs under ctx; cancelling it aborts running renders.
func NewJobs(ctx context.Context, r Renderer, ttl time.Duration) *Jobs {
	return &Jobs{ctx: ctx, renderer: r, ttl: ttl, now: time.Now, jobs: map[string]*job{}}
}

// Limit caps queued plus running jobs and the total number of jobs kept.
// Zero means unlimited.
func (j *Jobs) Limit(maxPending, maxStored int) *Jobs {
	j.mu.Lock()
	j.maxPend, j.maxStored = maxPending, maxStored
	j.mu.Unlock()
	return j
}

// Submit queues a render of a copy of the payload and returns the job id.
func (j *Jobs) Submit(p calc.Payload) (string, error) {
	id := uuid.NewString()
	j.mu.Lock()
	j.sweepLocked()
	if j.maxPend > 0 && j.pendingLocked() >= j.maxPend {
		j.mu.Unlock()
		return "", ErrQueueFull
	}
	j.jobs[id] = &job{status: JobStatus{ID: id, State: JobQueued, Variant: p.Variant(), CreatedAt: j.now()}, payload: p}
	j.trimLocked()
	j.mu.Unlock()

	j.wg.Add(1)
	go j.run(id, p)
	return id, nil
}

// Add keeps a document rendered elsewhere as a finished job, so it can be
// downloaded or sent again without rendering.
func (j *Jobs) Add(p calc.Payload, doc Document) string {
	id := uuid.NewString()
	t := j.now()
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweepLocked()
	j.jobs[id] = &job{
		status: JobStatus{
			ID: id, State: JobDone, Variant: doc.Variant, Pages: doc.Pages, Code: doc.Code,
			CreatedAt: t, FinishedAt: &t,
		},
		payload: p,
		doc:     doc,
	}
	j.trimLocked()
	return id
}

func (j *Jobs) run(id string, p calc.Payload) {
	defer j.wg.Done()
	j.set(id, func(jb *job) { jb.status.State = JobRunning })

	doc, err := j.renderer.Render(j.ctx, &p)

	j.set(id, func(jb *job) {
		t := j.now()
		jb.status.FinishedAt = &t
		if err != nil {
			jb.err = err
			jb.status.State = JobFailed
			jb.status.Error = err.Error()
			return
		}
		jb.payload = p
		jb.doc = doc
		jb.status.State = JobDone
		jb.status.Pages = doc.Pages
		jb.status.Code = doc.Code
	})
	if err != nil {
		log.Warn().Err(err).Str("job", id).Msg("pdf job failed")
	}
}

func (j *Jobs) set(id string, fn func(*job)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if jb, ok := j.jobs[id]; ok {
		fn(jb)
	}
}

// Status returns the job's status; false for unknown or expired ids.
func (j *Jobs) Status(id string) (JobStatus, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweepLocked()
	jb, ok := j.jobs[id]
	if !ok {
		return JobStatus{}, false
	}
	return jb.status, true
}

// Result returns the finished document, or the render error of a failed job.
// finished is false while the job is unknown or still running.
func (j *Jobs) Result(id string) (doc Document, finished bool, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweepLocked()
	jb, ok := j.jobs[id]
	if !ok {
		return Document{}, false, nil
	}
	switch jb.status.State {
	case JobDone:
		return jb.doc, true, nil
	case JobFailed:
		return Document{}, true, jb.err
	}
	return Document{}, false, nil
}

// Completed returns the rendered payload and document of a done job.
func (j *Jobs) Completed(id string) (calc.Payload, Document, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sweepLocked()
	jb, ok := j.jobs[id]
	if !ok || jb.status.State != JobDone {
		return calc.Payload{}, Document{}, false
	}
	return jb.payload, jb.doc, true
}

// Wait blocks until every submitted job has finished.
func (j *Jobs) Wait() { j.wg.Wait() }

// WaitContext is Wait bounded by ctx.
func (j *Jobs) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Jobs) pendingLocked() int {
	n := 0
	for _, jb := range j.jobs {
		if jb.status.pending() {
			n++
		}
	}
	return n
}

func (j *Jobs) sweepLocked() {
	if j.ttl <= 0 {
		return
	}
	cutoff := j.now().Add(-j.ttl)
	for id, jb := range j.jobs {
		if f := jb.status.FinishedAt; f != nil && f.Before(cutoff) {
			delete(j.jobs, id)
		}
	}
}

// trimLocked drops the oldest finished jobs above maxStored. Pending jobs
// are never dropped.
func (j *Jobs) trimLocked() {
	if j.maxStored <= 0 || len(j.jobs) <= j.maxStored {
		return
	}
	finished := make([]*job, 0, len(j.jobs))
	for _, jb := range j.jobs {
		if !jb.status.pending() {
			finished = append(finished, jb)
		}
	}
	sort.Slice(finished, func(a, b int) bool {
		return finished[a].status.FinishedAt.Before(*finished[b].status.FinishedAt)
	})
	for _, jb := range finished {
		if len(j.jobs) <= j.maxStored {
			return
		}
		delete(j.jobs, jb.status.ID)
	}
}
