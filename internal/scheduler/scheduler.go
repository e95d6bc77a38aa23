package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"civic_ingest/internal/model"
	"civic_ingest/internal/pipeline"
)

// Default pacing. The resolve delay must stay below the tick interval.
const (
	DefaultTickInterval = 1800 * time.Millisecond
	DefaultResolveDelay = 1200 * time.Millisecond
)

var (
	// ErrPacing is returned by New when the resolve delay does not fit inside a tick.
	ErrPacing = errors.New("resolve delay must be shorter than tick interval")
	// ErrRunning is returned by StartFrom when a run is in progress or starting.
	ErrRunning = errors.New("run already in progress")
	// ErrNoPosts is returned by StartFrom when the source has nothing to scan.
	ErrNoPosts = errors.New("no posts to scan")
)

// PostSource supplies the posts of a run.
type PostSource interface {
	Posts(ctx context.Context) ([]model.RawPost, error)
}

// Processor turns a post into an outcome.
type Processor interface {
	Process(post model.RawPost) pipeline.Outcome
}

// Recorder receives run events, typically for metrics.
type Recorder interface {
	RunStarted()
	RunFinished()
	PostScanned(post model.RawPost)
	PostImported(rec model.ComplaintRecord)
	PostRejected(v model.Verdict)
	SinkFailed()
}

type nopRecorder struct{}

func (nopRecorder) RunStarted()                        {}
func (nopRecorder) RunFinished()                       {}
func (nopRecorder) PostScanned(model.RawPost)          {}
func (nopRecorder) PostImported(model.ComplaintRecord) {}
func (nopRecorder) PostRejected(model.Verdict)         {}
func (nopRecorder) SinkFailed()                        {}

// Deps are the collaborators of a Scheduler. Only Processor is required.
type Deps struct {
	Processor Processor
	Sink      pipeline.Sink
	Recorder  Recorder
	Log       *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTickInterval sets how often the next queued post is dequeued.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.tick = d }
}

// WithResolveDelay sets how long a post stays in scanning before it resolves.
func WithResolveDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.delay = d }
}

// Scheduler paces a batch of posts through the pipeline: one post is
// dequeued per tick and resolved after a fixed delay.
type Scheduler struct {
	proc Processor
	sink pipeline.Sink
	rec  Recorder
	log  *slog.Logger

	tick  time.Duration
	delay time.Duration

	// held while a StartFrom reads its source
	startMu sync.Mutex

	mu       sync.Mutex
	runID    uint64
	running  bool
	cursor   int
	stats    model.Stats
	entries  []Entry
	cancel   context.CancelFunc
	done     chan struct{}
	loopDone chan struct{}
}

// New creates an idle Scheduler.
func New(deps Deps, opts ...Option) (*Scheduler, error) {
	if deps.Processor == nil {
		return nil, errors.New("scheduler: processor is required")
	}

	s := &Scheduler{
		proc:  deps.Processor,
		sink:  deps.Sink,
		rec:   deps.Recorder,
		log:   deps.Log,
		tick:  DefaultTickInterval,
		delay: DefaultResolveDelay,
		done:  closedChan(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tick <= 0 || s.delay <= 0 {
		return nil, fmt.Errorf("scheduler: non-positive pacing tick=%s delay=%s", s.tick, s.delay)
	}
	if s.delay >= s.tick {
		return nil, fmt.Errorf("scheduler: tick=%s delay=%s: %w", s.tick, s.delay, ErrPacing)
	}
	if s.rec == nil {
		s.rec = nopRecorder{}
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return s, nil
}

// Start begins a run over posts. It returns false and changes nothing when a
// run is already in progress.
func (s *Scheduler) Start(posts []model.RawPost) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	s.runID++
	s.running = true
	s.cursor = 0
	s.stats = model.Stats{}
	s.entries = make([]Entry, len(posts))
	for i, p := range posts {
		s.entries[i] = Entry{Post: p, Status: model.PostQueued}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.loopDone = make(chan struct{})

	s.rec.RunStarted()
	s.log.Info("run started", "run_id", s.runID, "posts", len(posts))

	go s.loop(ctx, s.runID, len(posts), s.loopDone)

	return true
}

// StartFrom reads src and starts a run over its posts, returning how many
// were queued. While one caller is reading src, others get ErrRunning
// without touching src, so draining sources lose nothing.
func (s *Scheduler) StartFrom(ctx context.Context, src PostSource) (int, error) {
	if !s.startMu.TryLock() {
		return 0, ErrRunning
	}
	defer s.startMu.Unlock()

	if s.Running() {
		return 0, ErrRunning
	}
	posts, err := src.Posts(ctx)
	if err != nil {
		return 0, fmt.Errorf("read posts: %w", err)
	}
	if len(posts) == 0 {
		return 0, ErrNoPosts
	}
	if !s.Start(posts) {
		return 0, ErrRunning
	}
	return len(posts), nil
}

// Cancel stops the current run. Pending resolutions are dropped, records
// already approved finish appending, and no state changes after Cancel
// returns. It is a no-op when idle.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	cancel, loopDone := s.cancel, s.loopDone
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-loopDone
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Done returns a channel closed when the current run ends. When idle the
// channel is already closed.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Wait blocks until the current run ends or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	select {
	case <-s.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, runID uint64, total int, loopDone chan struct{}) {
	defer close(loopDone)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	tickC := ticker.C
	if total == 0 {
		ticker.Stop()
		tickC = nil
	}

	// Sized for every record of the run: sends never block. Approved records
	// are appended even after Cancel.
	appends := make(chan appendJob, total)
	appendsDone := make(chan struct{})
	go s.appendLoop(context.WithoutCancel(ctx), appends, appendsDone)

	resolved := make(chan int)
	timers := make(map[int]*time.Timer)
	stop := func(reason string) {
		for _, t := range timers {
			t.Stop()
		}
		close(appends)
		<-appendsDone
		s.finish(runID, reason)
	}

	next := 0
	for {
		if tickC == nil && len(timers) == 0 {
			stop("completed")
			return
		}

		select {
		case <-ctx.Done():
			stop("cancelled")
			return

		case <-tickC:
			idx := next
			next++
			s.dequeue(runID, idx)
			timers[idx] = time.AfterFunc(s.delay, func() {
				select {
				case resolved <- idx:
				case <-ctx.Done():
				}
			})
			if next >= total {
				ticker.Stop()
				tickC = nil
			}

		case idx := <-resolved:
			delete(timers, idx)
			if job, ok := s.resolve(ctx, runID, idx); ok && s.sink != nil {
				appends <- job
			}
		}
	}
}

func (s *Scheduler) dequeue(runID uint64, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID != runID || idx >= len(s.entries) {
		return
	}
	s.entries[idx].Status = model.PostScanning
	s.cursor = idx + 1
	s.stats.Scanned++
	s.rec.PostScanned(s.entries[idx].Post)
	s.log.Debug("scanning post", "post_id", s.entries[idx].Post.ID, "source", s.entries[idx].Post.Source)
}

type appendJob struct {
	postID string
	rec    model.ComplaintRecord
}

// appendLoop hands approved records to the sink in approval order until
// jobs is closed.
func (s *Scheduler) appendLoop(ctx context.Context, jobs <-chan appendJob, done chan<- struct{}) {
	defer close(done)
	for job := range jobs {
		if err := s.sink.Append(ctx, job.rec); err != nil {
			s.rec.SinkFailed()
			s.log.Error("append complaint", "post_id", job.postID, "code", job.rec.DisplayCode, "error", err)
		}
	}
}

// resolve settles a scanning post. It returns the record to append when the
// post was approved.
func (s *Scheduler) resolve(ctx context.Context, runID uint64, idx int) (appendJob, bool) {
	s.mu.Lock()
	if s.runID != runID || ctx.Err() != nil || idx >= len(s.entries) {
		s.mu.Unlock()
		return appendJob{}, false
	}
	post := s.entries[idx].Post
	s.mu.Unlock()

	out := s.proc.Process(post)

	s.mu.Lock()
	if s.runID != runID || ctx.Err() != nil {
		s.mu.Unlock()
		return appendJob{}, false
	}
	e := &s.entries[idx]
	verdict := out.Verdict
	e.Verdict = &verdict
	if !out.Approved() || out.Record == nil {
		e.Status = model.PostFake
		s.stats.Rejected++
		s.rec.PostRejected(verdict)
		s.mu.Unlock()
		s.log.Info("post rejected", "post_id", post.ID, "reasons", verdict.Reasons)
		return appendJob{}, false
	}
	e.Status = model.PostApproved
	e.Classification = out.Classification
	e.Record = out.Record
	s.stats.Imported++
	s.rec.PostImported(*out.Record)
	s.mu.Unlock()

	s.log.Info("post approved", "post_id", post.ID, "code", out.Record.DisplayCode,
		"department", out.Record.Department, "urgency", out.Record.Urgency)

	return appendJob{postID: post.ID, rec: *out.Record}, true
}

func (s *Scheduler) finish(runID uint64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID != runID || !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.done)
	s.rec.RunFinished()
	s.log.Info("run finished", "run_id", runID, "reason", reason,
		"scanned", s.stats.Scanned, "imported", s.stats.Imported, "rejected", s.stats.Rejected)
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
