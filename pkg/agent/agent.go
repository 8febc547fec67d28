// Package agent drives the generate, execute and feedback loop for one task
// at a time.
package agent

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/runner"
	"github.com/alantheprice/vibecode/pkg/utils"
)

var (
	ErrBusy          = errors.New("an operation is already in progress")
	ErrNoTask        = errors.New("task is empty")
	ErrEmptyFeedback = errors.New("feedback is empty")
	ErrNoSession     = errors.New("no active task")
	ErrMaxAttempts   = errors.New("maximum attempts reached")
	ErrNoFiles       = errors.New("no files generated")
	ErrCancelled     = errors.New("operation cancelled")
	ErrClosed        = errors.New("agent is closed")
)

// DefaultMaxAttempts is the attempt ceiling per task.
const DefaultMaxAttempts = 5

// Options configures an Agent. Client, Runner and Model are required.
type Options struct {
	Client      llm.Client
	Runner      *runner.Runner
	Model       string
	MaxAttempts int
	JSONRetries int
	Budget      llm.Budget
	PoolSize    int
	Logger      *utils.Logger
	Observer    Observer
}

// Outcome is the result of one attempt.
type Outcome struct {
	ID         uuid.UUID
	Kind       WorkKind
	State      State
	Attempt    int
	Files      []manifest.File
	Execution  *runner.Outcome
	Evaluation *Evaluation
	Err        error
}

// Cancelled reports whether the attempt stopped early on cancellation.
func (o Outcome) Cancelled() bool {
	return errors.Is(o.Err, ErrCancelled)
}

// Pending is an accepted asynchronous operation. Done receives exactly one
// outcome.
type Pending struct {
	ID   uuid.UUID
	Done <-chan Outcome
}

// Wait blocks for the outcome or for ctx.
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case out := <-p.Done:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Agent owns one session. Session fields change only under mu; mu is not
// held across model calls or process execution.
type Agent struct {
	client      llm.Client
	runner      *runner.Runner
	parser      *manifest.Parser
	model       string
	maxAttempts int
	budget      llm.Budget
	logger      *utils.Logger
	observer    Observer
	pool        *Pool
	inflight    *Registry

	root       context.Context
	rootCancel context.CancelFunc

	mu         sync.Mutex
	session    *Session
	state      State
	status     string
	gen        uint64
	sessCtx    context.Context
	sessCancel context.CancelFunc
	solving    bool
	closed     bool

	// execMu serializes writes and runs in the projects root.
	execMu sync.Mutex
}

// New creates an idle agent.
func New(opts Options) (*Agent, error) {
	if opts.Client == nil {
		return nil, utils.NewValidationError("client", "a model client is required")
	}
	if opts.Runner == nil {
		return nil, utils.NewValidationError("runner", "a runner is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, utils.NewValidationError("model", "a model identifier is required")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}

	root, rootCancel := context.WithCancel(context.Background())
	a := &Agent{
		client:      opts.Client,
		runner:      opts.Runner,
		parser:      manifest.NewParser(opts.Client, opts.Model, opts.JSONRetries, opts.Budget, opts.Logger),
		model:       opts.Model,
		maxAttempts: opts.MaxAttempts,
		budget:      opts.Budget,
		logger:      opts.Logger,
		observer:    opts.Observer,
		pool:        NewPool(opts.PoolSize),
		inflight:    NewRegistry(),
		root:        root,
		rootCancel:  rootCancel,
		state:       Idle,
	}
	a.sessCtx, a.sessCancel = context.WithCancel(root)
	return a, nil
}

// operation is one accepted attempt. It carries copies of the session
// fields it needs so the model call runs without the lock.
type operation struct {
	item    WorkItem
	gen     uint64
	ctx     context.Context
	release func()
	task    string
	project string
	attempt int
	history []llm.Message
}

// Solve starts a new task and runs its first attempt. It refuses while any
// other operation is in flight.
func (a *Agent) Solve(ctx context.Context, task string) (Outcome, error) {
	op, err := a.prepareSolve(ctx, task)
	if err != nil {
		return Outcome{}, err
	}
	return a.run(op), nil
}

// SubmitTask is Solve on the worker pool. ctx bounds the operation itself.
func (a *Agent) SubmitTask(ctx context.Context, task string) (*Pending, error) {
	op, err := a.prepareSolve(ctx, task)
	if err != nil {
		return nil, err
	}
	return a.submit(op), nil
}

// Feedback runs the next attempt of the current task with feedback as the
// new user turn.
func (a *Agent) Feedback(ctx context.Context, feedback string) (Outcome, error) {
	op, final, err := a.prepareFeedback(ctx, feedback)
	if err != nil {
		return Outcome{}, err
	}
	if final != nil {
		return *final, nil
	}
	return a.run(op), nil
}

// SubmitFeedback is Feedback on the worker pool. Several feedback items may
// run at once; their commits are serialized and the last one wins.
func (a *Agent) SubmitFeedback(ctx context.Context, feedback string) (*Pending, error) {
	op, final, err := a.prepareFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}
	if final != nil {
		done := make(chan Outcome, 1)
		done <- *final
		return &Pending{ID: final.ID, Done: done}, nil
	}
	return a.submit(op), nil
}

// NextFeedback returns the evaluator's feedback on the last execution.
func (a *Agent) NextFeedback() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || a.session.Evaluation == nil {
		return "", false
	}
	return a.session.Evaluation.Feedback, true
}

// Continue sends the evaluator's feedback as the next attempt.
func (a *Agent) Continue(ctx context.Context) (Outcome, error) {
	feedback, ok := a.NextFeedback()
	if !ok {
		return Outcome{}, ErrNoSession
	}
	return a.Feedback(ctx, feedback)
}

// Cancel marks every in-flight operation of the current task for ignoring.
// Running model calls and processes see their context cancelled; results
// that arrive anyway are dropped. It reports whether there was a task.
func (a *Agent) Cancel() bool {
	a.mu.Lock()
	if a.session == nil {
		a.mu.Unlock()
		return false
	}
	a.rotateLocked()
	if !a.state.Terminal() {
		a.state = AwaitingFeedback
	}
	a.status = "Operation cancelled"
	a.mu.Unlock()

	a.logger.Log("Operation cancelled by user")
	a.observer.OnStatus("Operation cancelled")
	return true
}

// MarkComplete ends the task, cancelling anything in flight, and resets the
// session.
func (a *Agent) MarkComplete() {
	a.mu.Lock()
	a.rotateLocked()
	a.session = nil
	a.state = Complete
	a.status = "Task marked complete"
	a.mu.Unlock()

	a.logger.Log("Task marked complete")
	a.observer.OnStatus("Task marked complete")
}

// Close cancels everything and stops the pool without waiting for it.
func (a *Agent) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.sessCancel()
	a.rootCancel()
	a.mu.Unlock()
	a.pool.Shutdown()
}

// Wait blocks until every submitted operation has returned.
func (a *Agent) Wait() {
	a.pool.Wait()
}

func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Agent) Status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Agent) prepareSolve(ctx context.Context, task string) (*operation, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, ErrNoTask
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	if a.solving || a.inflight.Len() > 0 {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.rotateLocked()
	a.session = newSession(task)
	a.session.Attempts = 1
	a.solving = true
	a.state = AwaitingModel
	a.status = "Starting task..."
	op := a.beginLocked(ctx, WorkTask, task)
	a.mu.Unlock()

	a.logger.LogWorkspaceOperation("solve", fmt.Sprintf("project=%s model=%s", op.project, a.model))
	a.observer.OnStatus("Starting task...")
	return op, nil
}

func (a *Agent) prepareFeedback(ctx context.Context, feedback string) (*operation, *Outcome, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, nil, ErrEmptyFeedback
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, nil, ErrClosed
	}
	s := a.session
	if s == nil {
		a.mu.Unlock()
		return nil, nil, ErrNoSession
	}
	if a.solving {
		a.mu.Unlock()
		return nil, nil, ErrBusy
	}
	if s.Attempts >= a.maxAttempts {
		a.state = Failed
		a.status = "Maximum attempts reached"
		final := Outcome{
			ID:      uuid.New(),
			Kind:    WorkFeedback,
			State:   Failed,
			Attempt: s.Attempts,
			Files:   manifest.Clone(s.Files),
			Err:     ErrMaxAttempts,
		}
		a.mu.Unlock()

		a.logger.Logf("Feedback refused: %d of %d attempts used", final.Attempt, a.maxAttempts)
		a.observer.OnStatus("Maximum attempts reached")
		a.observer.OnOutcome(final)
		return nil, &final, nil
	}

	s.History = append(s.History,
		llm.Message{Role: llm.RoleAssistant, Content: manifest.Encode(s.Files)},
		llm.Message{Role: llm.RoleUser, Content: FeedbackPrompt(feedback)},
	)
	s.Attempts++
	a.state = AwaitingModel
	a.status = "Processing feedback..."
	op := a.beginLocked(ctx, WorkFeedback, feedback)
	a.mu.Unlock()

	a.logger.LogWorkspaceOperation("feedback", fmt.Sprintf("attempt=%d feedback=%q", op.attempt, utils.TruncateString(feedback, 80)))
	a.observer.OnStatus("Processing feedback...")
	return op, nil, nil
}

// rotateLocked cancels the current generation and starts a new one.
func (a *Agent) rotateLocked() {
	a.sessCancel()
	a.gen++
	a.sessCtx, a.sessCancel = context.WithCancel(a.root)
}

func (a *Agent) beginLocked(ctx context.Context, kind WorkKind, input string) *operation {
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(a.sessCtx, cancel)
	item := a.inflight.Add(kind, input)
	return &operation{
		item: item,
		gen:  a.gen,
		ctx:  opCtx,
		release: func() {
			stop()
			cancel()
			a.inflight.Remove(item.ID)
		},
		task:    a.session.Task,
		project: a.session.Project,
		attempt: a.session.Attempts,
		history: llm.Clone(a.session.History),
	}
}

func (a *Agent) submit(op *operation) *Pending {
	done := make(chan Outcome, 1)
	a.pool.Go(func() {
		done <- a.run(op)
	})
	return &Pending{ID: op.item.ID, Done: done}
}

func (a *Agent) run(op *operation) Outcome {
	defer op.release()

	ctx, span := startOperationSpan(op.ctx, op.item.Kind, op.project, op.attempt)
	out := a.attempt(ctx, op)
	endSpan(span, out.State, out.Err)

	a.mu.Lock()
	if op.item.Kind == WorkTask {
		a.solving = false
	}
	a.mu.Unlock()

	if out.Err != nil {
		a.logger.Logf("Attempt %d ended in %s: %v", out.Attempt, out.State, out.Err)
	} else {
		a.logger.Logf("Attempt %d ended in %s", out.Attempt, out.State)
	}
	a.observer.OnOutcome(out)
	return out
}

// attempt runs model call, parse and execution. Each phase boundary is a
// checkpoint; once the operation is stale it returns a cancelled outcome
// without touching the session.
func (a *Agent) attempt(ctx context.Context, op *operation) Outcome {
	out := Outcome{ID: op.item.ID, Kind: op.item.Kind, Attempt: op.attempt}

	if _, ok := a.advance(op, AwaitingModel, fmt.Sprintf("Attempt %d: Calling LLM...", op.attempt)); !ok {
		return a.cancelled(out)
	}
	phaseCtx, span := startPhaseSpan(ctx, AwaitingModel)
	raw, err := a.client.Complete(phaseCtx, a.model, op.history, a.budget.MaxTokens(a.model, op.task, op.history))
	span.End()
	if err != nil {
		msg := llm.Classify(llm.ProviderFor(a.model), 0, err).UserMessage()
		state, ok := a.advance(op, Failed, msg)
		if !ok {
			return a.cancelled(out)
		}
		a.logger.LogError(err)
		out.State = state
		out.Err = err
		return out
	}

	if _, ok := a.advance(op, ParsingManifest, "Parsing files..."); !ok {
		return a.cancelled(out)
	}
	phaseCtx, span = startPhaseSpan(ctx, ParsingManifest)
	res := a.parser.Parse(phaseCtx, raw, op.task, op.history)
	span.End()
	state, ok := a.update(op, func(s *Session) (State, string) {
		s.History = append(llm.Clone(op.history), res.Corrections...)
		if !res.OK() {
			return Failed, "No files generated"
		}
		s.Files = manifest.Clone(res.Files)
		return Executing, "Writing files and compiling/executing..."
	})
	if !ok {
		return a.cancelled(out)
	}
	if !res.OK() {
		out.State = state
		out.Err = ErrNoFiles
		if res.LastErr != nil {
			out.Err = fmt.Errorf("%w: %v", ErrNoFiles, res.LastErr)
		}
		return out
	}
	out.Files = manifest.Clone(res.Files)
	a.observer.OnFiles(manifest.Clone(res.Files))

	a.execMu.Lock()
	if !a.current(op) {
		a.execMu.Unlock()
		return a.cancelled(out)
	}
	phaseCtx, span = startPhaseSpan(ctx, Executing)
	exec := a.runner.Execute(phaseCtx, op.project, out.Files)
	span.End()
	a.execMu.Unlock()

	out.Execution = &exec
	if exec.Kind == runner.Cancelled {
		return a.cancelled(out)
	}
	eval := Evaluate(exec)
	out.Evaluation = &eval

	state, ok = a.update(op, func(s *Session) (State, string) {
		last := exec
		s.LastOutcome = &last
		verdict := eval
		s.Evaluation = &verdict
		if !eval.Success && s.Attempts >= a.maxAttempts {
			return Failed, "Maximum attempts reached"
		}
		return AwaitingFeedback, "Ready for feedback"
	})
	if !ok {
		return a.cancelled(out)
	}
	out.State = state
	if state == Failed {
		out.Err = ErrMaxAttempts
	}
	return out
}

// currentLocked reports whether op still belongs to the live generation.
func (a *Agent) currentLocked(op *operation) bool {
	return a.session != nil && op.gen == a.gen && op.ctx.Err() == nil
}

func (a *Agent) current(op *operation) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentLocked(op)
}

// update applies fn to the session if op is current and moves to the state
// and status it returns.
func (a *Agent) update(op *operation, fn func(s *Session) (State, string)) (State, bool) {
	a.mu.Lock()
	if !a.currentLocked(op) {
		a.mu.Unlock()
		return a.state, false
	}
	state, status := fn(a.session)
	a.state = state
	a.status = status
	a.mu.Unlock()

	a.logger.Logf("Status: %s", status)
	a.observer.OnStatus(status)
	return state, true
}

func (a *Agent) advance(op *operation, state State, status string) (State, bool) {
	return a.update(op, func(*Session) (State, string) { return state, status })
}

func (a *Agent) cancelled(out Outcome) Outcome {
	out.State = a.State()
	out.Err = ErrCancelled
	return out
}

// Snapshot is a copy of the session for display.
type Snapshot struct {
	State       State
	Status      string
	Task        string
	Project     string
	ProjectDir  string
	Model       string
	Attempts    int
	MaxAttempts int
	Files       []manifest.File
	History     []llm.Message
	LastOutcome *runner.Outcome
	Evaluation  *Evaluation
	MainFile    string
	Language    string
	InFlight    []WorkItem
	Busy        bool
}

// Snapshot returns a copy of the current session. Mutating it has no effect
// on the agent.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		State:       a.state,
		Status:      a.status,
		Model:       a.model,
		MaxAttempts: a.maxAttempts,
		InFlight:    a.inflight.List(),
		Busy:        a.solving,
	}
	s := a.session
	if s == nil {
		return snap
	}
	snap.Task = s.Task
	snap.Project = s.Project
	snap.ProjectDir = a.runner.Writer().ProjectDir(s.Project)
	snap.Attempts = s.Attempts
	snap.Files = manifest.Clone(s.Files)
	snap.History = llm.Clone(s.History)
	if s.LastOutcome != nil {
		last := *s.LastOutcome
		last.Write.Written = slices.Clone(last.Write.Written)
		last.Write.Skipped = slices.Clone(last.Write.Skipped)
		snap.LastOutcome = &last
		snap.MainFile = last.MainFile
		snap.Language = last.Language
	}
	if s.Evaluation != nil {
		eval := *s.Evaluation
		snap.Evaluation = &eval
	}
	return snap
}
