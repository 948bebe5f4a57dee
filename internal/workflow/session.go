package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"swadesh-intern/internal/domain/application"
	"swadesh-intern/internal/domain/job"
)

// Identity is the signed-in user as seen by the workflow.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	Verified bool
}

type AppliedLoader interface {
	AppliedJobIDs(ctx context.Context, applicantID string) ([]uuid.UUID, error)
}

// View is what a client renders for one job.
type View struct {
	JobID       uuid.UUID `json:"job_id"`
	State       State     `json:"state"`
	Message     string    `json:"message,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

type flow struct {
	job      job.Job
	variant  Variant
	state    State
	message  string
	inFlight bool
}

func (f *flow) view() View {
	return View{JobID: f.job.ID, State: f.state, Message: f.message}
}

func (f *flow) fire(e Event) error {
	to, err := Next(f.state, e)
	if err != nil {
		return err
	}
	f.state = to
	if e == EventClose {
		f.message = ""
	}
	return nil
}

// Session owns everything the workflow knows about one user: the identity,
// the set of jobs already applied to and one flow per opened job. The
// applied set is reloaded whenever the bound identity changes.
type Session struct {
	mu       sync.Mutex
	identity *Identity
	applied  map[uuid.UUID]struct{}
	flows    map[uuid.UUID]*flow
	lastSeen time.Time
	now      func() time.Time
}

func NewSession() *Session {
	return &Session{
		applied: map[uuid.UUID]struct{}{},
		flows:   map[uuid.UUID]*flow{},
		now:     time.Now,
	}
}

// Bind attaches id to the session. A different user (or a sign-out, id ==
// nil) drops all flows and reloads the applied set from loader.
func (s *Session) Bind(ctx context.Context, id *Identity, loader AppliedLoader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if id == nil {
		s.identity = nil
		s.applied = map[uuid.UUID]struct{}{}
		s.flows = map[uuid.UUID]*flow{}
		return nil
	}

	if s.identity != nil && s.identity.UserID == id.UserID {
		cp := *id
		s.identity = &cp
		return nil
	}

	applied := map[uuid.UUID]struct{}{}
	if loader != nil {
		ids, err := loader.AppliedJobIDs(ctx, id.UserID)
		if err != nil {
			return fmt.Errorf("load applied jobs: %w", err)
		}
		for _, jid := range ids {
			applied[jid] = struct{}{}
		}
	}

	cp := *id
	s.identity = &cp
	s.applied = applied
	s.flows = map[uuid.UUID]*flow{}
	return nil
}

func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) HasApplied(jobID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.applied[jobID]
	return ok
}

// AppliedJobs returns a snapshot of the applied set.
func (s *Session) AppliedJobs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.applied))
	for id := range s.applied {
		out = append(out, id)
	}
	return out
}

// Open starts a job at DETAILS, or at ALREADY_APPLIED when the user has
// applied before. An in-flight submission is left alone.
func (s *Session) Open(j job.Job) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	if f.inFlight {
		return f.view()
	}
	f.state = StateDetails
	f.message = ""
	if _, ok := s.applied[j.ID]; ok && s.identity != nil {
		_ = f.fire(EventAlreadyApplied)
	}
	return f.view()
}

// View reports the current state without changing it.
func (s *Session) View(j job.Job) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flowLocked(j).view()
}

// Apply handles the "Apply" action on the detail view. External jobs never
// enter the machine; the caller receives the redirect URL instead.
func (s *Session) Apply(j job.Job) (View, error) {
	if j.IsExternal() {
		return View{JobID: j.ID, State: StateDetails, RedirectURL: j.ExternalURL()}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	if f.state != StateDetails {
		return f.view(), nil
	}
	if err := f.fire(s.decideLocked(f, false)); err != nil {
		return f.view(), err
	}
	return f.view(), nil
}

// SignedIn continues a flow after the user authenticated from the AUTH step.
func (s *Session) SignedIn(j job.Job) (View, error) {
	return s.afterAuth(j, false)
}

// SignedUp continues a flow after account creation. Boards that require
// verification always stop at VERIFY_PROMPT since a new account is never
// verified yet.
func (s *Session) SignedUp(j job.Job) (View, error) {
	return s.afterAuth(j, true)
}

func (s *Session) afterAuth(j job.Job, fresh bool) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.identity == nil {
		return View{JobID: j.ID, State: StateAuth}, ErrNotAuthenticated
	}

	f := s.flowLocked(j)
	// A session rebuilt after sign-in has no memory of the anonymous
	// DETAILS -> AUTH step.
	if f.state == StateDetails {
		f.state = StateAuth
	}
	if f.state != StateAuth {
		return f.view(), fmt.Errorf("%w: sign-in while in %s", ErrIllegalTransition, f.state)
	}

	if j.IsExternal() {
		_ = f.fire(EventStayOnDetails)
		return f.view(), nil
	}
	if err := f.fire(s.decideLocked(f, fresh)); err != nil {
		return f.view(), err
	}
	return f.view(), nil
}

// CheckVerified re-evaluates VERIFY_PROMPT after the identity was refreshed.
func (s *Session) CheckVerified(j job.Job) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.identity == nil {
		return View{JobID: j.ID, State: StateAuth}, ErrNotAuthenticated
	}
	f := s.flowLocked(j)
	if f.state == StateDetails {
		f.state = StateVerifyPrompt
	}
	if f.state != StateVerifyPrompt {
		return f.view(), fmt.Errorf("%w: verify while in %s", ErrIllegalTransition, f.state)
	}
	if !s.identity.Verified {
		return f.view(), ErrNotVerified
	}
	ev := EventReady
	if _, ok := s.applied[j.ID]; ok {
		ev = EventAlreadyApplied
	}
	if err := f.fire(ev); err != nil {
		return f.view(), err
	}
	return f.view(), nil
}

// Close discards the flow's progress and returns it to DETAILS.
func (s *Session) Close(j job.Job) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	_ = f.fire(EventClose)
	return f.view()
}

func (s *Session) decideLocked(f *flow, freshAccount bool) Event {
	if s.identity == nil {
		return EventNeedAuth
	}
	if _, ok := s.applied[f.job.ID]; ok {
		return EventAlreadyApplied
	}
	if f.variant.RequireVerification && (freshAccount || !s.identity.Verified) {
		return EventNeedVerify
	}
	return EventReady
}

// prepareForm makes sure the flow sits at FORM before a submit. A flow
// still at DETAILS (for example after a restart) is first run through the
// Apply decision.
func (s *Session) prepareForm(j job.Job) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	if f.inFlight {
		return f.view(), ErrSubmissionInFlight
	}
	if f.state == StateDetails {
		if err := f.fire(s.decideLocked(f, false)); err != nil {
			return f.view(), err
		}
	}
	switch f.state {
	case StateForm:
		return f.view(), nil
	case StateAlreadyApplied:
		return f.view(), application.ErrAlreadyApplied
	case StateVerifyPrompt:
		return f.view(), ErrNotVerified
	case StateAuth:
		return f.view(), ErrNotAuthenticated
	default:
		return f.view(), fmt.Errorf("%w: submit while in %s", ErrIllegalTransition, f.state)
	}
}

// beginSubmit moves FORM -> SUBMITTING and marks the flow busy.
func (s *Session) beginSubmit(j job.Job) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	if f.inFlight {
		return f.view(), ErrSubmissionInFlight
	}
	if err := f.fire(EventSubmit); err != nil {
		return f.view(), err
	}
	f.message = ""
	f.inFlight = true
	return f.view(), nil
}

// rejectForm keeps the flow at FORM with an inline message.
func (s *Session) rejectForm(j job.Job, msg string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flowLocked(j)
	f.message = msg
	return f.view()
}

// finishSubmit applies the outcome of a submission. If the flow was closed
// meanwhile only the applied set is updated.
func (s *Session) finishSubmit(j job.Job, ev Event, msg string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	f := s.flowLocked(j)
	f.inFlight = false
	if ev == EventSucceeded || ev == EventAlreadyApplied {
		s.applied[j.ID] = struct{}{}
	}
	if f.state != StateSubmitting {
		return f.view()
	}
	_ = f.fire(ev)
	f.message = msg
	return f.view()
}

func (s *Session) flowLocked(j job.Job) *flow {
	f, ok := s.flows[j.ID]
	if !ok {
		f = &flow{job: j, variant: VariantFor(j.Board), state: StateDetails}
		s.flows[j.ID] = f
		return f
	}
	f.job = j
	return f
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
