package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/backend"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/fields"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/followup"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/models"
	"github.com/LuisRojas0923/Gestor-de-proyectos-Ti-sub000/pkg/validation"
	"github.com/google/uuid"
)

// ErrFieldNameRequired is returned when a dynamic field is set without a name.
var ErrFieldNameRequired = errors.New("dynamic field name is required")

var errNoActivity = errors.New("backend returned no activity")

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithDefaultStage preselects a stage when the wizard opens.
func WithDefaultStage(stageID int) Option {
	return func(s *Session) { s.defaultStageID = stageID }
}

// WithValidator shares a StepValidator between sessions.
func WithValidator(v *validation.StepValidator) Option {
	return func(s *Session) { s.validator = v }
}

// WithSteps replaces the default step definitions.
func WithSteps(steps []Step) Option {
	return func(s *Session) { s.steps = steps }
}

// WithOnCreated registers the callback fired after a successful submission,
// before the session closes.
func WithOnCreated(fn func(activity *models.Activity)) Option {
	return func(s *Session) { s.onCreated = fn }
}

// WithOnClose registers the callback fired once the session is closed.
func WithOnClose(fn func()) Option {
	return func(s *Session) { s.onClose = fn }
}

// Session is one open activity wizard. It owns the form exclusively: every change
// goes through its update operations. All methods are safe for concurrent use.
type Session struct {
	id             string
	developmentID  string
	backend        backend.Backend
	logger         *slog.Logger
	validator      *validation.StepValidator
	steps          []Step
	defaultStageID int
	onCreated      func(activity *models.Activity)
	onClose        func()

	ctx      context.Context
	cancel   context.CancelFunc
	resolver *fields.Resolver
	inflight sync.WaitGroup

	mu         sync.Mutex
	form       models.ActivityForm
	controller *Controller
	stages     []models.Stage
	stagesErr  error
	errors     []string
	loading    bool
	closed     bool
}

// Open starts a wizard for a development: the form gets its defaults, the stage
// list is fetched and the field configuration of the default stage is requested.
// Fetches run in the background; Wait blocks until they resolve.
func Open(ctx context.Context, developmentID string, be backend.Backend, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{
		developmentID: developmentID,
		backend:       be,
		steps:         DefaultSteps(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}

	if s.validator == nil {
		s.validator = validation.New()
	}

	s.logger = logger.With("session_id", s.id, "development_id", developmentID)
	// Background fetches outlive the request that opened the wizard.
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.resolver = fields.NewResolver(s.ctx, be, developmentID, s.logger)
	s.form = models.NewActivityForm(s.defaultStageID)
	s.controller = NewController(s.steps, s.validator, s.state, s.clearErrors)

	s.logger.InfoContext(ctx, "Opening activity wizard", "stage_id", s.form.StageID)

	s.inflight.Add(1)

	go s.fetchStages()

	s.resolver.Select(s.form.StageID)

	return s
}

func (s *Session) fetchStages() {
	defer s.inflight.Done()

	stages, err := s.backend.FetchStages(s.ctx, s.developmentID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if err != nil {
		s.logger.ErrorContext(s.ctx, "Failed to fetch stages", "error", err)
		s.stagesErr = err

		return
	}

	stages = append([]models.Stage{}, stages...)
	models.SortStagesByCode(stages)
	s.stages = stages
	s.stagesErr = nil
}

// state is the controller's view of the form; callers hold s.mu.
func (s *Session) state() validation.State {
	return validation.State{
		Form:   s.form,
		Fields: s.resolver.Config(),
	}
}

// clearErrors runs on every successful step change; callers hold s.mu.
func (s *Session) clearErrors(_, _ int) {
	s.errors = nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// DevelopmentID returns the development the activity is created for.
func (s *Session) DevelopmentID() string {
	return s.developmentID
}

// Wait blocks until the stage list and every field configuration fetch resolved.
func (s *Session) Wait() {
	s.inflight.Wait()
	s.resolver.Wait()
}

func (s *Session) update(fn func(form *models.ActivityForm)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	fn(&s.form)

	return nil
}

// SetStage selects the stage of the activity and reloads its field schema.
// Values already entered in the dynamic payload are kept.
func (s *Session) SetStage(stageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	if s.form.StageID == stageID {
		return nil
	}

	s.form.StageID = stageID
	s.resolver.Select(stageID)

	return nil
}

// SetActivityType updates the activity type.
func (s *Session) SetActivityType(activityType models.ActivityType) error {
	return s.update(func(f *models.ActivityForm) { f.ActivityType = activityType })
}

// SetActorType updates the actor type.
func (s *Session) SetActorType(actorType models.ActorType) error {
	return s.update(func(f *models.ActivityForm) { f.ActorType = actorType })
}

// SetStatus updates the activity status.
func (s *Session) SetStatus(status models.ActivityStatus) error {
	return s.update(func(f *models.ActivityForm) { f.Status = status })
}

// SetStartDate updates the start date.
func (s *Session) SetStartDate(date string) error {
	return s.update(func(f *models.ActivityForm) { f.StartDate = date })
}

// SetEndDate updates the end date; an empty value clears it.
func (s *Session) SetEndDate(date string) error {
	return s.update(func(f *models.ActivityForm) { f.EndDate = date })
}

// SetFollowUp replaces the follow-up configuration.
func (s *Session) SetFollowUp(cfg models.FollowUpConfig) error {
	return s.update(func(f *models.ActivityForm) { f.FollowUp = cfg.Clone() })
}

// SetNotes updates the free-text notes.
func (s *Session) SetNotes(notes string) error {
	return s.update(func(f *models.ActivityForm) { f.Notes = notes })
}

// SetDynamicField stores the value of one dynamic field.
func (s *Session) SetDynamicField(name, value string) error {
	if name == "" {
		return ErrFieldNameRequired
	}

	return s.update(func(f *models.ActivityForm) {
		if f.DynamicPayload == nil {
			f.DynamicPayload = map[string]string{}
		}

		f.DynamicPayload[name] = value
	})
}

// Next advances to the following step if the displayed one validates.
func (s *Session) Next() error {
	return s.navigate(func(c *Controller) error { return c.Next() })
}

// Previous goes back one step; on the first step it does nothing.
func (s *Session) Previous() error {
	return s.navigate(func(c *Controller) error {
		c.Previous()

		return nil
	})
}

// GoTo jumps to a step. Forward jumps require the displayed step to validate.
func (s *Session) GoTo(step int) error {
	return s.navigate(func(c *Controller) error { return c.GoTo(step) })
}

func (s *Session) navigate(move func(c *Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	err := move(s.controller)
	if messages := validation.Messages(err); messages != nil {
		s.errors = messages
	}

	return err
}

// Submit validates every step, computes the follow-up date and creates the
// activity. It first waits, bounded by ctx, for the selected stage's field
// configuration so its required fields are enforced. On success the created
// callback fires and then the session closes. On failure the session stays open
// with its form untouched.
func (s *Session) Submit(ctx context.Context) (*models.Activity, error) {
	for {
		s.mu.Lock()

		if s.closed {
			s.mu.Unlock()

			return nil, ErrSessionClosed
		}

		if s.loading {
			s.mu.Unlock()

			return nil, ErrSubmissionInProgress
		}

		if !s.resolver.Pending() {
			break
		}

		s.mu.Unlock()

		err := s.resolver.WaitSelected(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFieldsLoading, err)
		}
	}

	state := s.state()

	result := s.validator.ValidateAllSteps(state)
	if !result.IsValid {
		s.errors = result.Errors
		s.mu.Unlock()

		return nil, result.Err(0)
	}

	form := state.Form
	payload := models.NewActivityPayload(form, followup.NextFollowUpDate(form.FollowUp, form.StartDate, form.EndDate))

	s.loading = true
	s.errors = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Submitting activity", "stage_id", payload.StageID, "activity_type", payload.ActivityType)

	activity, err := s.backend.SubmitActivity(ctx, s.developmentID, payload)
	if err == nil && activity == nil {
		err = errNoActivity
	}

	s.mu.Lock()
	s.loading = false

	if s.closed {
		s.mu.Unlock()
		s.logger.InfoContext(ctx, "Submission resolved after the wizard was closed", "error", err)

		return nil, ErrSessionClosed
	}

	if err != nil {
		s.errors = []string{SubmissionFailedMessage}
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "Failed to submit activity", "error", err)

		return nil, &SubmissionError{DevelopmentID: s.developmentID, Err: err}
	}

	// Claim the close before releasing the lock so no concurrent Close can fire
	// its callback ahead of the created callback.
	s.closed = true
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Activity created", "activity_id", activity.ID)

	if s.onCreated != nil {
		s.onCreated(activity)
	}

	s.finishClose()

	return activity, nil
}

// Close discards the wizard. Pending fetches and submissions resolve as no-ops.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	s.closed = true
	s.mu.Unlock()

	s.finishClose()
}

func (s *Session) finishClose() {
	s.cancel()
	s.resolver.Close()

	s.mu.Lock()
	s.form = models.NewActivityForm(s.defaultStageID)
	s.errors = nil
	s.stages = nil
	s.mu.Unlock()

	s.logger.Info("Activity wizard closed")

	if s.onClose != nil {
		s.onClose()
	}
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	ID             string                  `json:"id"`
	DevelopmentID  string                  `json:"development_id"`
	CurrentStep    int                     `json:"current_step"`
	History        []int                   `json:"history"`
	Steps          []StepStatus            `json:"steps"`
	CanGoPrevious  bool                    `json:"can_go_previous"`
	IsLastStep     bool                    `json:"is_last_step"`
	Form           models.ActivityForm     `json:"form"`
	Fields         models.StageFieldConfig `json:"fields"`
	FieldsLoading  bool                    `json:"fields_loading"`
	Stages         []models.Stage          `json:"stages"`
	StagesError    string                  `json:"stages_error,omitempty"`
	NextFollowUpAt *string                 `json:"next_follow_up_at,omitempty"`
	Errors         []string                `json:"errors"`
	Loading        bool                    `json:"loading"`
	Closed         bool                    `json:"closed"`
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state()

	snapshot := Snapshot{
		ID:             s.id,
		DevelopmentID:  s.developmentID,
		CurrentStep:    s.controller.Current(),
		History:        s.controller.History(),
		Steps:          s.controller.Steps(),
		CanGoPrevious:  s.controller.CanGoPrevious(),
		IsLastStep:     s.controller.IsLastStep(),
		Form:           state.Form.Clone(),
		Fields:         state.Fields,
		FieldsLoading:  s.resolver.Pending(),
		Stages:         append([]models.Stage{}, s.stages...),
		NextFollowUpAt: followup.NextFollowUpDate(state.Form.FollowUp, state.Form.StartDate, state.Form.EndDate),
		Errors:         append([]string{}, s.errors...),
		Loading:        s.loading,
		Closed:         s.closed,
	}

	if s.stagesErr != nil {
		snapshot.StagesError = fmt.Sprintf("stages could not be loaded: %v", s.stagesErr)
	}

	return snapshot
}

// Form returns a copy of the current form.
func (s *Session) Form() models.ActivityForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.form.Clone()
}

// Errors returns the messages currently displayed for the wizard.
func (s *Session) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.errors...)
}

// Loading reports whether a submission is pending.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Closed reports whether the session was closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
