package triage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/healthassist/triage-platform/internal/appointments"
	"github.com/healthassist/triage-platform/internal/observability/metrics"
	"github.com/healthassist/triage-platform/pkg/logging"
)

// ErrUnknownSession is returned when a session ID does not exist or expired.
var ErrUnknownSession = errors.New("triage: unknown session")

// SessionStore persists sessions between turns. Implementations must return
// ErrUnknownSession from Load when the ID is missing.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
}

// AppointmentSaver persists a confirmed appointment and returns its booking ID.
type AppointmentSaver interface {
	Save(ctx context.Context, appt appointments.Appointment) (string, error)
}

// Service is the conversation surface consumed by the HTTP layer.
type Service interface {
	StartSession(ctx context.Context) (*TurnResult, error)
	ProcessMessage(ctx context.Context, sessionID, message string) (*TurnResult, error)
	GetSnapshot(ctx context.Context, sessionID string) (*Snapshot, error)
}

// TurnResult is what one conversation turn hands back to the caller.
type TurnResult struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Engine drives the triage conversation: emergency detection, intent conflict
// resolution, phase transitions, and appointment booking. Turns for the same
// session are serialized by a per-session lock; turns for different sessions
// run concurrently.
type Engine struct {
	llm    LLMClient
	store  SessionStore
	saver  AppointmentSaver
	window WindowConfig
	logger *logging.Logger
	meter  *metrics.TriageMetrics
	tracer trace.Tracer

	modelID     string
	llmTimeout  time.Duration
	temperature float32
	topP        float32
	maxTokens   int32

	locks sync.Map // session ID -> *sync.Mutex
}

var _ Service = (*Engine)(nil)

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithWindowConfig overrides the default context window bounds.
func WithWindowConfig(cfg WindowConfig) EngineOption {
	return func(e *Engine) { e.window = cfg }
}

// WithLLMTimeout bounds each model call.
func WithLLMTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.llmTimeout = d
		}
	}
}

// WithSampling sets the model sampling parameters.
func WithSampling(temperature, topP float32, maxTokens int32) EngineOption {
	return func(e *Engine) {
		e.temperature = temperature
		e.topP = topP
		e.maxTokens = maxTokens
	}
}

// WithModel selects the model forwarded on each request.
func WithModel(modelID string) EngineOption {
	return func(e *Engine) { e.modelID = modelID }
}

// WithMetrics attaches triage metrics. Without it observations are no-ops.
func WithMetrics(m *metrics.TriageMetrics) EngineOption {
	return func(e *Engine) { e.meter = m }
}

// NewEngine builds the orchestration engine. The saver may be nil when no
// appointment persistence is configured; bookings then always take the
// manual-confirmation path.
func NewEngine(llm LLMClient, store SessionStore, saver AppointmentSaver, logger *logging.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		llm:         llm,
		store:       store,
		saver:       saver,
		window:      DefaultWindowConfig(),
		logger:      logger,
		tracer:      otel.Tracer("triage/engine"),
		llmTimeout:  30 * time.Second,
		temperature: 0.3,
		topP:        0.9,
		maxTokens:   1024,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartSession creates a session in the greeting phase and returns the
// opening assistant message.
func (e *Engine) StartSession(ctx context.Context) (*TurnResult, error) {
	ctx, span := e.tracer.Start(ctx, "triage.StartSession")
	defer span.End()

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		State:     StateGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.window.Append(sess, RoleAssistant, GreetingReply)

	if err := e.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("session.id", sess.ID))
	e.logger.Info("session started", "session_id", sess.ID)

	return &TurnResult{SessionID: sess.ID, Reply: GreetingReply, Snapshot: sess.Snapshot()}, nil
}

// GetSnapshot returns the rendering view of a session without advancing it.
func (e *Engine) GetSnapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	mu := e.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

// ProcessMessage runs one full conversation turn.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	ctx, span := e.tracer.Start(ctx, "triage.ProcessMessage",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	mu := e.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return e.result(sess, emptyMessageReply), nil
	}

	// Ended sessions answer with a fixed closing reply and never mutate.
	if sess.State.Terminal() {
		e.locks.Delete(sessionID)
		return e.result(sess, closingReplies[sess.State]), nil
	}

	start := time.Now()
	message = e.window.Truncate(message)
	if MentionsChild(message) {
		sess.Pediatric = true
	}

	sess.TurnCount++
	windowBefore := e.window.WindowSlice(sess.History)
	e.window.Append(sess, RoleUser, message)

	reply := e.advance(ctx, sess, windowBefore, message)
	reply = SanitizeReply(reply)
	e.window.Append(sess, RoleAssistant, reply)
	sess.UpdatedAt = time.Now().UTC()

	if err := e.store.Save(ctx, sess); err != nil {
		// A lost save costs continuity on the next turn, never this reply.
		e.logger.Error("session save failed", "session_id", sess.ID, "error", err)
	}

	// A turn that ends the session is its last; drop the lock entry so
	// finished sessions do not accumulate in the map.
	if sess.State.Terminal() {
		e.locks.Delete(sessionID)
	}

	span.SetAttributes(attribute.String("session.state", string(sess.State)))
	e.meter.ObserveTurn(string(sess.State), time.Since(start).Seconds())
	return e.result(sess, reply), nil
}

// advance applies the turn pipeline and returns the raw reply text. The
// session is mutated in place.
func (e *Engine) advance(ctx context.Context, sess *Session, window []Message, message string) string {
	// Layer one: synchronous keyword scan. A hit escalates immediately,
	// before any model latency, regardless of phase or turn budget.
	if matches := ScanEmergencyKeywords(message); len(matches) > 0 {
		e.escalate(sess, string(matches[0].Category), "keyword")
		return emergencyEscalationReply(matches, sess.Symptoms)
	}

	if e.window.TurnLimitExceeded(sess) {
		sess.State = StateSessionLimit
		return turnLimitReply
	}

	data := e.callModel(ctx, sess, window, message)

	sess.AddSymptoms(data.Symptoms)
	if sev := ParseSeverity(data.Severity); sev == SeverityMild || sev == SeverityModerate {
		sess.Severity = sev
	}
	if dept, ok := KnownDepartment(data.Department); ok && sess.Department == "" {
		sess.Department = dept
	}
	sess.Booking.Merge(data.Collected)

	// Layer two: semantic signals from the model, fused with OR semantics.
	if data.IsEmergency || ParseSeverity(data.Severity) == SeverityCritical {
		e.escalate(sess, "model_flag", "model")
		if data.Reply != "" {
			return data.Reply
		}
		return emergencyEscalationReply(nil, sess.Symptoms)
	}

	res := ResolveIntent(sess.State, ParseIntent(data.Intent))
	switch {
	case res.Conflict && res.ForceState != "":
		if res.PauseBooking && !sess.Booking.Complete() {
			sess.Booking.Paused = true
		}
		return e.enterState(ctx, sess, res.ForceState, data)
	case res.Conflict:
		// Unrelated chatter: hold the phase and let the reply re-ask.
		return data.Reply
	}

	next := State(data.SuggestedState)
	if next == "" || !CanTransition(sess.State, next) {
		if next != "" && next != sess.State {
			e.logger.Warn("rejected state suggestion",
				"session_id", sess.ID, "from", sess.State, "to", next)
		}
		next = sess.State
	}
	return e.enterState(ctx, sess, next, data)
}

// enterState moves the session to next, running that phase's entry actions.
// Entry actions may redirect to a different phase; the returned reply always
// matches the phase the session actually lands in.
func (e *Engine) enterState(ctx context.Context, sess *Session, next State, data ExtractedTurnData) string {
	switch next {
	case StateSeverityAssess:
		// No symptoms on record means there is nothing to assess yet.
		if len(sess.Symptoms) == 0 {
			sess.State = StateSymptomCollection
			return data.Reply
		}

	case StateDepartmentRec:
		// The deterministic router owns the recommendation, whatever the
		// model proposed.
		sess.Department = RouteDepartment(sess.Symptoms, sess.Pediatric)

	case StateCollectingDetails:
		sess.Booking.Paused = false

	case StateBookingConfirm:
		if missing := sess.Booking.Missing(); len(missing) > 0 {
			sess.State = StateCollectingDetails
			return missingFieldsReply(missing)
		}
		return e.book(ctx, sess)
	}

	sess.State = next
	return data.Reply
}

// book constructs and persists the appointment, exactly once per session,
// then completes the conversation. A persistence failure degrades to a
// manual-confirmation reply and still completes the conversation.
func (e *Engine) book(ctx context.Context, sess *Session) string {
	appt := appointments.Appointment{
		PatientName:   sess.Booking.PatientName,
		ContactNumber: sess.Booking.ContactNumber,
		PreferredDate: sess.Booking.PreferredDate,
		PreferredTime: sess.Booking.PreferredTime,
		Department:    string(sess.Department),
		Symptoms:      sess.Symptoms,
		Severity:      string(sess.Severity),
		Summary:       appointments.BuildSummary(sess.Symptoms, string(sess.Severity), string(sess.Department)),
	}
	sess.State = StateCompleted

	if e.saver == nil {
		e.meter.ObserveBooking("unavailable")
		return bookingFallbackReply(appt)
	}

	id, err := e.saver.Save(ctx, appt)
	if err != nil {
		e.logger.Error("appointment save failed", "session_id", sess.ID, "error", err)
		e.meter.ObserveBooking("failed")
		return bookingFallbackReply(appt)
	}

	sess.BookingID = id
	e.meter.ObserveBooking("confirmed")
	e.logger.Info("appointment booked",
		"session_id", sess.ID, "booking_id", id, "department", appt.Department)
	return bookingConfirmedReply(appt, id)
}

// escalate moves the session to the emergency phase. This is the only place
// critical severity is ever assigned, and it discards any pending booking so
// no appointment can follow.
func (e *Engine) escalate(sess *Session, category, source string) {
	sess.State = StateEmergency
	sess.Severity = SeverityCritical
	sess.Booking.Clear()
	e.meter.ObserveEmergency(source, category)
	e.logger.Warn("emergency escalation",
		"session_id", sess.ID, "source", source, "category", category)
}

// callModel runs one bounded model call and parses its structured output.
// Any failure degrades to the safe default rather than surfacing an error.
func (e *Engine) callModel(ctx context.Context, sess *Session, window []Message, message string) ExtractedTurnData {
	ctx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "triage.callModel")
	defer span.End()

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Model:        e.modelID,
		System:       []string{SystemPrompt()},
		Messages:     []ChatMessage{{Role: ChatRoleUser, Content: BuildTurnPrompt(sess, window, message)}},
		MaxTokens:    e.maxTokens,
		Temperature:  e.temperature,
		TopP:         e.topP,
		JSONResponse: true,
	})
	if err != nil {
		e.logger.Error("model call failed", "session_id", sess.ID, "error", err)
		e.meter.ObserveModelFailure()
		return SafeDefaultTurnData()
	}
	return ParseTurnData(resp.Text)
}

func (e *Engine) result(sess *Session, reply string) *TurnResult {
	return &TurnResult{SessionID: sess.ID, Reply: reply, Snapshot: sess.Snapshot()}
}

func (e *Engine) sessionLock(id string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
