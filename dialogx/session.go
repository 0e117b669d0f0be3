package dialogx

import "sync"

// Slot is a preferred visit time for booked services
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

// Attachment references one customer-submitted document image. The
// bytes stay in the WhatsApp media store; only the opaque media id is
// kept here.
type Attachment struct {
	Kind    string `json:"kind" bson:"kind"`
	MediaID string `json:"media_id" bson:"media_id"`
	Label   string `json:"label" bson:"label"`
}

// Document labels, in the order the documents are collected.
const (
	LabelVehicleForm   = "vehicle form"
	LabelResidencyCard = "owner's residency card"
)

// Context carries the fields a conversation accumulates across turns.
// Nil pointer fields mean "not collected yet".
type Context struct {
	BikeValue     *float64
	Premium       *int
	Docs          []Attachment
	PreferredSlot Slot
}

// ContextMutator applies a partial update to a session context. Updates
// are additive: a mutator only touches the fields it names, everything
// else survives.
type ContextMutator func(*Context)

// WithBikeValue records the customer's declared bike value
func WithBikeValue(v float64) ContextMutator {
	return func(c *Context) { c.BikeValue = &v }
}

// WithPremium records the computed comprehensive premium
func WithPremium(p int) ContextMutator {
	return func(c *Context) { c.Premium = &p }
}

// WithDoc appends a collected document
func WithDoc(att Attachment) ContextMutator {
	return func(c *Context) { c.Docs = append(c.Docs, att) }
}

// WithSlot records the preferred visit slot
func WithSlot(s Slot) ContextMutator {
	return func(c *Context) { c.PreferredSlot = s }
}

// ClearDocs empties the document queue without touching the rest of
// the context
func ClearDocs() ContextMutator {
	return func(c *Context) { c.Docs = nil }
}

// ClearFlow drops everything a canceled or restarted flow accumulated
func ClearFlow() ContextMutator {
	return func(c *Context) {
		c.BikeValue = nil
		c.Premium = nil
		c.Docs = nil
		c.PreferredSlot = ""
	}
}

// Session is the per-user conversational state. One session exists per
// user id (E.164 digits without "+"); it is never destroyed, only
// overwritten.
type Session struct {
	State   State
	Context Context
}

// SessionStore keeps sessions keyed by user id. Get never fails: an
// unseen user gets a fresh idle session. Implementations must be safe
// for concurrent use; per-user write ordering is the Dispatcher's job.
type SessionStore interface {
	Get(userID string) Session
	Set(userID string, state State, mutators ...ContextMutator)
}

// MemoryStore is the default in-process SessionStore. Sessions do not
// survive a restart; the store is pluggable for deployments that need
// an external backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get returns the user's session, or an idle default for unseen users
func (s *MemoryStore) Get(userID string) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	return Session{State: StateIdle}
}

// Set replaces the state and merges the context mutations into the
// existing session
func (s *MemoryStore) Set(userID string, state State, mutators ...ContextMutator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = Session{State: StateIdle}
	}

	sess.State = state
	for _, m := range mutators {
		m(&sess.Context)
	}

	s.sessions[userID] = sess
}
