// Package dialogx implements the conversation state machine behind the
// Rider Mall WhatsApp bot: per-user sessions, the dialogue engine that
// drives the insurance, registration and roadside-assistance flows,
// and the per-user dispatcher that keeps event processing ordered.
package dialogx

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ridermall/riderbot/logx"
	"github.com/ridermall/riderbot/textx"
)

// EventKind classifies an inbound webhook event
type EventKind string

const (
	KindText        EventKind = "text"
	KindInteractive EventKind = "interactive"
	KindImage       EventKind = "image"
)

// Event is the provider-agnostic shape of one inbound message
type Event struct {
	UserID      string
	Kind        EventKind
	Text        string
	SelectionID string
	MediaID     string
}

// Sender is the outbound messaging collaborator. Delivery failures are
// best-effort: the engine logs and moves on, it never rolls back a
// transition because a reply could not be sent.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, prompt string, buttons []Button) error
	SendList(ctx context.Context, to, prompt string, sections []ListSection) error
}

// Engine decides, for each inbound event, the next session state, the
// replies to send and whether a ServiceRequest gets persisted.
type Engine struct {
	sessions SessionStore
	sender   Sender
	store    RequestStore
	pricing  Pricing
	now      func() time.Time
}

// NewEngine wires the dialogue engine with its collaborators
func NewEngine(sessions SessionStore, sender Sender, store RequestStore, pricing Pricing) *Engine {
	return &Engine{
		sessions: sessions,
		sender:   sender,
		store:    store,
		pricing:  pricing,
		now:      time.Now,
	}
}

// Handle processes one inbound event to completion. Every branch ends
// in a defined state transition and never panics out: validation
// problems become guidance messages, collaborator failures are logged
// and swallowed.
func (e *Engine) Handle(ctx context.Context, ev Event) {
	sess := e.sessions.Get(ev.UserID)

	switch ev.Kind {
	case KindInteractive:
		e.handleSelection(ctx, ev.UserID, sess, ev.SelectionID)
	case KindImage:
		e.handleImage(ctx, ev.UserID, sess, ev.MediaID)
	case KindText:
		e.handleText(ctx, ev.UserID, sess, ev.Text)
	default:
		logx.Warn("dialog: unknown event kind %q from %s", ev.Kind, ev.UserID)
		e.showMenu(ctx, ev.UserID, msgWelcome)
	}
}

// ---------- interactive selections ----------

func (e *Engine) handleSelection(ctx context.Context, userID string, sess Session, rawID string) {
	sel, ok := ParseSelection(rawID)
	if !ok {
		logx.Debug("dialog: unknown selection id %q from %s", rawID, userID)
		e.showMenu(ctx, userID, msgUnknownOption)
		return
	}

	switch sel {
	// Top-level ids work from any state so the customer can always
	// jump back to the menu or switch services mid-flow.
	case SelMainMenu:
		e.showMenu(ctx, userID, msgWelcome)

	case SelServiceInsurance:
		e.sendButtons(ctx, userID, msgInsuranceType, insuranceTypeButtons())
		e.sessions.Set(userID, StateAwaitInsType, ClearFlow())

	case SelServiceRegistration:
		e.sendText(ctx, userID, msgAskVehicleForm)
		e.sessions.Set(userID, StateRegAwaitDocs, ClearFlow())

	case SelServiceRoadside:
		e.sendButtons(ctx, userID, msgRoadsidePick, roadsidePickButtons())
		e.sessions.Set(userID, StateRoadsidePick, ClearFlow())

	case SelInsComprehensive:
		e.sendText(ctx, userID, msgAskBikeValue)
		e.sessions.Set(userID, StateInsWaitValue, ClearFlow())

	case SelInsThirdParty, SelInsSwitchTPL:
		e.sendButtons(ctx, userID, msgTPLQuote(e.pricing.TPL), tplQuoteButtons())
		e.sessions.Set(userID, StateAwaitInsType, ClearFlow())

	case SelInsAgree:
		e.startDocCollection(ctx, userID, StateInsAwaitDocs)

	case SelTPLAgree:
		e.finalize(ctx, userID, sess, ServiceInsuranceTPL)

	case SelRegAgree:
		e.sendButtons(ctx, userID, msgAskSlot, slotButtons())
		e.sessions.Set(userID, StateRegSlotPick)

	case SelSlotMorning, SelSlotEvening:
		slot := SlotMorning
		if sel == SelSlotEvening {
			slot = SlotEvening
		}
		e.handleSlotChoice(ctx, userID, sess, slot)

	case SelRoadsideEmergency:
		e.finalize(ctx, userID, sess, ServiceRoadsideEmergency)

	case SelRoadsideBooking:
		e.sendButtons(ctx, userID, msgAskSlot, slotButtons())
		e.sessions.Set(userID, StateRoadsideSlot)

	case SelRoadsideAgree:
		e.finalize(ctx, userID, sess, ServiceRoadsideBooking)

	case SelInsDisagree, SelTPLDisagree, SelRegDisagree, SelRoadsideDisagree:
		e.cancelFlow(ctx, userID)
	}
}

// handleSlotChoice is the only state-dependent id dispatch: the slot
// ids are shared between the registration and roadside flows.
func (e *Engine) handleSlotChoice(ctx context.Context, userID string, sess Session, slot Slot) {
	switch sess.State {
	case StateRegSlotPick:
		e.sessions.Set(userID, sess.State, WithSlot(slot))
		e.finalize(ctx, userID, e.sessions.Get(userID), ServiceRegistration)
	case StateRoadsideSlot:
		e.sendButtons(ctx, userID, msgRoadsideCost(e.pricing.RoadsideTransport), roadsideCostButtons())
		e.sessions.Set(userID, StateRoadsideConfirm, WithSlot(slot))
	default:
		e.showMenu(ctx, userID, msgUnknownOption)
	}
}

// ---------- media events ----------

func (e *Engine) handleImage(ctx context.Context, userID string, sess Session, mediaID string) {
	if !isDocState(sess.State) {
		// Images outside a document-collection step are ignored on
		// purpose so they cannot derail an unrelated flow.
		logx.Debug("dialog: image from %s ignored in state %s", userID, sess.State)
		return
	}

	if mediaID == "" {
		e.sendText(ctx, userID, msgPhotoNotReceived)
		return
	}

	switch len(sess.Context.Docs) {
	case 0:
		e.sessions.Set(userID, sess.State, WithDoc(Attachment{
			Kind:    "image",
			MediaID: mediaID,
			Label:   LabelVehicleForm,
		}))
		e.sendText(ctx, userID, msgAskResidencyCard)

	case 1:
		e.sessions.Set(userID, sess.State, WithDoc(Attachment{
			Kind:    "image",
			MediaID: mediaID,
			Label:   LabelResidencyCard,
		}))
		e.completeDocCollection(ctx, userID)

	default:
		// Both slots are full; extra images are acknowledged but not
		// appended, so repeats can never grow the queue or persist a
		// duplicate request.
		e.sendText(ctx, userID, msgDocsAlreadyDone)
	}
}

// startDocCollection enters a document-collection state with an empty
// queue. The quote context (bike value, premium) survives so insurance
// finalization can persist it.
func (e *Engine) startDocCollection(ctx context.Context, userID string, state State) {
	e.sendText(ctx, userID, msgAskVehicleForm)
	e.sessions.Set(userID, state, ClearDocs())
}

func (e *Engine) completeDocCollection(ctx context.Context, userID string) {
	sess := e.sessions.Get(userID)

	switch sess.State {
	case StateInsAwaitDocs:
		e.finalize(ctx, userID, sess, ServiceInsuranceComp)
	case StateRegAwaitDocs:
		e.sendButtons(ctx, userID, msgRegCost(e.pricing.RegTransport), regCostButtons())
		e.sessions.Set(userID, StateRegCostConfirm)
	}
}

// ---------- text events ----------

func (e *Engine) handleText(ctx context.Context, userID string, sess Session, raw string) {
	text := textx.Normalize(raw)

	// Stray text during document collection must not abandon the flow.
	if isDocState(sess.State) {
		if len(sess.Context.Docs) == 0 {
			e.sendText(ctx, userID, msgAskVehicleForm)
		} else {
			e.sendText(ctx, userID, msgAskResidencyCard)
		}
		return
	}

	if sess.State == StateInsWaitValue {
		e.handleBikeValue(ctx, userID, text)
		return
	}

	switch sess.State {
	case StateInsQuoteSent:
		if isDisagree(text) {
			e.cancelFlow(ctx, userID)
			return
		}
		if isAgree(text) {
			e.startDocCollection(ctx, userID, StateInsAwaitDocs)
			return
		}

	case StateRegCostConfirm:
		if isDisagree(text) {
			e.cancelFlow(ctx, userID)
			return
		}
		if isAgree(text) {
			e.sendButtons(ctx, userID, msgAskSlot, slotButtons())
			e.sessions.Set(userID, StateRegSlotPick)
			return
		}

	case StateRoadsideConfirm:
		if isDisagree(text) {
			e.cancelFlow(ctx, userID)
			return
		}
		if isAgree(text) {
			e.finalize(ctx, userID, sess, ServiceRoadsideBooking)
			return
		}

	case StateRegSlotPick, StateRoadsideSlot:
		if slot, ok := slotFromText(text); ok {
			e.handleSlotChoice(ctx, userID, sess, slot)
			return
		}
	}

	// Greetings and unmatched text resolve the same way: welcome plus
	// the service list, so a conversation can never dead-end.
	if !isGreeting(text) {
		logx.Trace("dialog: unmatched text from %s in state %s", userID, sess.State)
	}
	e.showMenu(ctx, userID, msgWelcome)
}

func slotFromText(text string) (Slot, bool) {
	switch {
	case isMorning(text):
		return SlotMorning, true
	case isEvening(text):
		return SlotEvening, true
	}
	return "", false
}

func (e *Engine) handleBikeValue(ctx context.Context, userID, text string) {
	value, ok := textx.ParseAmount(text)
	if !ok || value <= 0 {
		e.sendText(ctx, userID, msgBadBikeValue)
		return
	}

	premium := int(math.Round(value * premiumRate))
	e.sessions.Set(userID, StateInsQuoteSent, WithBikeValue(value), WithPremium(premium))
	e.sendButtons(ctx, userID, msgCompQuote(premium), compQuoteButtons())
}

// ---------- finalization ----------

// finalize is the single end of every flow: it builds the
// ServiceRequest from the flow descriptor plus whatever the session
// context accumulated, persists exactly once and parks the session in
// StateDone.
func (e *Engine) finalize(ctx context.Context, userID string, sess Session, service ServiceID) {
	f := flows[service]
	req := e.newRequest(userID, service)

	if f.price != nil {
		price := f.price(e.pricing)
		req.Price = &price
	}
	if f.quoted {
		req.BikeValue = sess.Context.BikeValue
		req.Premium = sess.Context.Premium
	}
	if f.wantsDocs {
		req.Attachments = AttachmentList(sess.Context.Docs)
	}
	if f.wantsSlot {
		req.PreferredSlot = sess.Context.PreferredSlot
	}

	e.persist(ctx, req)
	e.sendText(ctx, userID, f.doneMsg)
	e.sessions.Set(userID, StateDone)
}

func (e *Engine) cancelFlow(ctx context.Context, userID string) {
	e.sessions.Set(userID, StateAwaitService, ClearFlow())
	e.sendText(ctx, userID, msgCanceled)
	e.sendServiceList(ctx, userID)
}

func (e *Engine) newRequest(userID string, service ServiceID) ServiceRequest {
	return ServiceRequest{
		ID:           uuid.NewString(),
		UserID:       userID,
		ServiceID:    service,
		ServiceLabel: flows[service].label,
		Attachments:  AttachmentList{},
		Status:       StatusNew,
		CreatedAt:    e.now().UTC(),
	}
}

func (e *Engine) persist(ctx context.Context, req ServiceRequest) {
	if err := e.store.Save(ctx, req); err != nil {
		// Fire-and-forget persistence: the customer still gets the
		// confirmation, the loss is logged for the operators.
		logx.Error("dialog: save request %s for %s failed: %v", req.ServiceID, req.UserID, err)
	}
}

// ---------- outbound helpers ----------

func (e *Engine) showMenu(ctx context.Context, userID, prompt string) {
	e.sendText(ctx, userID, prompt)
	e.sendServiceList(ctx, userID)
	e.sessions.Set(userID, StateAwaitService)
}

// sendServiceList sends the interactive service list and falls back to
// a reduced button set when the provider rejects the list message.
func (e *Engine) sendServiceList(ctx context.Context, userID string) {
	if err := e.sender.SendList(ctx, userID, msgMenu, serviceListSections()); err != nil {
		logx.Warn("dialog: list send to %s failed, falling back to buttons: %v", userID, err)
		e.sendButtons(ctx, userID, msgMenu, serviceButtons())
	}
}

func (e *Engine) sendText(ctx context.Context, userID, body string) {
	if err := e.sender.SendText(ctx, userID, body); err != nil {
		logx.Error("dialog: text send to %s failed: %v", userID, err)
	}
}

func (e *Engine) sendButtons(ctx context.Context, userID, prompt string, buttons []Button) {
	if err := e.sender.SendButtons(ctx, userID, prompt, buttons); err != nil {
		logx.Error("dialog: buttons send to %s failed: %v", userID, err)
	}
}
