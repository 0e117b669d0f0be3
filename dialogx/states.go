package dialogx

import (
	"strings"
	"unicode/utf8"
)

// State names one stage of a service-selection dialogue
type State string

const (
	StateIdle            State = "idle"
	StateAwaitService    State = "await_service_pick"
	StateAwaitInsType    State = "await_insurance_type"
	StateInsWaitValue    State = "ins_comp_wait_value"
	StateInsQuoteSent    State = "ins_comp_quote_sent"
	StateInsAwaitDocs    State = "ins_comp_await_docs"
	StateRegAwaitDocs    State = "reg_await_docs"
	StateRegCostConfirm  State = "reg_cost_confirm"
	StateRegSlotPick     State = "reg_slot_pick"
	StateRoadsidePick    State = "rd_pick"
	StateRoadsideSlot    State = "rd_booking_slot"
	StateRoadsideConfirm State = "rd_cost_confirm"
	StateDone            State = "done"
)

// Selection is an interactive reply id. The id namespace is closed and
// globally unique across flows; dispatch is an exhaustive match, never
// a substring search.
type Selection string

const (
	SelMainMenu Selection = "menu"

	SelServiceInsurance    Selection = "svc_insurance"
	SelServiceRegistration Selection = "svc_registration"
	SelServiceRoadside     Selection = "svc_roadside"

	SelInsComprehensive Selection = "ins_comp"
	SelInsThirdParty    Selection = "ins_tpl"
	SelInsAgree         Selection = "ins_agree"
	SelInsDisagree      Selection = "ins_disagree"
	SelInsSwitchTPL     Selection = "ins_switch_tpl"
	SelTPLAgree         Selection = "tpl_agree"
	SelTPLDisagree      Selection = "tpl_disagree"

	SelRegAgree    Selection = "reg_agree"
	SelRegDisagree Selection = "reg_disagree"

	SelSlotMorning Selection = "slot_morning"
	SelSlotEvening Selection = "slot_evening"

	SelRoadsideEmergency Selection = "rd_emergency"
	SelRoadsideBooking   Selection = "rd_booking"
	SelRoadsideAgree     Selection = "rd_agree"
	SelRoadsideDisagree  Selection = "rd_disagree"
)

var knownSelections = map[Selection]struct{}{
	SelMainMenu:            {},
	SelServiceInsurance:    {},
	SelServiceRegistration: {},
	SelServiceRoadside:     {},
	SelInsComprehensive:    {},
	SelInsThirdParty:       {},
	SelInsAgree:            {},
	SelInsDisagree:         {},
	SelInsSwitchTPL:        {},
	SelTPLAgree:            {},
	SelTPLDisagree:         {},
	SelRegAgree:            {},
	SelRegDisagree:         {},
	SelSlotMorning:         {},
	SelSlotEvening:         {},
	SelRoadsideEmergency:   {},
	SelRoadsideBooking:     {},
	SelRoadsideAgree:       {},
	SelRoadsideDisagree:    {},
}

// ParseSelection matches a raw interactive reply id against the closed
// id set, case-insensitively
func ParseSelection(raw string) (Selection, bool) {
	sel := Selection(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := knownSelections[sel]
	return sel, ok
}

// isDocState reports whether the engine is collecting document images
func isDocState(s State) bool {
	return s == StateInsAwaitDocs || s == StateRegAwaitDocs
}

// Keyword sets matched against normalized free text. Disagree phrases
// contain the agree word ("غير موافق"), so disagree must be checked
// first.
var (
	disagreeWords = []string{"غير موافق", "مو موافق", "ارفض", "رفض", "الغاء", "كنسل", "cancel", "no", "لا"}
	agreeWords    = []string{"موافق", "اوافق", "نعم", "تمام", "اوكي", "ok", "okay", "yes", "y"}
	morningWords  = []string{"صباح", "الصباح", "sabah", "am"}
	eveningWords  = []string{"مساء", "المساء", "masa", "pm"}
	greetWords    = []string{"مرحبا", "اهلا", "هلا", "السلام", "سلام", "هاي", "بدايه", "ابدا", "مساعده", "القائمه", "hi", "hello", "hey", "start", "help", "menu"}
)

// containsAny matches a normalized text against a keyword set. Short
// words ("y", "no", "لا") must match a whole token so they cannot fire
// inside unrelated words; everything else matches as a substring, the
// way customers actually type.
func containsAny(text string, words []string) bool {
	tokens := strings.Fields(text)
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 2 {
			for _, tok := range tokens {
				if tok == w {
					return true
				}
			}
			continue
		}
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func isDisagree(text string) bool { return containsAny(text, disagreeWords) }
func isAgree(text string) bool    { return containsAny(text, agreeWords) }
func isMorning(text string) bool  { return containsAny(text, morningWords) }
func isEvening(text string) bool  { return containsAny(text, eveningWords) }
func isGreeting(text string) bool { return containsAny(text, greetWords) }
