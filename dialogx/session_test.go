package dialogx

import "testing"

func TestMemoryStoreDefaultSession(t *testing.T) {
	store := NewMemoryStore()

	for _, userID := range []string{"966500000001", "15550001111", ""} {
		sess := store.Get(userID)
		if sess.State != StateIdle {
			t.Fatalf("Get(%q).State = %s, want %s", userID, sess.State, StateIdle)
		}
		if sess.Context.BikeValue != nil || sess.Context.Premium != nil ||
			len(sess.Context.Docs) != 0 || sess.Context.PreferredSlot != "" {
			t.Fatalf("Get(%q) returned non-empty context: %+v", userID, sess.Context)
		}
	}
}

func TestMemoryStoreContextMergeIsAdditive(t *testing.T) {
	store := NewMemoryStore()
	user := "966500000001"

	store.Set(user, StateInsWaitValue, WithBikeValue(0), WithSlot(SlotMorning))
	store.Set(user, StateInsQuoteSent, WithBikeValue(80000))

	sess := store.Get(user)
	if sess.State != StateInsQuoteSent {
		t.Fatalf("state = %s, want %s", sess.State, StateInsQuoteSent)
	}
	if sess.Context.BikeValue == nil || *sess.Context.BikeValue != 80000 {
		t.Fatalf("bike value not overridden: %v", sess.Context.BikeValue)
	}
	if sess.Context.PreferredSlot != SlotMorning {
		t.Fatalf("slot did not survive the merge: %q", sess.Context.PreferredSlot)
	}
}

func TestMemoryStoreClearFlow(t *testing.T) {
	store := NewMemoryStore()
	user := "966500000001"

	store.Set(user, StateInsAwaitDocs,
		WithBikeValue(80000),
		WithPremium(3200),
		WithDoc(Attachment{Kind: "image", MediaID: "m1", Label: LabelVehicleForm}),
	)
	store.Set(user, StateAwaitService, ClearFlow())

	sess := store.Get(user)
	if sess.Context.BikeValue != nil || sess.Context.Premium != nil || len(sess.Context.Docs) != 0 {
		t.Fatalf("ClearFlow left context data behind: %+v", sess.Context)
	}
}
