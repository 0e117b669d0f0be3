package requests

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/errx"
)

func seedRequest(id string, service dialogx.ServiceID, status dialogx.RequestStatus, createdAt time.Time) dialogx.ServiceRequest {
	return dialogx.ServiceRequest{
		ID:        id,
		UserID:    "966512345678",
		ServiceID: service,
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	bikeValue := 80000.0
	premium := 3200
	req := seedRequest("req-1", dialogx.ServiceInsuranceComp, dialogx.StatusNew, time.Now())
	req.BikeValue = &bikeValue
	req.Premium = &premium
	req.Attachments = dialogx.AttachmentList{
		{Kind: "image", MediaID: "media-1", Label: dialogx.LabelVehicleForm},
	}

	if err := store.Save(ctx, req); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.FindByID(ctx, "req-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ServiceID != dialogx.ServiceInsuranceComp || *got.Premium != 3200 {
		t.Fatalf("unexpected request: %+v", got)
	}

	if _, err := store.FindByID(ctx, "missing"); !errx.IsType(err, errx.TypeNotFound) {
		t.Fatalf("missing id error = %v, want not-found", err)
	}
}

func TestMemoryStoreListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seed := []dialogx.ServiceRequest{
		seedRequest("req-1", dialogx.ServiceInsuranceComp, dialogx.StatusNew, base),
		seedRequest("req-2", dialogx.ServiceRegistration, dialogx.StatusNew, base.Add(time.Hour)),
		seedRequest("req-3", dialogx.ServiceRegistration, dialogx.StatusDone, base.Add(2*time.Hour)),
	}
	for _, req := range seed {
		if err := store.Save(ctx, req); err != nil {
			t.Fatalf("save %s: %v", req.ID, err)
		}
	}

	page, err := store.List(ctx, ListOptions{ServiceID: dialogx.ServiceRegistration})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 2 || page.Page.Total != 2 {
		t.Fatalf("service filter returned %d/%d", len(page.Data), page.Page.Total)
	}
	// Newest first
	if page.Data[0].ID != "req-3" || page.Data[1].ID != "req-2" {
		t.Fatalf("unexpected order: %s, %s", page.Data[0].ID, page.Data[1].ID)
	}

	page, err = store.List(ctx, ListOptions{Status: dialogx.StatusDone})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != "req-3" {
		t.Fatalf("status filter returned %+v", page.Data)
	}

	page, err = store.List(ctx, ListOptions{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 1 || page.Page.Pages != 2 {
		t.Fatalf("paging returned %d items over %d pages", len(page.Data), page.Page.Pages)
	}
}

func TestMemoryStoreUpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, seedRequest("req-1", dialogx.ServiceRoadsideEmergency, dialogx.StatusNew, time.Now())); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.UpdateStatus(ctx, "req-1", dialogx.StatusInProgress); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := store.FindByID(ctx, "req-1")
	if got.Status != dialogx.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", got.Status)
	}

	if err := store.UpdateStatus(ctx, "req-1", "archived"); !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("invalid status error = %v, want validation", err)
	}
	if err := store.UpdateStatus(ctx, "missing", dialogx.StatusDone); !errx.IsType(err, errx.TypeNotFound) {
		t.Fatalf("missing id error = %v, want not-found", err)
	}
}

func TestExportCSV(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	price := 150
	req := seedRequest("req-1", dialogx.ServiceRegistration, dialogx.StatusNew, base)
	req.Price = &price
	req.PreferredSlot = dialogx.SlotMorning
	req.Attachments = dialogx.AttachmentList{
		{Kind: "image", MediaID: "media-1", Label: dialogx.LabelVehicleForm},
		{Kind: "image", MediaID: "media-2", Label: dialogx.LabelResidencyCard},
	}
	if err := store.Save(ctx, req); err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportCSV(ctx, store, ListOptions{}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("export produced %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,user_id,service_id") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"req-1", "registration", "150", "morning", "vehicle form:media-1; owner's residency card:media-2", "2026-08-01T12:00:00Z"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row %q missing %q", row, want)
		}
	}
}

func TestExportCSVPagesThroughResults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		req := seedRequest("req-"+string(rune('a'+i)), dialogx.ServiceInsuranceTPL, dialogx.StatusNew, base.Add(time.Duration(i)*time.Minute))
		if err := store.Save(ctx, req); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := ExportCSV(ctx, store, ListOptions{PageSize: 3}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("export produced %d lines, want 8 (header + 7 rows)", len(lines))
	}
}
