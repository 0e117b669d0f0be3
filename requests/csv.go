package requests

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ridermall/riderbot/dialogx"
)

var csvHeader = []string{
	"id", "user_id", "service_id", "service_label",
	"bike_value", "premium", "price", "preferred_slot",
	"attachments", "status", "created_at",
}

// ExportCSV streams every request matching opts to w, paging through
// the store so the full result set never sits in memory.
func ExportCSV(ctx context.Context, store Store, opts ListOptions, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	if opts.PageSize <= 0 {
		opts.PageSize = 500
	}
	opts.Page = 1

	for {
		page, err := store.List(ctx, opts)
		if err != nil {
			return err
		}
		for _, req := range page.Data {
			if err := cw.Write(csvRow(req)); err != nil {
				return err
			}
		}
		if !page.HasNext() {
			break
		}
		opts.Page++
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(req dialogx.ServiceRequest) []string {
	return []string{
		req.ID,
		req.UserID,
		string(req.ServiceID),
		req.ServiceLabel,
		floatField(req.BikeValue),
		intField(req.Premium),
		intField(req.Price),
		string(req.PreferredSlot),
		attachmentField(req.Attachments),
		string(req.Status),
		req.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// attachmentField renders attachments as "label:media_id" pairs so the
// export stays a flat spreadsheet
func attachmentField(list dialogx.AttachmentList) string {
	out := ""
	for i, a := range list {
		if i > 0 {
			out += "; "
		}
		out += fmt.Sprintf("%s:%s", a.Label, a.MediaID)
	}
	return out
}
