// Package requests persists service requests and answers the admin
// queries over them: filtered listing, status updates and CSV export.
// Three Store implementations are provided; the driver is picked by
// configuration.
package requests

import (
	"context"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/storex"
)

// ListOptions narrows and pages a request listing. Zero-valued filters
// are ignored.
type ListOptions struct {
	Page      int
	PageSize  int
	ServiceID dialogx.ServiceID
	Status    dialogx.RequestStatus
	UserID    string
}

func (o ListOptions) pagination() storex.PaginationOptions {
	opts := storex.DefaultPaginationOptions()
	if o.Page > 0 {
		opts.Page = o.Page
	}
	if o.PageSize > 0 {
		opts.PageSize = o.PageSize
	}
	if o.ServiceID != "" {
		opts = opts.WithFilter("service_id", string(o.ServiceID))
	}
	if o.Status != "" {
		opts = opts.WithFilter("status", string(o.Status))
	}
	if o.UserID != "" {
		opts = opts.WithFilter("user_id", o.UserID)
	}
	return opts
}

// Store is the full persistence surface. dialogx needs only Save; the
// admin API uses the rest. Only the status column is mutable after
// creation.
type Store interface {
	Save(ctx context.Context, req dialogx.ServiceRequest) error
	FindByID(ctx context.Context, id string) (dialogx.ServiceRequest, error)
	List(ctx context.Context, opts ListOptions) (storex.Paginated[dialogx.ServiceRequest], error)
	UpdateStatus(ctx context.Context, id string, status dialogx.RequestStatus) error
}
