package requests

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ridermall/riderbot/dialogx"
	"github.com/ridermall/riderbot/errx"
	"github.com/ridermall/riderbot/storex"
)

// Schema for the service_requests table. Attachments are stored as a
// JSONB column through dialogx.AttachmentList's Valuer/Scanner.
const Schema = `
CREATE TABLE IF NOT EXISTS service_requests (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	service_id     TEXT NOT NULL,
	service_label  TEXT NOT NULL DEFAULT '',
	bike_value     DOUBLE PRECISION,
	premium        INTEGER,
	price          INTEGER,
	preferred_slot TEXT NOT NULL DEFAULT '',
	attachments    JSONB NOT NULL DEFAULT '[]',
	status         TEXT NOT NULL DEFAULT 'new',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS service_requests_status_idx ON service_requests (status);
CREATE INDEX IF NOT EXISTS service_requests_user_idx ON service_requests (user_id);
`

var insertColumns = []string{
	"id", "user_id", "service_id", "service_label",
	"bike_value", "premium", "price", "preferred_slot",
	"attachments", "status", "created_at",
}

// PostgresStore is the sqlx-backed Store implementation, selected with
// STORE_DRIVER=postgres
type PostgresStore struct {
	table *storex.TypedSQL[dialogx.ServiceRequest]
}

// NewPostgresStore creates a store over the given database handle
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		table: storex.NewTypedSQL[dialogx.ServiceRequest](db, "service_requests"),
	}
}

// EnsureSchema creates the table and indexes when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.table.DB.ExecContext(ctx, Schema)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, req dialogx.ServiceRequest) error {
	return s.table.Insert(ctx, req, insertColumns)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (dialogx.ServiceRequest, error) {
	return s.table.FindByID(ctx, id)
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) (storex.Paginated[dialogx.ServiceRequest], error) {
	return s.table.Paginate(ctx, opts.pagination())
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status dialogx.RequestStatus) error {
	if !dialogx.ValidStatus(status) {
		return errx.New("unknown request status "+string(status), errx.TypeValidation)
	}
	return s.table.UpdateColumn(ctx, id, "status", string(status))
}
