package dialogx

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ServiceID tags the flow a service request came out of
type ServiceID string

const (
	ServiceInsuranceComp     ServiceID = "insurance_comprehensive"
	ServiceInsuranceTPL      ServiceID = "insurance_tpl"
	ServiceRegistration      ServiceID = "registration"
	ServiceRoadsideEmergency ServiceID = "roadside_emergency"
	ServiceRoadsideBooking   ServiceID = "roadside_booking"
)

// RequestStatus is the admin-managed lifecycle of a service request
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusDone       RequestStatus = "done"
	StatusCanceled   RequestStatus = "canceled"
)

// ValidStatus reports whether s is one of the known request statuses
func ValidStatus(s RequestStatus) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// AttachmentList stores attachments as a JSON column in SQL backends
type AttachmentList []Attachment

// Value implements driver.Valuer
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (a *AttachmentList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("cannot scan %T into AttachmentList", src)
}

// ServiceRequest is the durable record of a completed flow. Only Status
// changes after creation, and only through the admin surface.
type ServiceRequest struct {
	ID            string         `json:"id" bson:"_id" db:"id"`
	UserID        string         `json:"user_id" bson:"user_id" db:"user_id"`
	ServiceID     ServiceID      `json:"service_id" bson:"service_id" db:"service_id"`
	ServiceLabel  string         `json:"service_label" bson:"service_label" db:"service_label"`
	BikeValue     *float64       `json:"bike_value,omitempty" bson:"bike_value,omitempty" db:"bike_value"`
	Premium       *int           `json:"premium,omitempty" bson:"premium,omitempty" db:"premium"`
	Price         *int           `json:"price,omitempty" bson:"price,omitempty" db:"price"`
	PreferredSlot Slot           `json:"preferred_slot,omitempty" bson:"preferred_slot,omitempty" db:"preferred_slot"`
	Attachments   AttachmentList `json:"attachments" bson:"attachments" db:"attachments"`
	Status        RequestStatus  `json:"status" bson:"status" db:"status"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at" db:"created_at"`
}

// RequestStore is the engine-facing persistence collaborator. Save
// failures are logged and swallowed; the conversation still completes.
type RequestStore interface {
	Save(ctx context.Context, req ServiceRequest) error
}
