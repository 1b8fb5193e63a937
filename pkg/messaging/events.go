package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Certificate lifecycle events
	EventCertificateIssued      = "hr.certificate.issued"
	EventCertificateVerified    = "hr.certificate.verified"
	EventCertificateRevoked     = "hr.certificate.revoked"
	EventCertificateSuspended   = "hr.certificate.suspended"
	EventCertificateReactivated = "hr.certificate.reactivated"
	EventCertificateRenewed     = "hr.certificate.renewed"
	EventCertificateExpiring    = "hr.certificate.expiring"

	// Published when a verification-code lookup resolves to nothing, so
	// probing for valid codes stays visible downstream.
	EventVerificationFailed = "hr.certificate.verification_failed"

	// Employee events
	EventEmployeeCreated = "hr.employee.created"
	EventEmployeeUpdated = "hr.employee.updated"
	EventEmployeeDeleted = "hr.employee.deleted"

	// Batch events
	EventSweepCompleted  = "hr.sweep.completed"
	EventImportCompleted = "hr.import.completed"

	// File events
	EventFileUploaded = "hr.file.uploaded"
	EventFileDeleted  = "hr.file.deleted"
)

// Exchange name for all HR events
const ExchangeHREvents = "hr.events"

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// CertificateEvent is the payload published on certificate lifecycle changes
type CertificateEvent struct {
	CertificateID     string     `json:"certificate_id"`
	CertificateNumber string     `json:"certificate_number"`
	EmployeeID        string     `json:"employee_id"`
	TrainingTypeID    string     `json:"training_type_id"`
	Status            string     `json:"status"`
	ActorID           string     `json:"actor_id,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
}

// VerificationFailedEvent is the payload published when a verification-code
// lookup misses
type VerificationFailedEvent struct {
	Code    string `json:"code"`
	ActorID string `json:"actor_id,omitempty"`
}

// EmployeeEvent is the payload published on employee changes
type EmployeeEvent struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	FullName       string `json:"full_name"`
	DepartmentID   string `json:"department_id,omitempty"`
	ActorID        string `json:"actor_id,omitempty"`
}

// SweepEvent is the payload published after an expiry status sweep
type SweepEvent struct {
	Scanned int `json:"scanned"`
	Changed int `json:"changed"`
}

// ImportEvent is the payload published after a spreadsheet import
type ImportEvent struct {
	Entity   string `json:"entity"`
	Imported int    `json:"imported"`
	Rejected int    `json:"rejected"`
	ActorID  string `json:"actor_id,omitempty"`
}

// FileEvent is the payload published on file attachment changes
type FileEvent struct {
	EmployeeID        string `json:"employee_id"`
	CertificateTypeID string `json:"certificate_type_id"`
	Version           int    `json:"version"`
	Path              string `json:"path"`
	ActorID           string `json:"actor_id,omitempty"`
}
