package domain

import "time"

// Employee represents an employee of the organization
type Employee struct {
	ID             string  `db:"id" json:"id"`
	EmployeeNumber *string `db:"employee_number" json:"employee_number,omitempty"`

	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     *string `db:"email" json:"email,omitempty"`
	Phone     *string `db:"phone" json:"phone,omitempty"`

	DepartmentID *string   `db:"department_id" json:"department_id,omitempty"`
	Position     *string   `db:"position" json:"position,omitempty"`
	HireDate     time.Time `db:"hire_date" json:"hire_date"`

	// active, inactive, terminated
	EmploymentStatus string     `db:"employment_status" json:"employment_status"`
	TerminationDate  *time.Time `db:"termination_date" json:"termination_date,omitempty"`

	// Background check fields
	BackgroundCheckDate   *time.Time `db:"background_check_date" json:"background_check_date,omitempty"`
	BackgroundCheckStatus *string    `db:"background_check_status" json:"background_check_status,omitempty"`
	BackgroundCheckNotes  *string    `db:"background_check_notes" json:"background_check_notes,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
	CreatedBy *string    `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy *string    `db:"updated_by" json:"updated_by,omitempty"`

	// Joined fields
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// FullName returns the employee's display name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Department is a pure grouping entity
type Department struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TrainingType defines the expiry rule template applied to certificates of
// this type
type TrainingType struct {
	ID       string  `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Code     string  `db:"code" json:"code"`
	Category *string `db:"category" json:"category,omitempty"`

	// ValidityMonths of zero means certificates of this type never expire
	ValidityMonths int  `db:"validity_months" json:"validity_months"`
	WarningDays    int  `db:"warning_days" json:"warning_days"`
	IsMandatory    bool `db:"is_mandatory" json:"is_mandatory"`
	IsRecurrent    bool `db:"is_recurrent" json:"is_recurrent"`

	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveWarningDays returns the configured warning window or the default
func (t *TrainingType) EffectiveWarningDays() int {
	if t == nil || t.WarningDays <= 0 {
		return DefaultWarningDays
	}
	return t.WarningDays
}

// TrainingProvider is attached to certificates for cost/performance analytics
type TrainingProvider struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	AccreditationNumber *string    `db:"accreditation_number" json:"accreditation_number,omitempty"`
	AccreditationExpiry *time.Time `db:"accreditation_expiry" json:"accreditation_expiry,omitempty"`
	ContactPerson       *string    `db:"contact_person" json:"contact_person,omitempty"`
	ContactEmail        *string    `db:"contact_email" json:"contact_email,omitempty"`
	ContractStart       *time.Time `db:"contract_start" json:"contract_start,omitempty"`
	ContractEnd         *time.Time `db:"contract_end" json:"contract_end,omitempty"`
	Rating              *float64   `db:"rating" json:"rating,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// FileVersion is one version of an attachment scoped to an
// (employee, certificate type) pair. Exactly one version per pair is latest.
type FileVersion struct {
	ID                string    `db:"id" json:"id"`
	EmployeeID        string    `db:"employee_id" json:"employee_id"`
	CertificateTypeID string    `db:"certificate_type_id" json:"certificate_type_id"`
	Version           int       `db:"version" json:"version"`
	Path              string    `db:"path" json:"path"`
	Hash              string    `db:"hash" json:"hash"`
	MimeType          string    `db:"mime_type" json:"mime_type"`
	SizeBytes         int64     `db:"size_bytes" json:"size_bytes"`
	OriginalName      string    `db:"original_name" json:"original_name"`
	IsLatest          bool      `db:"is_latest" json:"is_latest"`
	UploadedBy        *string   `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
