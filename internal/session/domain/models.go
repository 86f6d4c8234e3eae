// Package domain contains the generation session state machine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	"gorm.io/datatypes"
)

// SessionStatus is the generation lifecycle. Failed is absorbing; a
// failed session is never resumed, the user starts over.
type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "draft"
	SessionStatusValidated SessionStatus = "validated"
	SessionStatusPreviewed SessionStatus = "previewed"
	SessionStatusOrdered   SessionStatus = "ordered"
	SessionStatusDelivered SessionStatus = "delivered"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusFailed    SessionStatus = "failed"
)

// CanTransition encodes the whole machine. Editing inputs regresses
// previewed and validated sessions back to draft; nothing moves out of
// ordered except delivery or failure.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case SessionStatusDraft:
		return next == SessionStatusValidated || next == SessionStatusCancelled || next == SessionStatusFailed
	case SessionStatusValidated:
		return next == SessionStatusPreviewed || next == SessionStatusDraft || next == SessionStatusCancelled || next == SessionStatusFailed
	case SessionStatusPreviewed:
		return next == SessionStatusOrdered || next == SessionStatusDraft || next == SessionStatusCancelled || next == SessionStatusFailed
	case SessionStatusOrdered:
		return next == SessionStatusDelivered || next == SessionStatusFailed
	}
	return false
}

// Terminal reports whether the session can never move again.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionStatusDelivered, SessionStatusCancelled, SessionStatusFailed:
		return true
	}
	return false
}

// SessionInputs is everything the user supplies. Which fields are
// required depends on the document type; Validate applies the rules.
type SessionInputs struct {
	Employee payrolldomain.EmployeeProfile `json:"employee"`
	Employer payrolldomain.EmployerProfile `json:"employer"`

	// Paystub fields.
	Period          *payrolldomain.PayPeriod     `json:"period,omitempty"`
	Gross           *payrolldomain.GrossPayInput `json:"gross,omitempty"`
	OtherDeductions map[string]int64             `json:"other_deductions,omitempty"`

	// StartNewYear acknowledges a year boundary: the first period of a
	// new year seeds fresh totals instead of being rejected.
	StartNewYear bool `json:"start_new_year,omitempty"`

	// Annual form fields.
	Year                 int   `json:"year,omitempty"`
	NonemployeeCompCents int64 `json:"nonemployee_comp_cents,omitempty"`
	DeductionsCents      int64 `json:"deductions_cents,omitempty"`
	CreditsCents         int64 `json:"credits_cents,omitempty"`
}

// GenerationSession tracks one document through draft to delivery.
type GenerationSession struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	OwnerUserID  string                      `gorm:"column:owner_user_id;type:text;not null;index" json:"owner_user_id"`
	DocumentType documentdomain.DocumentType `gorm:"type:text;not null" json:"document_type"`
	Status       SessionStatus               `gorm:"type:text;not null;default:'draft'" json:"status"`
	Inputs       datatypes.JSON              `gorm:"type:jsonb;not null" json:"inputs"`

	DocumentID       *snowflake.ID `gorm:"index" json:"document_id,omitempty"`
	OrderID          *snowflake.ID `gorm:"index" json:"order_id,omitempty"`
	DeliveryAttempts int           `gorm:"not null;default:0" json:"delivery_attempts"`
	FailureReason    *string       `gorm:"type:text" json:"failure_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (GenerationSession) TableName() string { return "generation_sessions" }
