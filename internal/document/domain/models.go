// Package domain contains the generated document model and payloads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"gorm.io/datatypes"
)

// DocumentType enumerates what the engine can produce.
type DocumentType string

const (
	DocumentTypePaystub   DocumentType = "paystub"
	DocumentTypeW2        DocumentType = "w2"
	DocumentType1099Misc  DocumentType = "1099_misc"
	DocumentTypeTaxReturn DocumentType = "tax_return"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypePaystub, DocumentTypeW2, DocumentType1099Misc, DocumentTypeTaxReturn:
		return true
	}
	return false
}

// DocumentStatus is the document lifecycle. A document is frozen once
// ordered; it may not be delivered without being ordered first.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPreviewed DocumentStatus = "previewed"
	DocumentStatusOrdered   DocumentStatus = "ordered"
	DocumentStatusDelivered DocumentStatus = "delivered"
)

// GeneratedDocument stores an assembled payload for one owner. The
// payload is served as-is on later reads; nothing is recomputed at
// listing time.
type GeneratedDocument struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	OwnerUserID string         `gorm:"column:owner_user_id;type:text;not null;index"`
	Type        DocumentType   `gorm:"type:text;not null"`
	Status      DocumentStatus `gorm:"type:text;not null;default:'draft'"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	ArtifactURI *string        `gorm:"type:text"`
	DeliveredAt *time.Time     `gorm:""`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GeneratedDocument) TableName() string { return "generated_documents" }

// Line is one labeled amount on a rendered document.
type Line struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amount_cents"`
}

// PaystubPayload is the print field set for one pay period.
type PaystubPayload struct {
	Employee payrolldomain.EmployeeProfile `json:"employee"`
	Employer payrolldomain.EmployerProfile `json:"employer"`
	Period   payrolldomain.PayPeriod       `json:"period"`

	Earnings   []Line `json:"earnings"`
	Deductions []Line `json:"deductions"`
	YtdLines   []Line `json:"ytd_lines"`

	GrossCents int64 `json:"gross_cents"`
	NetCents   int64 `json:"net_cents"`
}

// W2Payload carries the standard W-2 box values for one year.
type W2Payload struct {
	Year     int                           `json:"year"`
	Employee payrolldomain.EmployeeProfile `json:"employee"`
	Employer payrolldomain.EmployerProfile `json:"employer"`

	// Box 3 is capped at the social security wage base for the year.
	Box1WagesCents             int64 `json:"box1_wages_cents"`
	Box2FederalWithheldCents   int64 `json:"box2_federal_withheld_cents"`
	Box3SocialSecurityWages    int64 `json:"box3_social_security_wages_cents"`
	Box4SocialSecurityWithheld int64 `json:"box4_social_security_withheld_cents"`
	Box5MedicareWagesCents     int64 `json:"box5_medicare_wages_cents"`
	Box6MedicareWithheldCents  int64 `json:"box6_medicare_withheld_cents"`
	Box16StateWagesCents       int64 `json:"box16_state_wages_cents"`
	Box17StateWithheldCents    int64 `json:"box17_state_withheld_cents"`
	Box18LocalWagesCents       int64 `json:"box18_local_wages_cents"`
	Box19LocalWithheldCents    int64 `json:"box19_local_withheld_cents"`
}

// Form1099Payload is nonemployee compensation for one year. Contractors
// are not subject to employer withholding in this model, so there are no
// withholding fields.
type Form1099Payload struct {
	Year      int                           `json:"year"`
	Payer     payrolldomain.EmployerProfile `json:"payer"`
	Recipient payrolldomain.EmployeeProfile `json:"recipient"`

	NonemployeeCompCents int64 `json:"nonemployee_comp_cents"` // box 1
}

// TaxReturnPayload is a summary projection, not a filed return.
type TaxReturnPayload struct {
	Year     int                           `json:"year"`
	Taxpayer payrolldomain.EmployeeProfile `json:"taxpayer"`

	TotalIncomeCents   int64 `json:"total_income_cents"`
	TotalWithheldCents int64 `json:"total_withheld_cents"`
	DeductionsCents    int64 `json:"deductions_cents"`
	CreditsCents       int64 `json:"credits_cents"`
	TaxableIncomeCents int64 `json:"taxable_income_cents"`
	EstimatedTaxCents  int64 `json:"estimated_tax_cents"`
	RefundCents        int64 `json:"refund_cents"`
	OwedCents          int64 `json:"owed_cents"`
}

// W2Inputs requires a full year of totals (or explicit year-end totals).
type W2Inputs struct {
	Employee payrolldomain.EmployeeProfile
	Employer payrolldomain.EmployerProfile
	Totals   ytddomain.YtdTotals
}

type PaystubInputs struct {
	Employee payrolldomain.EmployeeProfile
	Employer payrolldomain.EmployerProfile
	Period   payrolldomain.PayPeriod
	Gross    payrolldomain.GrossPayInput
	Result   payrolldomain.WithholdingResult
	Totals   ytddomain.YtdTotals
}

type Form1099Inputs struct {
	Payer                payrolldomain.EmployerProfile
	Recipient            payrolldomain.EmployeeProfile
	Year                 int
	NonemployeeCompCents int64
}

type TaxReturnInputs struct {
	Taxpayer        payrolldomain.EmployeeProfile
	Year            int
	W2s             []W2Payload
	Form1099s       []Form1099Payload
	DeductionsCents int64
	CreditsCents    int64
}
