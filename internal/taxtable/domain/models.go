// Package domain defines the statutory tax table types.
package domain

// FilingStatus is the federal filing status used for bracket and
// standard-deduction lookups.
type FilingStatus string

const (
	FilingStatusSingle          FilingStatus = "single"
	FilingStatusMarriedJoint    FilingStatus = "married_joint"
	FilingStatusMarriedSeparate FilingStatus = "married_separate"
	FilingStatusHeadOfHousehold FilingStatus = "head_of_household"
)

func (s FilingStatus) Valid() bool {
	switch s {
	case FilingStatusSingle, FilingStatusMarriedJoint, FilingStatusMarriedSeparate, FilingStatusHeadOfHousehold:
		return true
	}
	return false
}

// StateCode is the closed set of states the engine has tables for.
// Unknown codes are rejected with ErrJurisdictionNotSupported; there is
// no silent zero-tax default.
type StateCode string

const (
	StateCA StateCode = "CA"
	StateFL StateCode = "FL"
	StateNY StateCode = "NY"
	StatePA StateCode = "PA"
	StateTX StateCode = "TX"
)

// LocalityCode identifies a local taxing authority within a state.
type LocalityCode string

const (
	LocalityNone LocalityCode = ""
	LocalityNYC  LocalityCode = "NYC"
)

// Jurisdiction is the taxing context for one pay calculation. Federal
// rules always apply; state and locality are looked up from the tables.
type Jurisdiction struct {
	State    StateCode
	Locality LocalityCode
}

// Bracket is one marginal band. CeilingCents == 0 means unbounded.
type Bracket struct {
	FloorCents   int64
	CeilingCents int64
	Rate         float64
}

// BracketSchedule is an ordered set of marginal brackets. An empty
// schedule means the authority levies no income tax.
type BracketSchedule []Bracket

// TaxCents applies the marginal brackets to an annual taxable amount.
func (s BracketSchedule) TaxCents(taxableCents int64) int64 {
	if taxableCents <= 0 {
		return 0
	}

	var tax float64
	for _, b := range s {
		if taxableCents <= b.FloorCents {
			break
		}
		top := taxableCents
		if b.CeilingCents > 0 && top > b.CeilingCents {
			top = b.CeilingCents
		}
		tax += float64(top-b.FloorCents) * b.Rate
	}
	return int64(tax + 0.5)
}

// FICARates holds the payroll-tax figures for one calendar year.
type FICARates struct {
	SocialSecurityRate           float64
	SocialSecurityWageBaseCents  int64
	MedicareRate                 float64
	AdditionalMedicareRate       float64
	AdditionalMedicareFloorCents int64
}
