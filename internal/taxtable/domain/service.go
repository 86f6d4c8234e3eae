package domain

// Service exposes read-only access to the statutory tables. All lookups
// are pure; missing data is an explicit error, never a silent zero.
type Service interface {
	FederalBrackets(year int, status FilingStatus) (BracketSchedule, error)
	StandardDeduction(year int, status FilingStatus) (int64, error)
	AllowanceAmount(year int) (int64, error)
	StateBrackets(year int, state StateCode) (BracketSchedule, error)
	LocalBrackets(year int, locality LocalityCode) (BracketSchedule, error)
	FICA(year int) (FICARates, error)
}
