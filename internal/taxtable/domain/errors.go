package domain

import "errors"

var (
	ErrJurisdictionNotSupported = errors.New("jurisdiction_not_supported")
	ErrYearNotSupported         = errors.New("year_not_supported")
	ErrInvalidFilingStatus      = errors.New("invalid_filing_status")
)
