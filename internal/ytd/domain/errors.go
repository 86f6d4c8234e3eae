package domain

import "errors"

var (
	ErrOutOfOrderPeriod    = errors.New("out_of_order_period")
	ErrYearBoundaryCrossed = errors.New("year_boundary_crossed")
	ErrNotFound            = errors.New("not_found")
)
