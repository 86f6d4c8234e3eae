package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
)

// GetTaxTables exposes the statutory figures for one year so clients can
// show estimates before starting a session.
func (s *Server) GetTaxTables(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	status := taxdomain.FilingStatus(c.DefaultQuery("filing_status", string(taxdomain.FilingStatusSingle)))
	if !status.Valid() {
		AbortWithError(c, taxdomain.ErrInvalidFilingStatus)
		return
	}

	federal, err := s.tablesSvc.FederalBrackets(year, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	deduction, err := s.tablesSvc.StandardDeduction(year, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	fica, err := s.tablesSvc.FICA(year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{
		"year":                     year,
		"filing_status":            status,
		"federal_brackets":         federal,
		"standard_deduction_cents": deduction,
		"fica": gin.H{
			"social_security_rate":            fica.SocialSecurityRate,
			"social_security_wage_base_cents": fica.SocialSecurityWageBaseCents,
			"medicare_rate":                   fica.MedicareRate,
			"additional_medicare_rate":        fica.AdditionalMedicareRate,
			"additional_medicare_floor_cents": fica.AdditionalMedicareFloorCents,
		},
	}

	if state := c.Query("state"); state != "" {
		brackets, err := s.tablesSvc.StateBrackets(year, taxdomain.StateCode(state))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		resp["state_brackets"] = brackets
	}

	c.JSON(http.StatusOK, resp)
}
