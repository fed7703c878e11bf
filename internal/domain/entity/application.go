package entity

import (
	"fmt"

	"github.com/lendcore/loanverify/pkg/utils"
)

// Application holds the applicant data a pipeline run scores. It is
// immutable input: stages read it, nothing writes to it.
type Application struct {
	Name            string  `json:"name" binding:"required,min=2,max=100"`
	Income          float64 `json:"income" binding:"required,gt=0"`
	LoanAmount      float64 `json:"loan_amount" binding:"required,gt=0"`
	ExistingLoans   int     `json:"existing_loans" binding:"gte=0"`
	RepaymentScore  float64 `json:"repayment_score" binding:"gte=0,lte=10"`
	EmploymentYears float64 `json:"employment_years" binding:"gte=0"`
	CompanyName     string  `json:"company_name" binding:"required,min=2,max=100"`
	CollateralValue float64 `json:"collateral_value" binding:"gte=0"`

	// Optional employment verification fields
	ProfileURL        string `json:"profile_url,omitempty"`
	JobTitle          string `json:"job_title,omitempty" binding:"max=100"`
	PreviousEmployers *int   `json:"previous_employers,omitempty" binding:"omitempty,gte=0"`
	EmploymentType    string `json:"employment_type,omitempty"`
	ProfessionalEmail string `json:"professional_email,omitempty"`
}

// Validate checks the range constraints that must hold before the
// pipeline runs. The gin binding tags enforce the same rules at the
// transport boundary; this is the authoritative check for callers that
// construct an Application directly.
func (a *Application) Validate() error {
	if n := len(a.Name); n < 2 || n > 100 {
		return fmt.Errorf("applicant name must be between 2 and 100 characters: %d", n)
	}
	if n := len(a.CompanyName); n < 2 || n > 100 {
		return fmt.Errorf("company name must be between 2 and 100 characters: %d", n)
	}
	if a.Income <= 0 {
		return fmt.Errorf("income must be greater than zero: %.2f", a.Income)
	}
	if a.LoanAmount <= 0 {
		return fmt.Errorf("loan amount must be greater than zero: %.2f", a.LoanAmount)
	}
	if a.ExistingLoans < 0 {
		return fmt.Errorf("existing loans must not be negative: %d", a.ExistingLoans)
	}
	if a.RepaymentScore < 0 || a.RepaymentScore > 10 {
		return fmt.Errorf("repayment score must be between 0 and 10: %.2f", a.RepaymentScore)
	}
	if a.EmploymentYears < 0 {
		return fmt.Errorf("employment years must not be negative: %.2f", a.EmploymentYears)
	}
	if a.CollateralValue < 0 {
		return fmt.Errorf("collateral value must not be negative: %.2f", a.CollateralValue)
	}
	if a.PreviousEmployers != nil && *a.PreviousEmployers < 0 {
		return fmt.Errorf("previous employers must not be negative: %d", *a.PreviousEmployers)
	}
	if a.ProfessionalEmail != "" {
		if err := utils.ValidateEmail(a.ProfessionalEmail); err != nil {
			return err
		}
	}
	return nil
}
