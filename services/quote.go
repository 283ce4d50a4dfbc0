package services

import (
	"fmt"
	"time"

	"github.com/ohalushka/polis/core"
	"github.com/ohalushka/polis/pkg/crypto"
)

const dateLayout = "2006-01-02"

// QuoteService validates quote requests and runs them through the pricing
// engine. The engine itself never validates; every precondition is gated
// here.
type QuoteService struct {
	pricing  core.PricingConfig
	policies *crypto.PolicyNumberGenerator
	now      func() time.Time
}

func NewQuoteService(pricing core.PricingConfig) *QuoteService {
	gen, err := crypto.NewPolicyNumberGenerator()
	if err != nil {
		// The generator is built on the compiled-in alphabet; a failure
		// here means that constant no longer satisfies its own rules.
		panic(fmt.Sprintf("policy number generator: %v", err))
	}
	return &QuoteService{
		pricing:  pricing,
		policies: gen,
		now:      time.Now,
	}
}

// QuoteParams are the raw quote inputs as they arrive from the form.
type QuoteParams struct {
	Country        string `json:"country"`
	StartDate      string `json:"startDate"` // YYYY-MM-DD
	EndDate        string `json:"endDate"`   // YYYY-MM-DD
	NumberOfPeople int    `json:"numberOfPeople"`
}

// QuoteResult is a priced, discount-aware quote.
type QuoteResult struct {
	Days            int     `json:"days"`
	Cost            float64 `json:"cost"`
	DiscountApplied bool    `json:"discountApplied"`
}

// Quote validates params and prices the trip. corporate selects the
// partner discount.
func (s *QuoteService) Quote(params QuoteParams, corporate bool) (*QuoteResult, error) {
	start, end, err := s.validate(params)
	if err != nil {
		return nil, err
	}

	days := core.TripDays(start, end)
	cost := s.pricing.Price(days, params.NumberOfPeople, corporate)

	return &QuoteResult{
		Days:            days,
		Cost:            cost,
		DiscountApplied: corporate,
	}, nil
}

// IssuePolicy turns a validated quote plus the insured-person list into a
// complete, immutable insurance record with a fresh policy number and the
// rendered document. It does not persist anything; the profile ledger does.
func (s *QuoteService) IssuePolicy(principal *core.Principal, params QuoteParams, persons []core.InsuredPerson) (*core.Insurance, error) {
	if principal == nil {
		return nil, core.ErrNotAuthenticated
	}

	result, err := s.Quote(params, principal.Corporate())
	if err != nil {
		return nil, err
	}

	if len(persons) != params.NumberOfPeople {
		return nil, core.NewValidationError("insuredPersons",
			fmt.Sprintf("expected %d entries, got %d", params.NumberOfPeople, len(persons)))
	}
	for i, p := range persons {
		if p.LastName == "" || p.FirstName == "" || p.BirthDate == "" {
			return nil, core.NewValidationError("insuredPersons",
				fmt.Sprintf("entry %d is incomplete", i+1))
		}
	}

	number, err := s.policies.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate policy number: %w", err)
	}

	ins := core.Insurance{
		PolicyNumber:    number,
		InsuredName:     principal.DisplayName(),
		Country:         params.Country,
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		Days:            result.Days,
		NumberOfPeople:  params.NumberOfPeople,
		InsuredPersons:  persons,
		Cost:            result.Cost,
		DiscountApplied: result.DiscountApplied,
	}
	ins.Document = core.RenderPolicyDocument(ins, s.now())

	return &ins, nil
}

func (s *QuoteService) validate(params QuoteParams) (start, end time.Time, err error) {
	if params.Country == "" {
		return start, end, core.NewValidationError("country", "required")
	}
	if params.StartDate == "" {
		return start, end, core.NewValidationError("startDate", "required")
	}
	if params.EndDate == "" {
		return start, end, core.NewValidationError("endDate", "required")
	}

	start, err = time.Parse(dateLayout, params.StartDate)
	if err != nil {
		return start, end, core.NewValidationError("startDate", "must be YYYY-MM-DD")
	}
	end, err = time.Parse(dateLayout, params.EndDate)
	if err != nil {
		return start, end, core.NewValidationError("endDate", "must be YYYY-MM-DD")
	}

	if params.NumberOfPeople < 1 {
		return start, end, core.NewValidationError("numberOfPeople", "must be at least 1")
	}
	if params.NumberOfPeople > s.pricing.MaxHeadcount {
		return start, end, core.NewValidationError("numberOfPeople",
			fmt.Sprintf("must be at most %d", s.pricing.MaxHeadcount))
	}

	return start, end, nil
}
