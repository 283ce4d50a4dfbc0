package core

import (
	"fmt"
	"strings"
	"time"
)

// RenderPolicyDocument produces the plain-text policy handed to the
// customer. The text is free-form and not meant for machine parsing, but
// every structured field of the insurance record must appear in it
// unchanged.
func RenderPolicyDocument(ins Insurance, issued time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "TRAVEL INSURANCE POLICY No. %s\n", ins.PolicyNumber)
	b.WriteString("---------------------------------\n")
	fmt.Fprintf(&b, "Policyholder: %s\n", ins.InsuredName)
	fmt.Fprintf(&b, "Country: %s\n", ins.Country)
	fmt.Fprintf(&b, "Coverage period: %s - %s (%d days)\n", ins.StartDate, ins.EndDate, ins.Days)
	fmt.Fprintf(&b, "Number of insured persons: %d\n", ins.NumberOfPeople)
	b.WriteString("\nInsured persons:\n")
	for i, p := range ins.InsuredPersons {
		fmt.Fprintf(&b, "%d. %s %s %s (date of birth: %s)\n",
			i+1, p.LastName, p.FirstName, p.MiddleName, p.BirthDate)
	}
	b.WriteString("\nCoverage:\n")
	b.WriteString("- Medical expenses: up to 100,000 USD/EUR\n")
	b.WriteString("- COVID-19 treatment: included\n")
	b.WriteString("- Trip cancellation: up to 5,000 USD\n")
	b.WriteString("- Online doctor consultation: 24/7\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total cost: $%.2f", ins.Cost)
	if ins.DiscountApplied {
		b.WriteString(" (corporate discount applied)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Date of issue: %s\n", issued.Format("2006-01-02"))

	return b.String()
}
