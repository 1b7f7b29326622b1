package advisor

import (
	"strings"
	"testing"
)

func sampleProfile() UserProfile {
	return UserProfile{
		RiskTolerance:  "Moderate",
		FinancialGoals: []string{"retirement", "child education"},
		Timeline:       []string{"10 years", "15 years"},
		Income:         "150000",
		Expenses:       "60000",
		Savings:        "2000000",
		DebtLevels:     "500000",
	}
}

func TestBuildPromptInterpolatesProfile(t *testing.T) {
	prompt := BuildPrompt(sampleProfile())

	for _, want := range []string{
		"Risk Tolerance: Moderate",
		"Financial Goals: retirement, child education",
		"Investment Timeline: 10 years, 15 years",
		"Monthly Income: ₹150000",
		"Monthly Expenses: ₹60000",
		"Total Savings: ₹2000000",
		"Total Debt: ₹500000",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptNamesEverySection(t *testing.T) {
	prompt := BuildPrompt(sampleProfile())
	for _, key := range RequiredSections {
		if !strings.Contains(prompt, key) {
			t.Fatalf("prompt schema missing section %q", key)
		}
	}
}

func TestProfileMessage(t *testing.T) {
	msg := ProfileMessage(sampleProfile())
	if !strings.Contains(msg, "investor from India") {
		t.Fatalf("message missing jurisdiction: %s", msg)
	}
	if !strings.Contains(msg, "moderate risk tolerance") {
		t.Fatalf("risk tolerance must be lowercased: %s", msg)
	}
	if !strings.Contains(msg, "retirement, child education") {
		t.Fatalf("goals missing: %s", msg)
	}
}
