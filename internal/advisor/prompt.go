package advisor

import (
	"fmt"
	"strings"
)

const promptPreamble = `You are a highly knowledgeable financial advisor specializing in creating personalized investment portfolios. Based on the client's detailed financial profile and the provided mutual funds data in the attached CSV file, generate comprehensive investment recommendations in a structured JSON format that will be used to power an interactive dashboard. The recommendations should include detailed historical performance metrics, risk analysis, and future projections.

### Important Notes:
- **All fields must be populated with calculated values; do not leave any fields null or empty.**
- Perform necessary calculations using the 5 years of NAV data provided in the CSV file.
- Use appropriate financial formulas to compute returns, standard deviation, Sharpe ratio, projections, etc.
- If any data is missing, make reasonable and justifiable estimates based on available information.`

const promptSchema = `### JSON Schema:
{
  "Investment_Actions": [
    {
      "Action": "<Brief, actionable title>",
      "Details": "<Detailed explanation with specific numbers and rationale>",
      "Priority": "<High/Medium/Low>",
      "Timeline": "<Immediate/Short-term/Long-term>",
      "Expected_Impact": "<Quantified impact on portfolio>",
      "Associated_Strategies": ["<List of related diversification strategies>"]
    }
  ],
  "Top_Mutual_Funds": [
    {
      "Fund_Name": "<Full fund name>",
      "Scheme_Code": "<Scheme code>",
      "Fund_House": "<Fund house name>",
      "Scheme_Type": "<Type>",
      "Scheme_Category": "<Category>",
      "Performance_Rating": "<1-5 rating>",
      "Risk_Rating": "<1-5 rating>",
      "Currency": "<Currency code>",
      "Exchange": "<Exchange name>",
      "MIC_Code": "<Market identifier code>",
      "Latest_NAV": "<Current NAV>",
      "Historical_Returns": [
        {"Time_Period": "1Y", "Return_Percentage": "<Calculated 1-year return>"},
        {"Time_Period": "3Y", "Return_Percentage": "<Calculated 3-year return>"},
        {"Time_Period": "5Y", "Return_Percentage": "<Calculated 5-year return>"}
      ],
      "Expense_Ratio": "<Expense ratio of the fund>",
      "AUM": "<Assets Under Management>"
    }
  ],
  "Diversification_Strategies": [
    {
      "Strategy": "<Name of the diversification strategy>",
      "Description": "<Detailed description of the strategy>",
      "Benefits": "<Benefits of implementing this strategy>",
      "Recommended_Allocation": "<Suggested percentage allocation>",
      "Supported_Funds": [
        {
          "Scheme_Code": "<Scheme code>",
          "Fund_Name": "<Full fund name>",
          "Allocation_Percentage": "<Allocation percentage for this fund>",
          "Key_Metrics": {
            "1Y_Return": "<Calculated 1-year return>",
            "3Y_Return": "<Calculated 3-year return>",
            "5Y_Return": "<Calculated 5-year return>",
            "Standard_Deviation": "<Calculated standard deviation of returns>",
            "Sharpe_Ratio": "<Calculated Sharpe ratio>"
          }
        }
      ]
    }
  ],
  "Sample_Investment_Plan": {
    "Initial_Investment": "<Total amount to invest>",
    "Allocation": [
      {
        "Fund_Name": "<Name of the mutual fund>",
        "Scheme_Code": "<Scheme code>",
        "Investment_Amount": "<Amount allocated>",
        "Percentage": "<Allocation percentage>",
        "Projected_Returns": "<Calculated expected returns>",
        "Investment_Strategy": "<Associated diversification strategy>"
      }
    ],
    "Growth_Projection": [
      {
        "Year": "<Year number>",
        "Projected_Value": "<Calculated value based on growth projections>",
        "Best_Case": "<Calculated best case value>",
        "Worst_Case": "<Calculated worst case value>",
        "Expected_Return": "<Calculated return percentage>",
        "CAGR": "<Calculated Compound Annual Growth Rate>"
      }
    ]
  },
  "Market_Trends": [
    {
      "Trend": "<Identified market trend>",
      "Analysis": "<Detailed analysis using data>",
      "Impact": "<Impact on the recommended investments>",
      "Direction": "<Positive/Negative/Neutral>",
      "Confidence": "<High/Medium/Low based on data>",
      "Supporting_Data": [
        {
          "Metric": "<Related metric>",
          "Value": "<Calculated value>",
          "Change": "<Calculated percentage change>",
          "Date": "<Relevant date>"
        }
      ]
    }
  ],
  "Risk_Assessment": [
    {
      "Risk": "<Identified risk>",
      "Category": "<Market/Credit/Liquidity/Operational>",
      "Severity": "<High/Medium/Low>",
      "Probability": "<High/Medium/Low>",
      "Impact_Score": "<Calculated on a scale of 1-10>",
      "Assessment": "<Detailed assessment based on data>",
      "Mitigation_Strategies": "<Specific strategies to mitigate risk>",
      "Associated_Funds": [
        {"Scheme_Code": "<Scheme code>", "Fund_Name": "<Full fund name>"}
      ]
    }
  ],
  "Projected_Outcomes": [
    {
      "Time_Horizon": "<Time frame>",
      "Projected_Return": "<Calculated return percentage>",
      "Details": "<Detailed explanation based on calculations>",
      "Assumptions": "<Any assumptions made during calculations>",
      "Risk_Adjusted_Return": "<Calculated risk-adjusted return percentage>"
    }
  ],
  "Justifications": [
    {
      "Title": "<Title of the justification>",
      "Details": "<Detailed justification for recommendations based on data and calculations>",
      "Associated_Funds": [
        {"Scheme_Code": "<Scheme code>", "Fund_Name": "<Full fund name>"}
      ]
    }
  ]
}`

const promptInstructions = `### Instructions:
1. **Use only the data provided in the CSV file** for mutual fund recommendations and all calculations.
2. **All fields must be filled**; do not leave any fields null or empty.
3. **Calculate** the "1Y_Return", "3Y_Return", and "5Y_Return" using the 5 years of NAV data from the CSV. Use appropriate formulas for CAGR.
4. **Compute** the "Standard_Deviation" and "Sharpe_Ratio" for each fund using the NAV data.
5. Ensure all fund recommendations match the client's risk profile.
6. In 'Supported_Funds' under 'Diversification_Strategies', include both scheme codes and full fund names, and provide detailed key metrics for each fund.
7. Provide multiple diversification strategies (at least three) relevant to the client's profile.
8. Introduce new fields if they offer valuable insights for the dashboard, such as fund expense ratios, AUM, or performance metrics.
9. Provide detailed growth projections with realistic best and worst-case scenarios, including CAGR calculations.
10. Include comprehensive risk assessments with specific mitigation strategies, linking associated funds where applicable.
11. All numerical values must be properly calculated, formatted, and statistically sound.
12. **Do not include placeholders or indicate limitations**; perform all necessary calculations and provide results.
13. The response must be in valid JSON format without any additional text outside the JSON.`

// BuildPrompt renders the single instruction block for the summarization call:
// target schema, numeric-method instructions, and the client profile
// interpolated verbatim. Pure templating; whether the normalizer ever needs to
// backfill depends directly on this being complete.
func BuildPrompt(profile UserProfile) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\n")
	b.WriteString(promptSchema)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "### Client's Financial Profile:\n")
	fmt.Fprintf(&b, "Risk Tolerance: %s\n", profile.RiskTolerance)
	fmt.Fprintf(&b, "Financial Goals: %s\n", strings.Join(profile.FinancialGoals, ", "))
	fmt.Fprintf(&b, "Investment Timeline: %s\n", strings.Join(profile.Timeline, ", "))
	fmt.Fprintf(&b, "Monthly Income: ₹%s\n", profile.Income)
	fmt.Fprintf(&b, "Monthly Expenses: ₹%s\n", profile.Expenses)
	fmt.Fprintf(&b, "Total Savings: ₹%s\n", profile.Savings)
	fmt.Fprintf(&b, "Total Debt: ₹%s\n\n", profile.DebtLevels)
	b.WriteString(promptInstructions)
	return b.String()
}

// ProfileMessage is the free-text message handed to the conversational agent
// for parameter extraction.
func ProfileMessage(profile UserProfile) string {
	return fmt.Sprintf(
		"I am an investor from India with a %s risk tolerance. My financial goals are %s and my investment timeline is %s. My monthly income is %s, expenses are %s, total savings are %s, and I have a total debt of %s.",
		strings.ToLower(profile.RiskTolerance),
		strings.Join(profile.FinancialGoals, ", "),
		strings.Join(profile.Timeline, ", "),
		profile.Income,
		profile.Expenses,
		profile.Savings,
		profile.DebtLevels,
	)
}
