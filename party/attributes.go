// Package party implements the finance history of one political organization
// on top of the generic synthesis engine: its columns, the band tables and
// year lists that shape them, and the historical events overlaid on them.
package party

import "github.com/warp/partyfin/generic"

// =============================================================================
// ATTRIBUTES - Fixed column set, in table order
// =============================================================================

const (
	// Organization
	Members                 generic.Attribute = "members"
	DepartmentalFederations generic.Attribute = "departmental_federations"
	LocalOfficials          generic.Attribute = "local_officials"
	NationalSeats           generic.Attribute = "national_seats"
	PresidentialScore       generic.Attribute = "presidential_score"

	// Revenue, M€
	RevenueTotal   generic.Attribute = "revenue_total"
	MembershipFees generic.Attribute = "membership_fees"
	SmallDonations generic.Attribute = "small_donations"
	LargeDonations generic.Attribute = "large_donations"
	PublicFunding  generic.Attribute = "public_funding"
	EventRevenue   generic.Attribute = "event_revenue"
	Loans          generic.Attribute = "loans"
	ForeignAid     generic.Attribute = "foreign_aid"

	// Expenses, M€
	ExpensesTotal         generic.Attribute = "expenses_total"
	StaffExpenses         generic.Attribute = "staff_expenses"
	CampaignExpenses      generic.Attribute = "campaign_expenses"
	CommunicationExpenses generic.Attribute = "communication_expenses"
	LegalExpenses         generic.Attribute = "legal_expenses"
	OperatingExpenses     generic.Attribute = "operating_expenses"
	LoanRepayments        generic.Attribute = "loan_repayments"

	// Indicators
	BudgetExecutionRate     generic.Attribute = "budget_execution_rate"
	MembershipRevenueRatio  generic.Attribute = "membership_revenue_ratio"
	PublicFundingDependency generic.Attribute = "public_funding_dependency"
	FinancialBalance        generic.Attribute = "financial_balance"
	Debt                    generic.Attribute = "debt"
	LegalExpenseRatio       generic.Attribute = "legal_expense_ratio"

	// Strategic investments, M€
	CommunicationInvestment generic.Attribute = "communication_investment"
	DigitalInvestment       generic.Attribute = "digital_investment"
	TrainingInvestment      generic.Attribute = "training_investment"
	InternationalInvestment generic.Attribute = "international_investment"
)

func info(name generic.Attribute, label string, unit generic.Unit, c generic.Category) generic.AttributeInfo {
	return generic.AttributeInfo{Name: name, Label: label, Unit: unit, Category: c, Sign: generic.SignMagnitude}
}

// Attributes returns the metadata of every column in table order.
// Financial balance is the only signed column.
func Attributes() []generic.AttributeInfo {
	balance := info(FinancialBalance, "Financial balance (share of budget)", generic.UnitRatio, generic.CategoryIndicator)
	balance.Sign = generic.SignSigned

	return []generic.AttributeInfo{
		info(Members, "Members", generic.UnitPeople, generic.CategoryOrganization),
		info(DepartmentalFederations, "Departmental federations", generic.UnitCount, generic.CategoryOrganization),
		info(LocalOfficials, "Local elected officials", generic.UnitCount, generic.CategoryOrganization),
		info(NationalSeats, "National seats", generic.UnitSeats, generic.CategoryOrganization),
		info(PresidentialScore, "Presidential score", generic.UnitPercent, generic.CategoryOrganization),

		info(RevenueTotal, "Total revenue", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(MembershipFees, "Membership fees", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(SmallDonations, "Small donations", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(LargeDonations, "Large donations", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(PublicFunding, "Public funding", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(EventRevenue, "Event revenue", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(Loans, "Loans", generic.UnitMillionEUR, generic.CategoryRevenue),
		info(ForeignAid, "Foreign aid", generic.UnitMillionEUR, generic.CategoryRevenue),

		info(ExpensesTotal, "Total expenses", generic.UnitMillionEUR, generic.CategoryExpense),
		info(StaffExpenses, "Staff", generic.UnitMillionEUR, generic.CategoryExpense),
		info(CampaignExpenses, "Campaigns", generic.UnitMillionEUR, generic.CategoryExpense),
		info(CommunicationExpenses, "Communication", generic.UnitMillionEUR, generic.CategoryExpense),
		info(LegalExpenses, "Legal", generic.UnitMillionEUR, generic.CategoryExpense),
		info(OperatingExpenses, "Operating", generic.UnitMillionEUR, generic.CategoryExpense),
		info(LoanRepayments, "Loan repayments", generic.UnitMillionEUR, generic.CategoryExpense),

		info(BudgetExecutionRate, "Budget execution rate", generic.UnitRatio, generic.CategoryIndicator),
		info(MembershipRevenueRatio, "Membership fees / revenue", generic.UnitRatio, generic.CategoryIndicator),
		info(PublicFundingDependency, "Public funding dependency", generic.UnitRatio, generic.CategoryIndicator),
		balance,
		info(Debt, "Debt", generic.UnitMillionEUR, generic.CategoryIndicator),
		info(LegalExpenseRatio, "Legal expenses / budget", generic.UnitRatio, generic.CategoryIndicator),

		info(CommunicationInvestment, "Communication investment", generic.UnitMillionEUR, generic.CategoryInvestment),
		info(DigitalInvestment, "Digital investment", generic.UnitMillionEUR, generic.CategoryInvestment),
		info(TrainingInvestment, "Training investment", generic.UnitMillionEUR, generic.CategoryInvestment),
		info(InternationalInvestment, "International investment", generic.UnitMillionEUR, generic.CategoryInvestment),
	}
}

// Register all party columns with the generic registry
func init() {
	for _, a := range Attributes() {
		generic.RegisterAttribute(a)
	}
}

// =============================================================================
// PROFILE
// =============================================================================

const (
	FirstYear   generic.Year = 1972 // founding
	LastYear    generic.Year = 2025
	RenamedYear generic.Year = 2018
)

// DefaultBases are the reference scalars: 50,000 members and an 8 M€ budget.
var DefaultBases = generic.Bases{Members: 50000, Budget: 8}

// Profile describes the organization for report headers.
type Profile struct {
	Name           string       `json:"name"`
	Founded        generic.Year `json:"founded"`
	Renamed        generic.Year `json:"renamed"`
	Orientation    string       `json:"orientation"`
	Electorate     []string     `json:"electorate"`
	FundingSources []string     `json:"funding_sources"`
	Specificities  []string     `json:"specificities"`
}

// Reference is the profile the default model describes.
func Reference() Profile {
	return Profile{
		Name:           "Front National / Rassemblement National",
		Founded:        FirstYear,
		Renamed:        RenamedYear,
		Orientation:    "far right",
		Electorate:     []string{"workers", "working class", "rural voters", "patriots"},
		FundingSources: []string{"membership fees", "small donations", "public funding", "loans", "events"},
		Specificities:  []string{"controlled financing", "banking difficulties", "small-donor support"},
	}
}

// DefaultConfig is the reference run: 1972-2025, seed 42, reference bases.
func DefaultConfig() generic.Config {
	return generic.Config{Start: FirstYear, End: LastYear, Seed: 42, Bases: DefaultBases}
}
