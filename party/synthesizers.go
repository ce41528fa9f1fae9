/*
synthesizers.go - One synthesizer per column

PURPOSE:
  Configures the generic Curve, Compound and Discrete synthesizers with the
  organization's band tables, year lists and noise levels. Nothing here
  computes anything; the numbers are the model.

SHAPES:
  - positional growth:  members, revenue, fees, donations, most expenses
  - anchored growth:    event revenue, communication, repayments, investments
  - flat level bands:   execution rate, ratios, dependency
  - compounding level:  debt
  - literal results:    national seats, presidential score

BASES:
  Money columns are shares of the budget base (M€). Organization columns
  are shares of the members base, so the reference 50,000 members gives 20
  federations and 100 local officials in 1972 before growth.

SEE ALSO:
  - generic/curve.go: Curve, Positional, Anchored
  - generic/series.go: Compound, Discrete
  - calendar.go: Year lists
*/
package party

import "github.com/warp/partyfin/generic"

// bands builds a table whose default repeats the last band.
func bands(name string, bs ...generic.Band) generic.BandTable {
	return generic.BandTable{Name: name, Bands: bs, Default: bs[len(bs)-1].Value}
}

func positional(per float64, rates generic.BandTable) generic.Positional {
	return generic.Positional{Rates: rates, Per: per}
}

func steady(name string, rate, per float64) generic.Positional {
	return generic.Positional{Rates: generic.Constant(name, rate), Per: per}
}

func anchored(from generic.Year, rate float64) generic.Anchored {
	return generic.Anchored{From: from, Rate: rate}
}

// level is a flat curve whose value comes from a band table.
func level(sigma float64, t generic.BandTable) generic.Curve {
	return generic.Curve{Base: generic.Absolute(1), Multipliers: []generic.Multiplier{t}, Sigma: sigma}
}

// =============================================================================
// ORGANIZATION
// =============================================================================

func membersSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfMembers(1),
		Growth: positional(4, bands("members.growth",
			generic.Between(1972, 1980, 0.05), // difficult beginnings
			generic.Between(1981, 1987, 0.15), // electoral breakthrough
			generic.Between(1988, 1994, 0.08), // consolidation
			generic.Between(1995, 2001, 0.12),
			generic.Between(2002, 2006, 0.20), // after the 2002 second round
			generic.Between(2007, 2010, 0.06),
			generic.Between(2011, 2016, 0.25), // new leadership
			generic.Between(2017, 2021, 0.10),
			generic.Since(2022, 0.08),
		)),
		Sigma: 0.10,
	}
}

func federationsSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfMembers(20.0 / 50000),
		Growth: positional(5, bands("departmental_federations.growth",
			generic.Upto(1980, 0.08),
			generic.Between(1981, 2000, 0.12),
			generic.Between(2001, 2010, 0.06),
			generic.Since(2011, 0.10),
		)),
	}
}

func localOfficialsSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfMembers(100.0 / 50000),
		Growth: positional(6, bands("local_officials.growth",
			generic.Upto(1990, 0.15),
			generic.Between(1991, 2010, 0.20),
			generic.Since(2011, 0.25),
		)),
		Multipliers: []generic.Multiplier{generic.YearSet{
			Name: "local_officials.municipal",
			Tiers: []generic.Tier{
				{Label: "municipal to 1995", Years: filter(MunicipalYears, generic.Span(generic.MinYear, 1995)), Factor: 1.3},
				{Label: "municipal 1996-2010", Years: filter(MunicipalYears, generic.Span(1996, 2010)), Factor: 1.8},
				{Label: "municipal from 2011", Years: filter(MunicipalYears, generic.Span(2011, generic.MaxYear)), Factor: 2.2},
			},
			Default: 1,
		}},
		Sigma: 0.15,
	}
}

// Seats are legislative results plus three European seats per European
// election year.
func nationalSeatsSynth() generic.Synthesizer {
	european := generic.YearValues{Name: "european", Values: map[generic.Year]float64{}}
	for _, y := range EuropeanYears {
		european.Values[y] = 3
	}
	return generic.Discrete{Results: []generic.YearValues{
		{Name: "legislative", Values: map[generic.Year]float64{
			1973: 0, 1978: 0, 1981: 0, 1986: 35, 1988: 1, 1993: 0,
			1997: 1, 2002: 0, 2007: 0, 2012: 2, 2017: 8, 2022: 89,
		}},
		european,
	}}
}

func presidentialScoreSynth() generic.Synthesizer {
	return generic.Discrete{Results: []generic.YearValues{
		{Name: "presidential", Values: map[generic.Year]float64{
			1974: 0.5, 1981: 0, 1988: 14.4, 1995: 15.0, 2002: 16.9,
			2007: 10.4, 2012: 17.9, 2017: 21.3, 2022: 41.5,
		}},
	}}
}

// =============================================================================
// REVENUE
// =============================================================================

func revenueTotalSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfBudget(1),
		Growth: positional(4, bands("revenue_total.growth",
			generic.Between(1972, 1980, 0.08),
			generic.Between(1981, 1987, 0.20),
			generic.Between(1988, 1994, 0.12),
			generic.Between(1995, 2001, 0.15),
			generic.Between(2002, 2006, 0.25),
			generic.Between(2007, 2010, 0.10),
			generic.Between(2011, 2016, 0.30),
			generic.Between(2017, 2021, 0.18),
			generic.Since(2022, 0.22),
		)),
		Sigma: 0.12,
	}
}

func membershipFeesSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfBudget(0.20),
		Growth: positional(5, bands("membership_fees.growth",
			generic.Upto(1990, 0.10),
			generic.Between(1991, 2010, 0.15),
			generic.Since(2011, 0.20),
		)),
		Sigma: 0.10,
	}
}

func smallDonationsSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.35),
		Growth: steady("small_donations.growth", 0.08, 3),
		Multipliers: []generic.Multiplier{
			bands("small_donations.level",
				generic.Upto(1990, 0.8),
				generic.Between(1991, 2010, 1.2),
				generic.Since(2011, 1.5),
			),
			generic.Special("presidential", 2.0, PresidentialYears...),
		},
		Sigma: 0.18,
	}
}

func largeDonationsSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.05),
		Growth: steady("large_donations.growth", 0.03, 4),
		Multipliers: []generic.Multiplier{bands("large_donations.level",
			generic.Upto(2000, 0.3),
			generic.Between(2001, 2010, 0.5),
			generic.Since(2011, 0.7),
		)},
		Sigma: 0.25,
	}
}

// Public funding follows electoral results, hence the seat-driven jump
// after 2020.
func publicFundingSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.25),
		Growth: steady("public_funding.growth", 0.05, 4),
		Multipliers: []generic.Multiplier{bands("public_funding.level",
			generic.Upto(1985, 0.1),
			generic.Between(1986, 2000, 0.4),
			generic.Between(2001, 2010, 0.6),
			generic.Between(2011, 2020, 0.8),
			generic.Since(2021, 1.2),
		)},
		Sigma: 0.15,
	}
}

func eventRevenueSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.08), Growth: anchored(1990, 0.06), Sigma: 0.14}
}

func loansSynth() generic.Synthesizer {
	return generic.Curve{
		Base:        generic.OfBudget(0.15),
		Growth:      steady("loans.growth", 0.04, 4),
		Multipliers: []generic.Multiplier{generic.Special("borrowing", 3.0, BorrowingYears...)},
		Sigma:       0.30,
	}
}

func foreignAidSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.02),
		Growth: steady("foreign_aid.growth", 0.01, 4),
		Multipliers: []generic.Multiplier{generic.YearSet{
			Name:    "foreign_aid.loans",
			Tiers:   []generic.Tier{{Label: "foreign loans", Years: ForeignLoanYears, Factor: 2.5}},
			Default: 0.5,
		}},
		Sigma: 0.40,
	}
}

// =============================================================================
// EXPENSES
// =============================================================================

func expensesTotalSynth() generic.Synthesizer {
	return generic.Curve{
		Base:        generic.OfBudget(0.90),
		Growth:      steady("expenses_total.growth", 0.06, 3),
		Multipliers: []generic.Multiplier{generic.Special("presidential", 1.6, PresidentialYears...)},
		Sigma:       0.12,
	}
}

func staffExpensesSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.OfBudget(0.25),
		Growth: positional(4, bands("staff_expenses.growth",
			generic.Upto(2000, 0.08),
			generic.Since(2001, 0.12),
		)),
		Sigma: 0.08,
	}
}

// A year that is both presidential and legislative takes the presidential
// factor.
func campaignExpensesSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.30),
		Growth: steady("campaign_expenses.growth", 0.07, 3),
		Multipliers: []generic.Multiplier{generic.YearSet{
			Name: "campaign_expenses.elections",
			Tiers: []generic.Tier{
				{Label: "presidential", Years: PresidentialYears, Factor: 4.0},
				{Label: "legislative", Years: LegislativeYears, Factor: 2.5},
			},
			Default: 0.8,
		}},
		Sigma: 0.28,
	}
}

func communicationExpensesSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.15), Growth: anchored(2000, 0.10), Sigma: 0.15}
}

func legalExpensesSynth() generic.Synthesizer {
	return generic.Curve{
		Base:   generic.OfBudget(0.08),
		Growth: steady("legal_expenses.growth", 0.05, 4),
		Multipliers: []generic.Multiplier{generic.YearSet{
			Name:    "legal_expenses.trials",
			Tiers:   []generic.Tier{{Label: "trials", Years: TrialYears, Factor: 2.5}},
			Default: 1.2,
		}},
		Sigma: 0.22,
	}
}

func operatingExpensesSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.10), Growth: steady("operating_expenses.growth", 0.04, 4), Sigma: 0.07}
}

func loanRepaymentsSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.12), Growth: anchored(2000, 0.09), Sigma: 0.18}
}

// =============================================================================
// INDICATORS
// =============================================================================

func budgetExecutionRateSynth() generic.Synthesizer {
	return level(0.06, bands("budget_execution_rate.level",
		generic.Upto(1990, 0.78),
		generic.Between(1991, 2010, 0.82),
		generic.Since(2011, 0.86),
	))
}

func membershipRevenueRatioSynth() generic.Synthesizer {
	return level(0.06, bands("membership_revenue_ratio.level",
		generic.Upto(1990, 0.25),
		generic.Between(1991, 2010, 0.22),
		generic.Since(2011, 0.28),
	))
}

func publicFundingDependencySynth() generic.Synthesizer {
	return level(0.08, bands("public_funding_dependency.level",
		generic.Upto(1990, 0.15),
		generic.Between(1991, 2010, 0.25),
		generic.Between(2011, 2020, 0.35),
		generic.Since(2021, 0.45),
	))
}

// Balance is a share of the budget: deep deficits in presidential years,
// small surpluses the year after, a chronic deficit otherwise.
func financialBalanceSynth() generic.Synthesizer {
	return generic.Curve{
		Base: generic.Absolute(1),
		Multipliers: []generic.Multiplier{generic.YearSet{
			Name: "financial_balance.cycle",
			Tiers: []generic.Tier{
				{Label: "presidential deficit", Years: PresidentialYears, Factor: -0.25},
				{Label: "recovery", Years: RecoveryYears, Factor: 0.05},
			},
			Default: -0.08,
		}},
		Sigma: 0.15,
	}
}

func debtSynth() generic.Synthesizer {
	return generic.Compound{
		Base: generic.OfBudget(0.3),
		Changes: generic.YearSet{
			Name: "debt.changes",
			Tiers: []generic.Tier{
				{Label: "surge", Years: DebtSurgeYears, Factor: 0.35},
				{Label: "reduction", Years: DebtReductionYears, Factor: -0.12},
			},
			Default: 0.08,
		},
		Sigma: 0.12,
	}
}

func legalExpenseRatioSynth() generic.Synthesizer {
	return level(0.10, bands("legal_expense_ratio.level",
		generic.Upto(1990, 0.06),
		generic.Between(1991, 2010, 0.09),
		generic.Since(2011, 0.07),
	))
}

// =============================================================================
// STRATEGIC INVESTMENTS
// =============================================================================

func communicationInvestmentSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.06), Growth: anchored(2000, 0.11), Sigma: 0.16}
}

func digitalInvestmentSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.04), Growth: anchored(2010, 0.15), Sigma: 0.20}
}

func trainingInvestmentSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.03), Growth: anchored(2005, 0.08), Sigma: 0.14}
}

func internationalInvestmentSynth() generic.Synthesizer {
	return generic.Curve{Base: generic.OfBudget(0.02), Growth: anchored(2010, 0.06), Sigma: 0.22}
}

// =============================================================================
// MODEL
// =============================================================================

// Synthesizers maps every column to its synthesizer.
func Synthesizers() map[generic.Attribute]generic.Synthesizer {
	return map[generic.Attribute]generic.Synthesizer{
		Members:                 membersSynth(),
		DepartmentalFederations: federationsSynth(),
		LocalOfficials:          localOfficialsSynth(),
		NationalSeats:           nationalSeatsSynth(),
		PresidentialScore:       presidentialScoreSynth(),

		RevenueTotal:   revenueTotalSynth(),
		MembershipFees: membershipFeesSynth(),
		SmallDonations: smallDonationsSynth(),
		LargeDonations: largeDonationsSynth(),
		PublicFunding:  publicFundingSynth(),
		EventRevenue:   eventRevenueSynth(),
		Loans:          loansSynth(),
		ForeignAid:     foreignAidSynth(),

		ExpensesTotal:         expensesTotalSynth(),
		StaffExpenses:         staffExpensesSynth(),
		CampaignExpenses:      campaignExpensesSynth(),
		CommunicationExpenses: communicationExpensesSynth(),
		LegalExpenses:         legalExpensesSynth(),
		OperatingExpenses:     operatingExpensesSynth(),
		LoanRepayments:        loanRepaymentsSynth(),

		BudgetExecutionRate:     budgetExecutionRateSynth(),
		MembershipRevenueRatio:  membershipRevenueRatioSynth(),
		PublicFundingDependency: publicFundingDependencySynth(),
		FinancialBalance:        financialBalanceSynth(),
		Debt:                    debtSynth(),
		LegalExpenseRatio:       legalExpenseRatioSynth(),

		CommunicationInvestment: communicationInvestmentSynth(),
		DigitalInvestment:       digitalInvestmentSynth(),
		TrainingInvestment:      trainingInvestmentSynth(),
		InternationalInvestment: internationalInvestmentSynth(),
	}
}

// Model returns the complete model: columns in table order and the
// historical event rules.
func Model() generic.Model {
	synths := Synthesizers()
	infos := Attributes()
	columns := make([]generic.Column, len(infos))
	for i, info := range infos {
		columns[i] = generic.Column{Info: info, Synth: synths[info.Name]}
	}
	return generic.Model{Name: "fn-rn", Columns: columns, Rules: Rules()}
}
