package party

import "github.com/warp/partyfin/generic"

// =============================================================================
// CALENDAR - Fixed year lists shared by several columns
// =============================================================================

// Election and milestone years. 1981 is a presidential election year but
// the party fielded no candidate, so it is absent from PresidentialYears.
var (
	PresidentialYears = []generic.Year{1974, 1988, 1995, 2002, 2007, 2012, 2017, 2022}
	LegislativeYears  = []generic.Year{1973, 1978, 1981, 1986, 1988, 1993, 1997, 2002, 2007, 2012, 2017, 2022}
	EuropeanYears     = []generic.Year{1979, 1984, 1989, 1994, 1999, 2004, 2009, 2014, 2019}
	MunicipalYears    = []generic.Year{1977, 1983, 1989, 1995, 2001, 2008, 2014, 2020}

	// Years after a presidential deficit in which accounts recovered.
	RecoveryYears = []generic.Year{1975, 1989, 1996, 2003, 2008, 2013, 2018, 2023}

	// Years of heavy borrowing. Loans and debt both spike on them.
	BorrowingYears = []generic.Year{1972, 1984, 1990, 1998, 2005, 2011, 2014, 2020}

	// Debt surges: BorrowingYears with 1974 in place of 1972.
	DebtSurgeYears     = []generic.Year{1974, 1984, 1990, 1998, 2005, 2011, 2014, 2020}
	DebtReductionYears = []generic.Year{1980, 1992, 2000, 2008, 2016, 2022}

	// Major trials.
	TrialYears = []generic.Year{1990, 1998, 2004, 2011, 2015, 2018}

	// Foreign bank loans.
	ForeignLoanYears = []generic.Year{2014, 2015, 2016, 2017}
)

// filter returns the years of ys inside r.
func filter(ys []generic.Year, r generic.YearRange) []generic.Year {
	var out []generic.Year
	for _, y := range ys {
		if r.Contains(y) {
			out = append(out, y)
		}
	}
	return out
}
