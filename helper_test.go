package tranches

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// day is a short-hand for test dates in the permissive read format.
func day(s string) Date { return MustParseDate(s) }
