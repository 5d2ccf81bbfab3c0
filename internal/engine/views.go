package engine

// Derived views behind each dashboard widget. Every function takes the full
// selection it depends on and returns a fresh table.

// CustomersPerJob counts customers per job title, restricted to jobs.
func CustomersPerJob(ds *Dataset, jobs []string) FrequencyTable {
	return CountBy(FilterByMembership(ds.All(), JobTitle, jobs), JobTitle)
}

// TotalForJobs is the number of customers holding one of jobs.
func TotalForJobs(ds *Dataset, jobs []string) int {
	return CountTotal(FilterByMembership(ds.All(), JobTitle, jobs))
}

// GenderForJobs is the gender breakdown of customers holding one of jobs.
func GenderForJobs(ds *Dataset, jobs []string) FrequencyTable {
	return CountBy(FilterByMembership(ds.All(), JobTitle, jobs), Gender)
}

// DepartmentsForGender is the department breakdown of one gender.
func DepartmentsForGender(ds *Dataset, gender string) FrequencyTable {
	return CountBy(FilterByEquality(ds.All(), Gender, gender), Department)
}

// DepartmentsForJobs is the department breakdown of customers holding one of jobs.
func DepartmentsForJobs(ds *Dataset, jobs []string) FrequencyTable {
	return CountBy(FilterByMembership(ds.All(), JobTitle, jobs), Department)
}

// CitiesInCountry ranks the cities of one country by customer count.
func CitiesInCountry(ds *Dataset, country string, n int) (RankedTable, error) {
	return TopN(CountBy(FilterByEquality(ds.All(), Country, country), City), n, Highest)
}

// CountriesRanked ranks every country by customer count.
func CountriesRanked(ds *Dataset, n int, dir Direction) (RankedTable, error) {
	return TopN(CountBy(ds.All(), Country), n, dir)
}

// Selection holds membership filters keyed by attribute. Attributes are
// AND-combined, values within an attribute OR-combined.
type Selection map[Attribute][]string

// Breakdown applies every filter of sel and counts the survivors by attr.
func Breakdown(ds *Dataset, sel Selection, attr Attribute) FrequencyTable {
	v := ds.All()
	for _, a := range RequiredAttributes {
		if vals, ok := sel[a]; ok {
			v = FilterByMembership(v, a, vals)
		}
	}
	return CountBy(v, attr)
}
