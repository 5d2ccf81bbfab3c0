package engine

import "fmt"

// DashboardSelection is the state of every widget on the dashboard.
type DashboardSelection struct {
	Jobs         []string
	Gender       string
	Order        Direction
	Country      string
	CountryLimit int
	CityLimit    int
}

// DefaultSelection mirrors the widget defaults of the dashboard page.
func DefaultSelection() DashboardSelection {
	return DashboardSelection{
		Jobs:         []string{"Nurse"},
		Gender:       "Male",
		Order:        Highest,
		Country:      "United Kingdom",
		CountryLimit: 5,
		CityLimit:    10,
	}
}

// Dashboard is every derived table for one selection.
type Dashboard struct {
	Selection          DashboardSelection
	CustomersPerJob    FrequencyTable
	TotalCustomers     int
	GenderForJobs      FrequencyTable
	DepartmentsForJobs FrequencyTable
	DepartmentsGender  FrequencyTable
	Countries          RankedTable
	Cities             RankedTable
}

// Aggregate computes the whole dashboard for sel. Rank sizes are validated
// before any table is built.
func (ds *Dataset) Aggregate(sel DashboardSelection) (*Dashboard, error) {
	if sel.CountryLimit <= 0 || sel.CityLimit <= 0 {
		return nil, fmt.Errorf("%w: countries=%d cities=%d", ErrInvalidRankSize, sel.CountryLimit, sel.CityLimit)
	}

	countries, err := CountriesRanked(ds, sel.CountryLimit, sel.Order)
	if err != nil {
		return nil, err
	}
	cities, err := CitiesInCountry(ds, sel.Country, sel.CityLimit)
	if err != nil {
		return nil, err
	}

	// The three job widgets share one filtered view.
	jobs := FilterByMembership(ds.All(), JobTitle, sel.Jobs)

	return &Dashboard{
		Selection:          sel,
		CustomersPerJob:    CountBy(jobs, JobTitle),
		TotalCustomers:     CountTotal(jobs),
		GenderForJobs:      CountBy(jobs, Gender),
		DepartmentsForJobs: CountBy(jobs, Department),
		DepartmentsGender:  DepartmentsForGender(ds, sel.Gender),
		Countries:          countries,
		Cities:             cities,
	}, nil
}
