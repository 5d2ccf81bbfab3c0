package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dashboard/internal/engine"
)

// Chart kinds the frontend knows how to draw.
const (
	ChartBar = "bar"
	ChartPie = "pie"
)

type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Table is a frequency or ranked table ready for a chart widget.
type Table struct {
	Title     string      `json:"title"`
	Attribute string      `json:"attribute"`
	Label     string      `json:"label"`
	Chart     string      `json:"chart"`
	Order     string      `json:"order,omitempty"`
	Total     int         `json:"total"`
	Items     []CountItem `json:"items"`
}

type Total struct {
	Jobs  []string `json:"jobs"`
	Total int      `json:"total"`
	Text  string   `json:"text"`
}

type Options struct {
	Attribute string   `json:"attribute"`
	Values    []string `json:"values"`
}

type Health struct {
	Status      string `json:"status"`
	Rows        int    `json:"rows"`
	Fingerprint string `json:"fingerprint"`
}

type DashboardData struct {
	Jobs               Table `json:"jobs"`
	TotalCustomers     Total `json:"total_customers"`
	Gender             Table `json:"gender"`
	DepartmentsForJobs Table `json:"departments_for_jobs"`
	Departments        Table `json:"departments"`
	Countries          Table `json:"countries"`
	Cities             Table `json:"cities"`
}

// Label turns a column name such as job_title into "Job Title".
// Casers hold state, so each call gets its own.
func Label(attr engine.Attribute) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(attr), "_", " "))
}

// NewTable converts an engine table. Items keep the table's order.
func NewTable(title string, attr engine.Attribute, chart string, t engine.FrequencyTable) Table {
	items := make([]CountItem, 0, len(t))
	for _, e := range t {
		items = append(items, CountItem{Name: e.Value, Count: e.Count})
	}
	return Table{
		Title:     title,
		Attribute: string(attr),
		Label:     Label(attr),
		Chart:     chart,
		Total:     t.Total(),
		Items:     items,
	}
}

// NewRankedTable converts a ranked table and records its direction.
func NewRankedTable(title string, attr engine.Attribute, chart string, r engine.RankedTable) Table {
	t := NewTable(title, attr, chart, r.Entries)
	t.Order = string(r.Direction)
	return t
}

func NewTotal(jobs []string, total int) Total {
	if jobs == nil {
		jobs = []string{}
	}
	return Total{
		Jobs:  jobs,
		Total: total,
		Text:  fmt.Sprintf("Total number of customers based on Job selection: %d", total),
	}
}

// Titles shown above each widget.
func JobsTitle() string { return "Customers by profession" }

func GenderTitle() string { return "Gender breakdown of customers by selected professions" }

func DepartmentsForJobsTitle() string { return "Breakdown of departments for selected professions" }

func DepartmentsTitle(gender string) string {
	return fmt.Sprintf("Breakdown of departments for %s customers", gender)
}

func CountriesTitle(n int, dir engine.Direction) string {
	return fmt.Sprintf("Top %d countries with the %s number of customers", n, dir)
}

func CitiesTitle(country string) string {
	return fmt.Sprintf("Top Cities by number of customers in %s", country)
}

func BreakdownTitle(attr engine.Attribute) string {
	return fmt.Sprintf("Customers by %s", strings.ToLower(Label(attr)))
}

// NewDashboardData converts a full engine dashboard.
func NewDashboardData(d *engine.Dashboard) *DashboardData {
	sel := d.Selection
	return &DashboardData{
		Jobs:               NewTable(JobsTitle(), engine.JobTitle, ChartBar, d.CustomersPerJob),
		TotalCustomers:     NewTotal(sel.Jobs, d.TotalCustomers),
		Gender:             NewTable(GenderTitle(), engine.Gender, ChartPie, d.GenderForJobs),
		DepartmentsForJobs: NewTable(DepartmentsForJobsTitle(), engine.Department, ChartPie, d.DepartmentsForJobs),
		Departments:        NewTable(DepartmentsTitle(sel.Gender), engine.Department, ChartPie, d.DepartmentsGender),
		Countries:          NewRankedTable(CountriesTitle(sel.CountryLimit, sel.Order), engine.Country, ChartBar, d.Countries),
		Cities:             NewRankedTable(CitiesTitle(sel.Country), engine.City, ChartBar, d.Cities),
	}
}
