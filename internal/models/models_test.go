package models

import (
	"testing"

	"dashboard/internal/engine"
)

func TestLabel(t *testing.T) {
	if got := Label(engine.JobTitle); got != "Job Title" {
		t.Errorf("Expected Job Title, got %q", got)
	}
	if got := BreakdownTitle(engine.City); got != "Customers by city" {
		t.Errorf("Unexpected title %q", got)
	}
}

func TestNewRankedTable(t *testing.T) {
	r := engine.RankedTable{
		Direction: engine.Lowest,
		Entries:   engine.FrequencyTable{{Value: "France", Count: 2}, {Value: "UK", Count: 3}},
	}
	tb := NewRankedTable(CountriesTitle(5, engine.Lowest), engine.Country, ChartBar, r)

	if tb.Order != "lowest" || tb.Total != 5 || tb.Label != "Country" {
		t.Errorf("Unexpected table %+v", tb)
	}
	if tb.Items[0].Name != "France" {
		t.Errorf("Items should keep ranking order, got %+v", tb.Items)
	}
	if tb.Title != "Top 5 countries with the lowest number of customers" {
		t.Errorf("Unexpected title %q", tb.Title)
	}
}

func TestNewTableEmpty(t *testing.T) {
	tb := NewTable(JobsTitle(), engine.JobTitle, ChartBar, nil)
	if tb.Items == nil || len(tb.Items) != 0 || tb.Total != 0 {
		t.Errorf("Empty table should have zero total and non-nil items, got %+v", tb)
	}
	if total := NewTotal(nil, 0); total.Jobs == nil {
		t.Error("Jobs should encode as an empty list")
	}
}
