package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/engine"
	"dashboard/internal/export"
	"dashboard/internal/models"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	nf := engine.Record{JobTitle: "Nurse", Gender: "Female", Department: "Sales", Country: "UK", City: "London"}
	nm := engine.Record{JobTitle: "Nurse", Gender: "Male", Department: "Support", Country: "UK", City: "Leeds"}
	dm := engine.Record{JobTitle: "Doctor", Gender: "Male", Department: "Legal", Country: "France", City: "Paris"}
	ds := engine.NewDataset([]engine.Record{nf, nf, nm, dm, dm})
	return NewServer(ds, Options{LogLevel: log.OFF})
}

func get(t *testing.T, e *echo.Echo, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func items(tb models.Table) map[string]int {
	m := map[string]int{}
	for _, it := range tb.Items {
		m[it.Name] = it.Count
	}
	return m
}

func TestGenderForJobs(t *testing.T) {
	e := newTestServer(t)
	rec := get(t, e, "/api/jobs/gender?job=Nurse")
	require.Equal(t, http.StatusOK, rec.Code)

	tb := decode[models.Table](t, rec)
	assert.Equal(t, map[string]int{"Female": 2, "Male": 1}, items(tb))
	assert.Equal(t, 3, tb.Total)
	assert.Equal(t, models.ChartPie, tb.Chart)
	assert.Equal(t, "gender", tb.Attribute)
}

func TestCustomersPerJobDefaultsToNurse(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"Nurse": 3}, items(decode[models.Table](t, rec)))
}

func TestTotalForJobs(t *testing.T) {
	e := newTestServer(t)

	total := decode[models.Total](t, get(t, e, "/api/jobs/total?job=Nurse&job=Doctor"))
	assert.Equal(t, 5, total.Total)
	assert.Equal(t, "Total number of customers based on Job selection: 5", total.Text)

	empty := decode[models.Total](t, get(t, e, "/api/jobs/total?job="))
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.Jobs)
}

func TestDepartments(t *testing.T) {
	e := newTestServer(t)

	byGender := decode[models.Table](t, get(t, e, "/api/departments?gender=Male"))
	assert.Equal(t, map[string]int{"Support": 1, "Legal": 2}, items(byGender))
	assert.Equal(t, "Breakdown of departments for Male customers", byGender.Title)

	byJobs := decode[models.Table](t, get(t, e, "/api/jobs/departments?job=Doctor"))
	assert.Equal(t, map[string]int{"Legal": 2}, items(byJobs))
}

func TestCountries(t *testing.T) {
	e := newTestServer(t)

	top := decode[models.Table](t, get(t, e, "/api/countries?order=highest&limit=1"))
	require.Len(t, top.Items, 1)
	assert.Equal(t, models.CountItem{Name: "UK", Count: 3}, top.Items[0])
	assert.Equal(t, "highest", top.Order)

	bottom := decode[models.Table](t, get(t, e, "/api/countries?order=lowest"))
	require.Len(t, bottom.Items, 2)
	assert.Equal(t, "France", bottom.Items[0].Name)
	assert.Equal(t, "Top 5 countries with the lowest number of customers", bottom.Title)
}

func TestCountriesBadInput(t *testing.T) {
	e := newTestServer(t)
	for _, target := range []string{
		"/api/countries?order=middle",
		"/api/countries?limit=0",
		"/api/countries?limit=-1",
		"/api/countries?limit=five",
		"/api/cities?limit=0",
		"/api/jobs?format=xml",
		"/api/options/salary",
		"/api/breakdown/salary",
	} {
		rec := get(t, e, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCities(t *testing.T) {
	e := newTestServer(t)

	tb := decode[models.Table](t, get(t, e, "/api/cities?country=UK"))
	require.Len(t, tb.Items, 2)
	assert.Equal(t, "London", tb.Items[0].Name)
	assert.Equal(t, "Top Cities by number of customers in UK", tb.Title)

	none := decode[models.Table](t, get(t, e, "/api/cities?country=Spain"))
	assert.Empty(t, none.Items)
	assert.Equal(t, 0, none.Total)
}

func TestOptions(t *testing.T) {
	opts := decode[models.Options](t, get(t, newTestServer(t), "/api/options/country"))
	assert.Equal(t, []string{"UK", "France"}, opts.Values)
}

func TestBreakdown(t *testing.T) {
	e := newTestServer(t)

	tb := decode[models.Table](t, get(t, e, "/api/breakdown/city?gender=Male"))
	assert.Equal(t, map[string]int{"Leeds": 1, "Paris": 2}, items(tb))
	assert.Empty(t, tb.Order)

	ranked := decode[models.Table](t, get(t, e, "/api/breakdown/city?gender=Male&limit=1"))
	require.Len(t, ranked.Items, 1)
	assert.Equal(t, "Paris", ranked.Items[0].Name)
	assert.Equal(t, "highest", ranked.Order)

	empty := decode[models.Table](t, get(t, e, "/api/breakdown/city?gender=Other&order=lowest"))
	assert.Empty(t, empty.Items)
}

func TestDashboard(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/dashboard?country=UK&job=Nurse")
	require.Equal(t, http.StatusOK, rec.Code)

	d := decode[models.DashboardData](t, rec)
	assert.Equal(t, 3, d.TotalCustomers.Total)
	assert.Equal(t, map[string]int{"Female": 2, "Male": 1}, items(d.Gender))
	assert.Equal(t, "UK", d.Countries.Items[0].Name)
	assert.Equal(t, "London", d.Cities.Items[0].Name)
}

func TestETag(t *testing.T) {
	e := newTestServer(t)

	first := get(t, e, "/api/jobs?job=Nurse")
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	second := get(t, e, "/api/jobs?job=Nurse", "If-None-Match", tag)
	assert.Equal(t, http.StatusNotModified, second.Code)

	other := get(t, e, "/api/jobs?job=Doctor", "If-None-Match", tag)
	assert.Equal(t, http.StatusOK, other.Code)
	assert.NotEqual(t, tag, other.Header().Get("ETag"))
}

func TestFormats(t *testing.T) {
	e := newTestServer(t)

	svg := get(t, e, "/api/jobs/gender?job=Nurse&format=svg")
	require.Equal(t, http.StatusOK, svg.Code)
	assert.Equal(t, "image/svg+xml", svg.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.Contains(svg.Body.String(), "<svg"))

	bars := get(t, e, "/api/countries?format=svg")
	require.Equal(t, http.StatusOK, bars.Code)

	empty := get(t, e, "/api/jobs/gender?job=&format=svg")
	assert.Equal(t, http.StatusNoContent, empty.Code)

	arrow := get(t, e, "/api/countries?format=arrow")
	require.Equal(t, http.StatusOK, arrow.Code)
	assert.Equal(t, export.ContentType, arrow.Header().Get(echo.HeaderContentType))
	assert.NotZero(t, arrow.Body.Len())
}

func TestHealth(t *testing.T) {
	h := decode[models.Health](t, get(t, newTestServer(t), "/api/health"))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 5, h.Rows)
	assert.Len(t, h.Fingerprint, 16)
}
