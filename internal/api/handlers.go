package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"dashboard/internal/engine"
	"dashboard/internal/export"
	"dashboard/internal/models"
	"dashboard/internal/render"
)

type Handler struct {
	data *engine.Dataset
}

func NewHandler(data *engine.Dataset) *Handler {
	return &Handler{data: data}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)

	views := api.Group("", h.etag)
	views.GET("/options/:attribute", h.GetOptions)
	views.GET("/dashboard", h.GetDashboard)
	views.GET("/jobs", h.GetCustomersPerJob)
	views.GET("/jobs/total", h.GetTotalForJobs)
	views.GET("/jobs/gender", h.GetGenderForJobs)
	views.GET("/jobs/departments", h.GetDepartmentsForJobs)
	views.GET("/departments", h.GetDepartmentsForGender)
	views.GET("/countries", h.GetCountries)
	views.GET("/cities", h.GetCities)
	views.GET("/breakdown/:attribute", h.GetBreakdown)
}

// --- QUERY HELPERS ---

// Widget defaults of the dashboard page.
var defaults = engine.DefaultSelection()

// getLimit reads ?limit=, falling back to defaultLimit when absent.
// Unlike pagination, a bad limit is the caller's bug and is rejected.
func getLimit(c echo.Context, defaultLimit int) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("limit must be a positive integer, got %q", raw))
	}
	return limit, nil
}

// getValues returns every non-empty value of a repeated query parameter.
// Absent parameters yield fallback; a present but empty one (?job=) yields
// an empty selection.
func getValues(c echo.Context, name string, fallback []string) []string {
	raw, ok := c.QueryParams()[name]
	if !ok {
		return fallback
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getValue(c echo.Context, name, fallback string) string {
	if _, ok := c.QueryParams()[name]; !ok {
		return fallback
	}
	return c.QueryParam(name)
}

func getDirection(c echo.Context) (engine.Direction, error) {
	dir, err := engine.ParseDirection(getValue(c, "order", string(engine.Highest)))
	if err != nil {
		return "", toHTTPError(err)
	}
	return dir, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidRankSize),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, engine.ErrUnknownAttribute):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// etag tags responses with the dataset fingerprint and request URI; the
// dataset never changes, so an equal tag means an equal body.
func (h *Handler) etag(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tag := fmt.Sprintf(`"%016x-%016x"`, h.data.Fingerprint(), xxh3.HashString(c.Request().URL.RequestURI()))
		c.Response().Header().Set("ETag", tag)
		if match := c.Request().Header.Get("If-None-Match"); match != "" && strings.Contains(match, tag) {
			return c.NoContent(http.StatusNotModified)
		}
		return next(c)
	}
}

// writeTable renders t in the format asked for by ?format=.
func writeTable(c echo.Context, t models.Table) error {
	switch c.QueryParam("format") {
	case "", "json":
		return c.JSON(http.StatusOK, t)
	case "svg":
		var buf bytes.Buffer
		if err := render.SVG(&buf, t); err != nil {
			if errors.Is(err, render.ErrEmpty) {
				return c.NoContent(http.StatusNoContent)
			}
			return err
		}
		return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
	case "arrow":
		var buf bytes.Buffer
		if err := export.WriteIPC(&buf, t); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
	}
	return echo.NewHTTPError(http.StatusBadRequest, "format must be json, svg or arrow")
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Health{
		Status:      "ok",
		Rows:        h.data.Len(),
		Fingerprint: fmt.Sprintf("%016x", h.data.Fingerprint()),
	})
}

// values for a selection widget
func (h *Handler) GetOptions(c echo.Context) error {
	attr, err := engine.ParseAttribute(c.Param("attribute"))
	if err != nil {
		return toHTTPError(fmt.Errorf("%w: %q", err, c.Param("attribute")))
	}
	return c.JSON(http.StatusOK, models.Options{
		Attribute: string(attr),
		Values:    h.data.DistinctValues(attr),
	})
}

func (h *Handler) GetCustomersPerJob(c echo.Context) error {
	jobs := getValues(c, "job", defaults.Jobs)
	t := engine.CustomersPerJob(h.data, jobs)
	return writeTable(c, models.NewTable(models.JobsTitle(), engine.JobTitle, models.ChartBar, t))
}

func (h *Handler) GetTotalForJobs(c echo.Context) error {
	jobs := getValues(c, "job", defaults.Jobs)
	return c.JSON(http.StatusOK, models.NewTotal(jobs, engine.TotalForJobs(h.data, jobs)))
}

func (h *Handler) GetGenderForJobs(c echo.Context) error {
	jobs := getValues(c, "job", defaults.Jobs)
	t := engine.GenderForJobs(h.data, jobs)
	return writeTable(c, models.NewTable(models.GenderTitle(), engine.Gender, models.ChartPie, t))
}

func (h *Handler) GetDepartmentsForJobs(c echo.Context) error {
	jobs := getValues(c, "job", defaults.Jobs)
	t := engine.DepartmentsForJobs(h.data, jobs)
	return writeTable(c, models.NewTable(models.DepartmentsForJobsTitle(), engine.Department, models.ChartPie, t))
}

func (h *Handler) GetDepartmentsForGender(c echo.Context) error {
	gender := getValue(c, "gender", defaults.Gender)
	t := engine.DepartmentsForGender(h.data, gender)
	return writeTable(c, models.NewTable(models.DepartmentsTitle(gender), engine.Department, models.ChartPie, t))
}

// top or bottom countries, 5 by default
func (h *Handler) GetCountries(c echo.Context) error {
	dir, err := getDirection(c)
	if err != nil {
		return err
	}
	limit, err := getLimit(c, defaults.CountryLimit)
	if err != nil {
		return err
	}
	r, err := engine.CountriesRanked(h.data, limit, dir)
	if err != nil {
		return toHTTPError(err)
	}
	return writeTable(c, models.NewRankedTable(models.CountriesTitle(limit, dir), engine.Country, models.ChartBar, r))
}

// top cities of one country, 10 by default
func (h *Handler) GetCities(c echo.Context) error {
	country := getValue(c, "country", defaults.Country)
	limit, err := getLimit(c, defaults.CityLimit)
	if err != nil {
		return err
	}
	r, err := engine.CitiesInCountry(h.data, country, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return writeTable(c, models.NewRankedTable(models.CitiesTitle(country), engine.City, models.ChartBar, r))
}

// GetBreakdown counts any attribute under membership filters given as
// query parameters named after attributes, e.g. ?gender=Male&country=France.
// order or limit turn the result into a ranking.
func (h *Handler) GetBreakdown(c echo.Context) error {
	attr, err := engine.ParseAttribute(c.Param("attribute"))
	if err != nil {
		return toHTTPError(fmt.Errorf("%w: %q", err, c.Param("attribute")))
	}

	sel := engine.Selection{}
	for _, a := range engine.RequiredAttributes {
		if _, ok := c.QueryParams()[string(a)]; ok {
			sel[a] = getValues(c, string(a), nil)
		}
	}
	table := engine.Breakdown(h.data, sel, attr)
	title := models.BreakdownTitle(attr)

	params := c.QueryParams()
	if _, ranked := params["order"]; !ranked {
		if _, ranked = params["limit"]; !ranked {
			return writeTable(c, models.NewTable(title, attr, models.ChartBar, table))
		}
	}

	dir, err := getDirection(c)
	if err != nil {
		return err
	}
	limit, err := getLimit(c, max(len(table), 1))
	if err != nil {
		return err
	}
	r, err := engine.TopN(table, limit, dir)
	if err != nil {
		return toHTTPError(err)
	}
	return writeTable(c, models.NewRankedTable(title, attr, models.ChartBar, r))
}

// every widget in one round trip
func (h *Handler) GetDashboard(c echo.Context) error {
	sel := engine.DefaultSelection()
	sel.Jobs = getValues(c, "job", sel.Jobs)
	sel.Gender = getValue(c, "gender", sel.Gender)
	sel.Country = getValue(c, "country", sel.Country)

	var err error
	if sel.Order, err = getDirection(c); err != nil {
		return err
	}
	if sel.CountryLimit, err = getLimit(c, sel.CountryLimit); err != nil {
		return err
	}

	d, err := h.data.Aggregate(sel)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.NewDashboardData(d))
}
