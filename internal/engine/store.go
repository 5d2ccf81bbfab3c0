package engine

import (
	"errors"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Attribute names a categorical column of the customer dataset.
type Attribute string

const (
	JobTitle   Attribute = "job_title"
	Gender     Attribute = "gender"
	Department Attribute = "department"
	Country    Attribute = "country"
	City       Attribute = "city"
)

// RequiredAttributes are the columns every source must provide.
var RequiredAttributes = []Attribute{JobTitle, Gender, Department, Country, City}

var ErrUnknownAttribute = errors.New("unknown attribute")

// ParseAttribute validates a column name coming from the outside world.
func ParseAttribute(s string) (Attribute, error) {
	for _, a := range RequiredAttributes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", ErrUnknownAttribute
}

// Record is one customer row.
type Record struct {
	JobTitle   string
	Gender     string
	Department string
	Country    string
	City       string
}

// Get returns the value of attr for this record.
func (r Record) Get(attr Attribute) string {
	switch attr {
	case JobTitle:
		return r.JobTitle
	case Gender:
		return r.Gender
	case Department:
		return r.Department
	case Country:
		return r.Country
	case City:
		return r.City
	}
	return ""
}

// column is a dictionary encoded string column.
// Dict holds each distinct value once, in first-occurrence order.
type column struct {
	IDs   []int32
	Dict  []string
	index map[string]int32
}

func newColumn(capacity int) *column {
	return &column{
		IDs:   make([]int32, 0, capacity),
		index: make(map[string]int32),
	}
}

func (c *column) append(v string) {
	id, ok := c.index[v]
	if !ok {
		id = int32(len(c.Dict))
		c.Dict = append(c.Dict, v)
		c.index[v] = id
	}
	c.IDs = append(c.IDs, id)
}

func (c *column) lookup(v string) (int32, bool) {
	id, ok := c.index[v]
	return id, ok
}

// Dataset holds the customer rows in Struct-of-Arrays format.
// It is built once and never mutated, so any number of goroutines may read it.
type Dataset struct {
	rows        int
	columns     map[Attribute]*column
	fingerprint uint64
}

// NewDataset encodes records into a Dataset.
func NewDataset(records []Record) *Dataset {
	cols := make(map[Attribute][]string, len(RequiredAttributes))
	for _, a := range RequiredAttributes {
		vals := make([]string, len(records))
		for i, r := range records {
			vals[i] = r.Get(a)
		}
		cols[a] = vals
	}
	return buildDataset(len(records), cols)
}

func buildDataset(rows int, raw map[Attribute][]string) *Dataset {
	ds := &Dataset{rows: rows, columns: make(map[Attribute]*column, len(raw))}
	for a, vals := range raw {
		ds.columns[a] = encodeColumn(vals)
	}
	ds.fingerprint = ds.digest()
	return ds
}

func encodeColumn(vals []string) *column {
	c := newColumn(len(vals))
	for _, v := range vals {
		c.append(v)
	}
	return c
}

// digest hashes every row so that two datasets with the same content in the
// same order share a fingerprint.
func (ds *Dataset) digest() uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(strconv.Itoa(ds.rows))
	for _, a := range RequiredAttributes {
		c := ds.columns[a]
		_, _ = h.WriteString(string(a))
		for _, id := range c.IDs {
			_, _ = h.WriteString(c.Dict[id])
			_, _ = h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

// Len is the number of customers in the dataset.
func (ds *Dataset) Len() int { return ds.rows }

// Fingerprint identifies the dataset content.
func (ds *Dataset) Fingerprint() uint64 { return ds.fingerprint }

// Row materialises row i.
func (ds *Dataset) Row(i int) Record {
	return Record{
		JobTitle:   ds.value(JobTitle, i),
		Gender:     ds.value(Gender, i),
		Department: ds.value(Department, i),
		Country:    ds.value(Country, i),
		City:       ds.value(City, i),
	}
}

func (ds *Dataset) value(attr Attribute, i int) string {
	c := ds.columns[attr]
	return c.Dict[c.IDs[i]]
}

// DistinctValues lists the unique values of attr in first-occurrence order.
// The returned slice is a copy.
func (ds *Dataset) DistinctValues(attr Attribute) []string {
	c, ok := ds.columns[attr]
	if !ok {
		return nil
	}
	out := make([]string, len(c.Dict))
	copy(out, c.Dict)
	return out
}

// All returns a view over every row.
func (ds *Dataset) All() View {
	return View{ds: ds, all: true}
}
