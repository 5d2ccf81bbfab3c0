package engine

// ============================================================================
// FILTERS: single pass selection over dictionary ids
// ============================================================================
// Filters never copy rows. A View is the parent dataset plus the list of
// surviving row indices, so chaining filters only ever narrows the list.
// ============================================================================

// View is a subsequence of a Dataset's rows.
type View struct {
	ds   *Dataset
	all  bool
	rows []int32
}

// Len is the number of rows in the view.
func (v View) Len() int {
	if v.ds == nil {
		return 0
	}
	if v.all {
		return v.ds.rows
	}
	return len(v.rows)
}

// Dataset returns the dataset the view reads from.
func (v View) Dataset() *Dataset { return v.ds }

// Rows materialises the records of the view.
func (v View) Rows() []Record {
	out := make([]Record, 0, v.Len())
	v.each(func(i int32) { out = append(out, v.ds.Row(int(i))) })
	return out
}

func (v View) each(fn func(row int32)) {
	if v.ds == nil {
		return
	}
	if v.all {
		for i := 0; i < v.ds.rows; i++ {
			fn(int32(i))
		}
		return
	}
	for _, i := range v.rows {
		fn(i)
	}
}

// selectRows keeps the rows whose attr id is marked in keep.
func (v View) selectRows(attr Attribute, keep []bool) View {
	out := View{ds: v.ds, rows: make([]int32, 0)}
	c, ok := v.ds.columns[attr]
	if !ok {
		return out
	}
	ids := c.IDs
	v.each(func(i int32) {
		if keep[ids[i]] {
			out.rows = append(out.rows, i)
		}
	})
	return out
}

// FilterByMembership returns the rows whose attr value is one of allowed.
// An empty allowed set yields an empty view. Values absent from the dataset
// match nothing.
func FilterByMembership(v View, attr Attribute, allowed []string) View {
	if v.ds == nil {
		return View{}
	}
	c, ok := v.ds.columns[attr]
	if !ok || len(allowed) == 0 {
		return View{ds: v.ds, rows: []int32{}}
	}
	keep := make([]bool, len(c.Dict))
	for _, s := range allowed {
		if id, ok := c.lookup(s); ok {
			keep[id] = true
		}
	}
	return v.selectRows(attr, keep)
}

// FilterByEquality returns the rows whose attr value equals value exactly.
func FilterByEquality(v View, attr Attribute, value string) View {
	return FilterByMembership(v, attr, []string{value})
}

// CountTotal is the number of customers in the view.
func CountTotal(v View) int { return v.Len() }

// Entry is one row of a frequency table.
type Entry struct {
	Value string
	Count int
}

// FrequencyTable maps each distinct value of an attribute to its row count.
// Entries appear in the order their value is first seen while scanning.
type FrequencyTable []Entry

// Total sums the counts.
func (t FrequencyTable) Total() int {
	n := 0
	for _, e := range t {
		n += e.Count
	}
	return n
}

// Get returns the count for value, 0 when absent.
func (t FrequencyTable) Get(value string) int {
	for _, e := range t {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// Map converts the table to a plain map.
func (t FrequencyTable) Map() map[string]int {
	m := make(map[string]int, len(t))
	for _, e := range t {
		m[e.Value] = e.Count
	}
	return m
}

// CountBy groups the view by attr and counts rows per group in one pass.
func CountBy(v View, attr Attribute) FrequencyTable {
	if v.ds == nil {
		return FrequencyTable{}
	}
	c, ok := v.ds.columns[attr]
	if !ok {
		return FrequencyTable{}
	}

	// Array indexing by dictionary id instead of map inserts.
	counts := make([]int, len(c.Dict))
	order := make([]int32, 0)
	ids := c.IDs
	v.each(func(i int32) {
		id := ids[i]
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	})

	table := make(FrequencyTable, 0, len(order))
	for _, id := range order {
		table = append(table, Entry{Value: c.Dict[id], Count: counts[id]})
	}
	return table
}
