package aggregate

// Table is the small tabular metric result: grouping key column first, the
// named value column second, derived columns appended last. An empty table
// keeps its column header so consumers always see the documented shape.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Row is one table row. Derived holds values for any appended columns, in
// column order.
type Row struct {
	Key     string    `json:"key"`
	Value   int       `json:"value"`
	Derived []float64 `json:"derived,omitempty"`
}
