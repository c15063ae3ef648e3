package models

// Table is a delimited file as read from disk: an ordered header and the
// string records beneath it. Every record has len(Header) fields.
type Table struct {
	Header  []string
	Records [][]string
}

// Index returns the position of the named column, or -1 when absent.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column is present.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// Clone returns a deep copy so callers can mutate without touching the source.
func (t *Table) Clone() *Table {
	out := &Table{
		Header:  append([]string(nil), t.Header...),
		Records: make([][]string, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = append([]string(nil), r...)
	}
	return out
}

// DropColumns removes the named columns in place and returns the names that
// were actually present.
func (t *Table) DropColumns(names ...string) []string {
	drop := make(map[int]struct{}, len(names))
	var dropped []string
	for _, n := range names {
		if i := t.Index(n); i >= 0 {
			drop[i] = struct{}{}
			dropped = append(dropped, n)
		}
	}
	if len(drop) == 0 {
		return nil
	}

	keep := func(row []string) []string {
		out := make([]string, 0, len(row))
		for i, v := range row {
			if _, gone := drop[i]; !gone {
				out = append(out, v)
			}
		}
		return out
	}

	t.Header = keep(t.Header)
	for i, r := range t.Records {
		t.Records[i] = keep(r)
	}
	return dropped
}
