package domain

import (
	"strings"
)

// RowHeader is the header line of the result file.
const RowHeader = "Company, Fullname, Address, Country, City, Postal Code"

// Row is one qualified company as written to the result sinks. Record field
// order matches RowHeader. Number keys the row in the database mirror and is
// not part of the result file.
type Row struct {
	Name       string
	Director   string
	Address    string
	Country    string
	City       string
	PostalCode string
	Number     string
}

// Sanitized returns a copy of r in which every comma is replaced by a space so
// that the comma separated result file keeps exactly six columns.
func (r Row) Sanitized() Row {
	clean := func(s string) string { return strings.ReplaceAll(s, ",", " ") }

	return Row{
		Name:       clean(r.Name),
		Director:   clean(r.Director),
		Address:    clean(r.Address),
		Country:    clean(r.Country),
		City:       clean(r.City),
		PostalCode: clean(r.PostalCode),
		Number:     clean(r.Number),
	}
}

// Record returns the fields of r in column order.
func (r Row) Record() []string {
	return []string{r.Name, r.Director, r.Address, r.Country, r.City, r.PostalCode}
}
