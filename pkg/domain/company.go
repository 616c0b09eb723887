package domain

import (
	"time"
)

// CompanyStatus is the registry's lifecycle status of a company.
// Only "active" matters for qualification; other values are kept verbatim.
type CompanyStatus string

// CompanyType is the registry's legal form of a company, e.g. "ltd" or "plc".
type CompanyType string

// OfficerRole is the role of an entry in an officer listing.
type OfficerRole string

const (
	// CompanyStatusActive marks a company that is currently trading.
	CompanyStatusActive CompanyStatus = "active"
	// CompanyTypeLtd marks a private company limited by shares.
	CompanyTypeLtd CompanyType = "ltd"
	// OfficerRoleDirector marks a director in an officer listing.
	OfficerRoleDirector OfficerRole = "director"
)

// Address is the registered office address of a company. Every field may be
// empty when the registry omits it.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	Country      string `json:"country,omitempty"`
	Locality     string `json:"locality,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
}

// Company is the subset of a registry company profile the scanner needs.
type Company struct {
	// Number is the registry identifier, e.g. "00000101" or "SC000101".
	Number string `json:"company_number"`
	// Name is the registered company name.
	Name string `json:"company_name"`
	// Status is the lifecycle status as reported by the registry.
	Status CompanyStatus `json:"company_status"`
	// Type is the legal form as reported by the registry.
	Type CompanyType `json:"type"`
	// CreatedOn is the incorporation date; zero when the registry omits it.
	CreatedOn time.Time `json:"date_of_creation"`
	// RegisteredOffice is nil when the profile carries no registered office.
	RegisteredOffice *Address `json:"registered_office_address,omitempty"`
}

// Active reports whether the company is trading.
func (c *Company) Active() bool { return c.Status == CompanyStatusActive }

// Limited reports whether the company is a private limited company.
func (c *Company) Limited() bool { return c.Type == CompanyTypeLtd }

// AgeDays returns the number of whole days between incorporation and now, or
// -1 when the incorporation date is unknown.
func (c *Company) AgeDays(now time.Time) int {
	if c.CreatedOn.IsZero() {
		return -1
	}

	return int(now.Sub(c.CreatedOn).Hours() / 24)
}

// Officer is one entry of an officer-like listing.
type Officer struct {
	Name string      `json:"name"`
	Role OfficerRole `json:"officer_role"`
}

// OfficerListing is what the registry returns for the officers, persons with
// significant control and persons with significant control statements
// endpoints.
type OfficerListing struct {
	// ActiveCount is the registry's count of active entries.
	ActiveCount int       `json:"active_count"`
	Items       []Officer `json:"items"`
}

// Empty reports whether the listing carries no entries at all.
func (l *OfficerListing) Empty() bool {
	return l == nil || (l.ActiveCount == 0 && len(l.Items) == 0)
}
