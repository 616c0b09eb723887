// Package qualify decides whether a company profile becomes a result row.
//
// A company qualifies when it is active, is a private limited company, has a
// registered office and has exactly one active entry in the first non-empty
// officer-like listing, that entry being a director.
package qualify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"companyscan/pkg/domain"
	"companyscan/pkg/logger"
	"companyscan/pkg/serrors"
)

// ListingSource fetches the officer-like listings of a company.
type ListingSource interface {
	Officers(ctx context.Context, number string) (*domain.OfficerListing, error)
	PersonsWithSignificantControl(ctx context.Context, number string) (*domain.OfficerListing, error)
	PersonsWithSignificantControlStatements(ctx context.Context, number string) (*domain.OfficerListing, error)
}

// Reason explains why a company did not qualify.
type Reason string

const (
	ReasonInactive       Reason = "inactive"
	ReasonNotLimited     Reason = "not_limited"
	ReasonNoOffice       Reason = "no_registered_office"
	ReasonNoListing      Reason = "no_listing"
	ReasonNoSoleDirector Reason = "no_sole_director"
)

// Eligible checks the profile-only criteria and returns the failing reason,
// or "" when the company may qualify.
func Eligible(company *domain.Company) Reason {
	switch {
	case !company.Active():
		return ReasonInactive
	case !company.Limited():
		return ReasonNotLimited
	case company.RegisteredOffice == nil:
		return ReasonNoOffice
	default:
		return ""
	}
}

// Qualify returns the row for company, or nil when it does not qualify.
// Listing lookups are only made for eligible companies; their errors other
// than ErrNotFound are returned unchanged in kind.
func Qualify(ctx context.Context, company *domain.Company, source ListingSource) (*domain.Row, error) {
	if reason := Eligible(company); reason != "" {
		logger.Debug(ctx, "company does not qualify", zap.String("reason", string(reason)))

		return nil, nil
	}

	listing, err := ResolveListing(ctx, company.Number, source)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		logger.Debug(ctx, "company does not qualify", zap.String("reason", string(ReasonNoListing)))

		return nil, nil
	}

	director := SoleDirector(listing)
	if director == "" {
		logger.Debug(ctx, "company does not qualify",
			zap.String("reason", string(ReasonNoSoleDirector)),
			zap.Int("activeCount", listing.ActiveCount))

		return nil, nil
	}

	office := company.RegisteredOffice
	row := domain.Row{
		Name:       company.Name,
		Director:   director,
		Address:    office.AddressLine1,
		Country:    office.Country,
		City:       office.Locality,
		PostalCode: office.PostalCode,
		Number:     company.Number,
	}.Sanitized()

	return &row, nil
}

// ResolveListing returns the first non-empty listing among officers, persons
// with significant control and their statements, or nil when all are empty.
// A missing listing counts as empty.
func ResolveListing(ctx context.Context, number string, source ListingSource) (*domain.OfficerListing, error) {
	lookups := []struct {
		name  string
		fetch func(context.Context, string) (*domain.OfficerListing, error)
	}{
		{name: "officers", fetch: source.Officers},
		{name: "persons with significant control", fetch: source.PersonsWithSignificantControl},
		{name: "persons with significant control statements", fetch: source.PersonsWithSignificantControlStatements},
	}

	for _, l := range lookups {
		listing, err := l.fetch(ctx, number)
		if err != nil {
			if errors.Is(err, serrors.ErrNotFound) {
				continue
			}

			return nil, fmt.Errorf("could not fetch %s: %w", l.name, err)
		}
		if !listing.Empty() {
			return listing, nil
		}
	}

	return nil, nil
}

// SoleDirector returns the name of the first director of a listing with
// exactly one active entry, or "" otherwise.
func SoleDirector(listing *domain.OfficerListing) string {
	if listing == nil || listing.ActiveCount != 1 {
		return ""
	}
	for _, item := range listing.Items {
		if item.Role == domain.OfficerRoleDirector {
			return item.Name
		}
	}

	return ""
}
