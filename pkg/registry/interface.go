// Package registry defines the read-only view of the company registry the
// scanner depends on.
package registry

import (
	"context"
	"time"

	"companyscan/pkg/domain"
)

// RateLimitStatus is the rate limit window reported by the registry.
type RateLimitStatus struct {
	Limit     int       // Limit is the number of requests allowed per window.
	Remaining int       // Remaining is the number of requests left in the window.
	ResetAt   time.Time // ResetAt is when the window resets; zero when unknown.
}

// Client looks up registry records by company number.
//
// Implementations return errors carrying serrors kinds: ErrNotFound when the
// record does not exist, ErrUnavailable for transient failures, ErrMalformed
// for undecodable bodies and ErrUnauthorized for a rejected API key. A 404 on
// a listing endpoint means the listing is empty.
//
//go:generate mockgen -package mockregistry -source=interface.go -destination=mock/mockregistry.go *
type Client interface {
	// Company fetches the company profile.
	Company(ctx context.Context, number string) (*domain.Company, error)
	// Officers fetches the officer listing.
	Officers(ctx context.Context, number string) (*domain.OfficerListing, error)
	// PersonsWithSignificantControl fetches the persons with significant control listing.
	PersonsWithSignificantControl(ctx context.Context, number string) (*domain.OfficerListing, error)
	// PersonsWithSignificantControlStatements fetches the persons with significant control statements listing.
	PersonsWithSignificantControlStatements(ctx context.Context, number string) (*domain.OfficerListing, error)
}
