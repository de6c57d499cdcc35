package services

import (
	"os"
	"strings"

	"home-rental-server/models"
)

// PolicyConfig controls ownership decisions. TestingMode plus a superuser
// email lets a designated account act on any request; both default off so
// production deployments never carry an implicit bypass.
type PolicyConfig struct {
	TestingMode    bool
	SuperuserEmail string
}

func PolicyFromEnv() PolicyConfig {
	return PolicyConfig{
		TestingMode:    os.Getenv("TESTING_MODE") == "true",
		SuperuserEmail: os.Getenv("SUPERUSER_EMAIL"),
	}
}

// OwnershipDecision is an explicit allow/deny with the rule that matched.
type OwnershipDecision struct {
	Allowed bool
	Reason  string
}

// ListingOwnership decides whether the caller may act on a listing's
// requests. Checks run in order: owner-ID match, denormalized owner-email
// match, gated superuser. First match wins.
func (c PolicyConfig) ListingOwnership(listing *models.Listing, callerID uint, callerEmail string) OwnershipDecision {
	if listing == nil {
		return OwnershipDecision{Allowed: false, Reason: "no listing"}
	}

	if listing.OwnerID != nil && *listing.OwnerID == callerID {
		return OwnershipDecision{Allowed: true, Reason: "owner id match"}
	}

	if listing.OwnerEmail != "" && strings.EqualFold(listing.OwnerEmail, callerEmail) {
		return OwnershipDecision{Allowed: true, Reason: "owner email match"}
	}

	if c.isSuperuser(callerEmail) {
		return OwnershipDecision{Allowed: true, Reason: "testing superuser"}
	}

	return OwnershipDecision{Allowed: false, Reason: "caller is not the listing owner"}
}

// CanViewAllRequests reports whether the caller may list every property
// request regardless of ownership.
func (c PolicyConfig) CanViewAllRequests(callerEmail string) bool {
	return c.isSuperuser(callerEmail)
}

func (c PolicyConfig) isSuperuser(email string) bool {
	return c.TestingMode && c.SuperuserEmail != "" && strings.EqualFold(email, c.SuperuserEmail)
}
