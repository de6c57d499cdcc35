package services

import (
	"testing"

	"home-rental-server/models"
)

func listingOwnedBy(id uint, email string) *models.Listing {
	l := &models.Listing{OwnerEmail: email}
	if id != 0 {
		l.OwnerID = &id
	}
	return l
}

func TestListingOwnershipByID(t *testing.T) {
	policy := PolicyConfig{}
	decision := policy.ListingOwnership(listingOwnedBy(7, "owner@example.com"), 7, "someone@else.com")
	if !decision.Allowed {
		t.Fatalf("expected allow for owner id match, got deny: %s", decision.Reason)
	}
	if decision.Reason != "owner id match" {
		t.Fatalf("unexpected reason: %s", decision.Reason)
	}
}

func TestListingOwnershipByEmailCaseInsensitive(t *testing.T) {
	policy := PolicyConfig{}
	decision := policy.ListingOwnership(listingOwnedBy(0, "Owner@Example.com"), 99, "owner@example.com")
	if !decision.Allowed {
		t.Fatalf("expected allow for email match, got deny: %s", decision.Reason)
	}
	if decision.Reason != "owner email match" {
		t.Fatalf("unexpected reason: %s", decision.Reason)
	}
}

func TestListingOwnershipDeniesStranger(t *testing.T) {
	policy := PolicyConfig{}
	decision := policy.ListingOwnership(listingOwnedBy(7, "owner@example.com"), 8, "stranger@example.com")
	if decision.Allowed {
		t.Fatal("expected deny for a stranger")
	}
}

func TestListingOwnershipNilListing(t *testing.T) {
	policy := PolicyConfig{}
	decision := policy.ListingOwnership(nil, 1, "a@b.com")
	if decision.Allowed {
		t.Fatal("expected deny for nil listing")
	}
}

func TestSuperuserBypassRequiresTestingMode(t *testing.T) {
	listing := listingOwnedBy(7, "owner@example.com")

	// Superuser email alone is not enough.
	policy := PolicyConfig{TestingMode: false, SuperuserEmail: "qa@example.com"}
	if policy.ListingOwnership(listing, 8, "qa@example.com").Allowed {
		t.Fatal("bypass must be off without testing mode")
	}

	// Testing mode alone is not enough either.
	policy = PolicyConfig{TestingMode: true}
	if policy.ListingOwnership(listing, 8, "qa@example.com").Allowed {
		t.Fatal("bypass must be off without a superuser email")
	}

	// Both set: the superuser may act on any listing.
	policy = PolicyConfig{TestingMode: true, SuperuserEmail: "qa@example.com"}
	decision := policy.ListingOwnership(listing, 8, "QA@example.com")
	if !decision.Allowed {
		t.Fatalf("expected gated bypass to allow, got deny: %s", decision.Reason)
	}
	if decision.Reason != "testing superuser" {
		t.Fatalf("unexpected reason: %s", decision.Reason)
	}
}

func TestCanViewAllRequests(t *testing.T) {
	policy := PolicyConfig{TestingMode: true, SuperuserEmail: "qa@example.com"}
	if !policy.CanViewAllRequests("qa@example.com") {
		t.Fatal("expected superuser to view all requests")
	}
	if policy.CanViewAllRequests("user@example.com") {
		t.Fatal("regular user must not view all requests")
	}
	if (PolicyConfig{}).CanViewAllRequests("qa@example.com") {
		t.Fatal("default policy must not allow anyone")
	}
}
