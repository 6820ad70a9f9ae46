// engine/limits.go
package engine

import (
	"github.com/tripnest/tripnest_backend/models"
)

// ResourceKind identifies a tenant resource counted against plan limits
type ResourceKind string

const (
	KindAgent       ResourceKind = "AGENT"
	KindDestination ResourceKind = "DESTINATION"
	KindPackage     ResourceKind = "PACKAGE"
)

// Decision is the outcome of a plan limit check
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// CanCreate decides whether one more resource of the given kind may be
// created. limits is nil when the tenant has no subscription, which denies
// everything. A limit of 0 always denies. The check is pure; callers must
// re-run the count inside the insert transaction to close the race.
func CanCreate(kind ResourceKind, currentCount int64, limits *models.PlanLimits) Decision {
	if limits == nil {
		return Decision{Allowed: false, Reason: ReasonNoSubscription}
	}
	var max int64
	switch kind {
	case KindAgent:
		max = int64(limits.MaxAgents)
	case KindDestination:
		max = int64(limits.MaxDestinations)
	case KindPackage:
		max = int64(limits.MaxPackages)
	default:
		return Decision{Allowed: false, Reason: ReasonLimitReached}
	}
	if currentCount < max {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Reason: ReasonLimitReached}
}

// CanUploadMedia gates media uploads on the plan's mediaEnabled flag,
// independent of count limits
func CanUploadMedia(limits *models.PlanLimits) Decision {
	if limits == nil {
		return Decision{Allowed: false, Reason: ReasonNoSubscription}
	}
	if !limits.MediaEnabled {
		return Decision{Allowed: false, Reason: ReasonFeatureDisabled}
	}
	return Decision{Allowed: true}
}

// LimitFor returns the numeric limit a kind is checked against
func LimitFor(kind ResourceKind, limits models.PlanLimits) int {
	switch kind {
	case KindAgent:
		return limits.MaxAgents
	case KindDestination:
		return limits.MaxDestinations
	case KindPackage:
		return limits.MaxPackages
	}
	return 0
}
