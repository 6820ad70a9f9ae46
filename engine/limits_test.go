package engine

import (
	"testing"

	"github.com/tripnest/tripnest_backend/models"
)

func TestCanCreate(t *testing.T) {
	limits := &models.PlanLimits{
		MaxAgents:       5,
		MaxDestinations: 10,
		MaxPackages:     0,
		MediaEnabled:    true,
	}

	tests := []struct {
		name       string
		kind       ResourceKind
		count      int64
		limits     *models.PlanLimits
		allowed    bool
		wantReason string
	}{
		{"agent under limit", KindAgent, 4, limits, true, ""},
		{"agent at limit", KindAgent, 5, limits, false, ReasonLimitReached},
		{"agent over limit after downgrade", KindAgent, 7, limits, false, ReasonLimitReached},
		{"destination under limit", KindDestination, 0, limits, true, ""},
		{"zero limit always denies", KindPackage, 0, limits, false, ReasonLimitReached},
		{"no subscription denies", KindAgent, 0, nil, false, ReasonNoSubscription},
		{"unknown kind denies", ResourceKind("VOUCHER"), 0, limits, false, ReasonLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanCreate(tt.kind, tt.count, tt.limits)
			if got.Allowed != tt.allowed {
				t.Errorf("CanCreate(%s, %d) allowed = %v, want %v", tt.kind, tt.count, got.Allowed, tt.allowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("CanCreate(%s, %d) reason = %q, want %q", tt.kind, tt.count, got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanUploadMedia(t *testing.T) {
	tests := []struct {
		name       string
		limits     *models.PlanLimits
		allowed    bool
		wantReason string
	}{
		{"enabled", &models.PlanLimits{MediaEnabled: true}, true, ""},
		{"disabled", &models.PlanLimits{MediaEnabled: false}, false, ReasonFeatureDisabled},
		{"no subscription", nil, false, ReasonNoSubscription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUploadMedia(tt.limits)
			if got.Allowed != tt.allowed {
				t.Errorf("CanUploadMedia() allowed = %v, want %v", got.Allowed, tt.allowed)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("CanUploadMedia() reason = %q, want %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestLimitFor(t *testing.T) {
	limits := models.PlanLimits{MaxAgents: 1, MaxDestinations: 2, MaxPackages: 3}

	if got := LimitFor(KindAgent, limits); got != 1 {
		t.Errorf("LimitFor(KindAgent) = %d, want 1", got)
	}
	if got := LimitFor(KindDestination, limits); got != 2 {
		t.Errorf("LimitFor(KindDestination) = %d, want 2", got)
	}
	if got := LimitFor(KindPackage, limits); got != 3 {
		t.Errorf("LimitFor(KindPackage) = %d, want 3", got)
	}
	if got := LimitFor(ResourceKind("OTHER"), limits); got != 0 {
		t.Errorf("LimitFor(unknown) = %d, want 0", got)
	}
}
