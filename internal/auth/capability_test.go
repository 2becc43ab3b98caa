package auth

import (
	"testing"

	"github.com/Abdullo200604/idealmarket/internal/models"
)

func TestCapabilityMatches(t *testing.T) {
	cases := []struct {
		held      Capability
		requested Capability
		want      bool
	}{
		{CapSell, CapSell, true},
		{CapSell, CapAdminister, false},
		{CapAdminister, CapSell, false},
		{CapabilityAll, CapSell, true},
		{CapabilityAll, CapAdminister, true},
	}
	for _, tc := range cases {
		if got := tc.held.Matches(tc.requested); got != tc.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tc.held, tc.requested, got, tc.want)
		}
	}
}

func TestCapabilitySetHas(t *testing.T) {
	cashier := CapabilitiesForRole(models.RoleCashier)
	if !cashier.Has(CapSell) {
		t.Error("cashier must be able to sell")
	}
	if cashier.Has(CapAdminister) {
		t.Error("cashier must not administer")
	}

	admin := CapabilitiesForRole(models.RoleAdmin)
	if !admin.Has(CapSell) || !admin.Has(CapAdminister) {
		t.Error("admin wildcard must satisfy every capability")
	}

	unknown := CapabilitiesForRole("visitor")
	if unknown.Has(CapSell) || unknown.Has(CapAdminister) {
		t.Error("unknown role must hold no capabilities")
	}
}
