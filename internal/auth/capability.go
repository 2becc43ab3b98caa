package auth

// Capability names one thing an operator may do. The whole application
// distinguishes exactly two: selling at the register and administering the
// catalog and accounts. Role checks happen once, at the request boundary,
// by resolving the account's role into a CapabilitySet; handlers never
// re-derive roles.
type Capability string

const (
	CapSell       Capability = "sell"
	CapAdminister Capability = "administer"

	// CapabilityAll is the wildcard granted to admins; it matches every
	// requested capability.
	CapabilityAll Capability = "*"
)

// Matches reports whether this granted capability satisfies a requested one.
func (c Capability) Matches(requested Capability) bool {
	return c == CapabilityAll || c == requested
}

// CapabilitySet is the set of capabilities granted to one identity.
type CapabilitySet []Capability

// Has reports whether any granted capability satisfies the requested one.
func (s CapabilitySet) Has(requested Capability) bool {
	for _, c := range s {
		if c.Matches(requested) {
			return true
		}
	}
	return false
}

// CapabilitiesForRole maps a stored role name to its capability set.
// Unknown roles get nothing.
func CapabilitiesForRole(role string) CapabilitySet {
	switch role {
	case "admin":
		return CapabilitySet{CapabilityAll}
	case "cashier":
		return CapabilitySet{CapSell}
	default:
		return nil
	}
}
