package domain

// NavEntry is one navigation destination offered to the user.
type NavEntry struct {
	Label string
	Path  string
	Icon  string
}

// RoleCapabilities bundles the navigation and feature visibility for a
// role. It is computed once per session and consumed everywhere instead
// of re-deriving role logic per screen. Presentation only: the server
// remains the authority on what a caller may actually do.
type RoleCapabilities struct {
	Role                Role
	Navigation          []NavEntry
	CanApplyLoan        bool
	CanMakePayment      bool
	CanApproveLoan      bool
	CanDefineParameters bool
}

// CapabilitiesFor maps a role to its capabilities. Total: an unknown or
// empty role yields only the universal navigation and no feature flags.
func CapabilitiesFor(role Role) RoleCapabilities {
	caps := RoleCapabilities{
		Role: role,
		Navigation: []NavEntry{
			{Label: "Dashboard", Path: "/dashboard", Icon: "dashboard"},
		},
	}

	switch role {
	case RoleLoanCustomer:
		caps.Navigation = append(caps.Navigation,
			NavEntry{Label: "Apply for Loan", Path: "/apply-loan", Icon: "document"},
			NavEntry{Label: "My Loans", Path: "/my-loans", Icon: "money"},
			NavEntry{Label: "Make Payment", Path: "/make-payment", Icon: "payment"},
		)
		caps.CanApplyLoan = true
		caps.CanMakePayment = true
	case RoleLoanProvider:
		caps.Navigation = append(caps.Navigation,
			NavEntry{Label: "Loans", Path: "/loans", Icon: "money"},
			NavEntry{Label: "Payments", Path: "/payments", Icon: "payment"},
		)
		caps.CanApproveLoan = true
	case RoleBankPersonnel:
		caps.Navigation = append(caps.Navigation,
			NavEntry{Label: "Loan Parameters", Path: "/loan-parameters", Icon: "settings"},
			NavEntry{Label: "All Loans", Path: "/all-loans", Icon: "money"},
			NavEntry{Label: "Reports", Path: "/reports", Icon: "document"},
		)
		caps.CanDefineParameters = true
	}

	return caps
}
