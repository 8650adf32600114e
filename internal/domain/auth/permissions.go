package auth

import "slices"

// Permission codes checked by the HTTP layer.
const (
	PermCatalogRead   = "catalog:read"
	PermCatalogWrite  = "catalog:write"
	PermStockRead     = "stock:read"
	PermStockWrite    = "stock:write"
	PermSalesRead     = "sales:read"
	PermSalesWrite    = "sales:write"
	PermPaymentsWrite = "payments:write"
	PermCurrencyWrite = "currency:write"
	PermReportsRead   = "reports:read"
	PermAuditRead     = "audit:read"
)

var readAll = []string{PermCatalogRead, PermStockRead, PermSalesRead, PermReportsRead}

// rolePermissions maps built-in staff roles to the permissions they grant.
var rolePermissions = map[string][]string{
	"viewer":      readAll,
	"storekeeper": append(slices.Clone(readAll), PermCatalogWrite, PermStockWrite),
	"cashier":     append(slices.Clone(readAll), PermSalesWrite, PermPaymentsWrite),
	"manager": append(slices.Clone(readAll),
		PermCatalogWrite, PermStockWrite, PermSalesWrite, PermPaymentsWrite,
		PermCurrencyWrite, PermAuditRead),
}

// KnownRole reports whether role is a built-in role.
func KnownRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// ExpandPermissions returns extra plus everything granted by roles, sorted
// and without duplicates.
func ExpandPermissions(roles, extra []string) []string {
	out := slices.Clone(extra)
	for _, r := range roles {
		out = append(out, rolePermissions[r]...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
