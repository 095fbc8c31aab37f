package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"test:view",
		"submission:create",
		"submission:view-own",
		"percentile:view",
	},
	"admin": {
		"*", // everything
	},
}
