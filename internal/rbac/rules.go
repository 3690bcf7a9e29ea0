package rbac

import "github.com/mind-engage/qbank/internal/bank"

// Default policy. Owner checks for teachers happen in the handlers.
var RolePermissions = map[bank.Role][]string{
	bank.RoleTeacher: {
		"class:view",
		"subject:view",
		"chapter:view",
		"question:view",
		"question:create",
		"header:view",
		"header:create",
		"paper:*",
		"assignment:view_own",
		"user:view_self",
		"user:change_password",
	},
	bank.RoleAdmin: {
		"class:*",
		"subject:*",
		"chapter:*",
		"question:*",
		"header:*",
		"paper:*",
		"assignment:*",
		"user:list",
		"user:create",
		"user:view_self",
		"user:change_password",
		"event:view",
	},
	bank.RoleSuperAdmin: {
		"*", // everything, including role changes
	},
}
