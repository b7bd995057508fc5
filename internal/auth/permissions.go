package auth

import "pramara/internal/models"

// RoleSuperAdmin bypasses every permission check.
const RoleSuperAdmin = "Super Admin"

const (
	PermUserManage     = "USER_MANAGE"
	PermProjectView    = "PROJECT_VIEW"
	PermProjectEdit    = "PROJECT_EDIT"
	PermDocUpload      = "DOC_UPLOAD"
	PermRuleEdit       = "RULE_EDIT"
	PermComplianceEdit = "COMPLIANCE_EDIT"
)

var BuiltinPermissions = []models.Permission{
	{Code: PermUserManage, Label: "Manage users"},
	{Code: PermProjectView, Label: "View projects"},
	{Code: PermProjectEdit, Label: "Edit projects"},
	{Code: PermDocUpload, Label: "Upload documents"},
	{Code: PermRuleEdit, Label: "Edit alert rules"},
	{Code: PermComplianceEdit, Label: "Edit compliance items"},
}
