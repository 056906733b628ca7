package auth

import "mnki/internal/model"

// Action names a capability checked against the caller's role. Authorization
// goes through the table below instead of inline role comparisons so the
// role×action matrix stays exhaustive and testable.
type Action string

const (
	// ActionListMembers covers the role-scoped member listing.
	ActionListMembers Action = "members:list"
	// ActionManageMembers covers add/update/delete of member accounts.
	ActionManageMembers Action = "members:manage"
	// ActionManageEvents covers event create/update/delete.
	ActionManageEvents Action = "events:manage"
	// ActionModerateNotes covers update/delete of notes the caller did not author.
	ActionModerateNotes Action = "notes:moderate"
	// ActionViewAnyMemberNotes covers listing any member's notes without a
	// trained-by link.
	ActionViewAnyMemberNotes Action = "notes:view-any"
)

var capabilities = map[model.Role]map[Action]bool{
	model.RoleMember: {
		ActionListMembers: true,
	},
	model.RoleTrainer: {
		ActionListMembers: true,
	},
	model.RoleAdmin: {
		ActionListMembers:        true,
		ActionManageMembers:      true,
		ActionManageEvents:       true,
		ActionModerateNotes:      true,
		ActionViewAnyMemberNotes: true,
	},
}

// Can reports whether the role holds the capability. Unknown roles hold
// nothing.
func Can(role model.Role, action Action) bool {
	return capabilities[role][action]
}
