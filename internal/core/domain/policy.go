package domain

// Action is a capability the API layer asks the policy about before invoking
// a mutating operation.
type Action string

const (
	ActionReadContent      Action = "read_content"
	ActionCreateContent    Action = "create_content"
	ActionEditContent      Action = "edit_content"
	ActionDeleteContent    Action = "delete_content"
	ActionPinPost          Action = "pin_post"
	ActionClosePost        Action = "close_post"
	ActionManageUsers      Action = "manage_users"
	ActionManageCategories Action = "manage_categories"
)

// Can is the authorization policy: a pure function from (role, action,
// ownership) to allow/deny. "owner" means the caller authored the content the
// action targets; it is ignored for actions that are not content-scoped.
//
// Rules:
//   - any authenticated role may read and create content
//   - authors may edit/delete their own content
//   - moderators and admins may edit/delete anyone's content and pin/close posts
//   - only admins manage users and categories
//
// Ownership never overrides role-gated actions: owning a post does not grant
// pin/close.
func Can(role Role, action Action, owner bool) bool {
	if !ValidRole(role) {
		return false
	}

	switch action {
	case ActionReadContent, ActionCreateContent:
		return true
	case ActionEditContent, ActionDeleteContent:
		return owner || IsModerator(role)
	case ActionPinPost, ActionClosePost:
		return IsModerator(role)
	case ActionManageUsers, ActionManageCategories:
		return role == RoleAdmin
	default:
		return false
	}
}

// IsModerator reports whether the role carries moderation capability.
// Admin can do everything a moderator can.
func IsModerator(role Role) bool {
	return role == RoleModerator || role == RoleAdmin
}
