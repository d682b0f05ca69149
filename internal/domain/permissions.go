package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CRUDPermissions covers resources with the full verb set.
type CRUDPermissions struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// SettingsPermissions covers the settings resource.
type SettingsPermissions struct {
	View   bool `json:"view"`
	Manage bool `json:"manage"`
}

// ViewPermission covers read-only resources.
type ViewPermission struct {
	View bool `json:"view"`
}

// UserPermissions is the fixed-shape permission matrix owned by a User.
// It is stored as a single JSON text column.
type UserPermissions struct {
	Documents CRUDPermissions     `json:"documents"`
	Users     CRUDPermissions     `json:"users"`
	Settings  SettingsPermissions `json:"settings"`
	Dashboard ViewPermission      `json:"dashboard"`
	Logs      ViewPermission      `json:"logs"`
}

// DefaultPermissions is the matrix assigned to new non-admin users.
func DefaultPermissions() UserPermissions {
	return UserPermissions{Documents: CRUDPermissions{View: true}}
}

// FullPermissions has every modeled permission set.
func FullPermissions() UserPermissions {
	return UserPermissions{
		Documents: CRUDPermissions{View: true, Create: true, Edit: true, Delete: true},
		Users:     CRUDPermissions{View: true, Create: true, Edit: true, Delete: true},
		Settings:  SettingsPermissions{View: true, Manage: true},
		Dashboard: ViewPermission{View: true},
		Logs:      ViewPermission{View: true},
	}
}

// Allows looks up a single cell of the matrix. Pairs that are not modeled
// return false.
func (p UserPermissions) Allows(resource Resource, action Action) bool {
	switch resource {
	case ResourceDocuments:
		return p.Documents.allows(action)
	case ResourceUsers:
		return p.Users.allows(action)
	case ResourceSettings:
		switch action {
		case ActionView:
			return p.Settings.View
		case ActionManage:
			return p.Settings.Manage
		}
	case ResourceDashboard:
		return action == ActionView && p.Dashboard.View
	case ResourceLogs:
		return action == ActionView && p.Logs.View
	}
	return false
}

func (c CRUDPermissions) allows(action Action) bool {
	switch action {
	case ActionView:
		return c.View
	case ActionCreate:
		return c.Create
	case ActionEdit:
		return c.Edit
	case ActionDelete:
		return c.Delete
	default:
		return false
	}
}

// CanPerform decides whether user may perform action on resource.
// Admins may do everything, including actions absent from the matrix.
func CanPerform(user *User, resource Resource, action Action) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}
	return user.Permissions.Allows(resource, action)
}

// Value implements driver.Valuer.
func (p UserPermissions) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding permissions: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. NULL and empty text decode to the zero
// matrix.
func (p *UserPermissions) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = UserPermissions{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scanning permissions: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*p = UserPermissions{}
		return nil
	}
	var out UserPermissions
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decoding permissions: %w", err)
	}
	*p = out
	return nil
}
