package service

import (
	"sort"

	"nvocc-platform/internal/entity"

	"github.com/google/uuid"
)

// The resolver is the single place the role graph is flattened into
// effective permission and menu sets. Login, refresh, the gate and
// profile fetch all call through here rather than re-deriving the merge
// inline. Everything is pure: inputs are preloaded role rows, outputs
// are deterministic (sorted) for stable comparison in tests and logs.

type MenuCapabilities struct {
	CanView   bool `json:"canView"`
	CanCreate bool `json:"canCreate"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

type MenuAccess struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Path         string           `json:"path"`
	Icon         string           `json:"icon,omitempty"`
	ParentID     *uuid.UUID       `json:"parentId,omitempty"`
	SortOrder    int              `json:"sortOrder"`
	Capabilities MenuCapabilities `json:"capabilities"`
}

// ActiveRoles extracts the role rows behind a user's active assignments,
// skipping suspended assignments and deactivated roles.
func ActiveRoles(user *entity.User) []entity.Role {
	if user == nil {
		return nil
	}
	roles := make([]entity.Role, 0, len(user.UserRoles))
	for _, assignment := range user.UserRoles {
		if !assignment.IsActive || !assignment.Role.IsActive {
			continue
		}
		roles = append(roles, assignment.Role)
	}
	return roles
}

func RoleNames(roles []entity.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}

// DefaultRole picks the active role for a fresh session: the assignment
// flagged IsDefault wins, otherwise the first active assignment. Empty
// when the user holds no active roles — login still succeeds, the
// identity just resolves to empty sets.
func DefaultRole(user *entity.User) string {
	if user == nil {
		return ""
	}
	first := ""
	for _, assignment := range user.UserRoles {
		if !assignment.IsActive || !assignment.Role.IsActive {
			continue
		}
		if assignment.IsDefault {
			return assignment.Role.Name
		}
		if first == "" {
			first = assignment.Role.Name
		}
	}
	return first
}

// ResolvePermissions unions permission names across roles, keeping only
// individually active permissions. Output is sorted and duplicate-free,
// so resolving {A,B} and {B,A} yields identical slices.
func ResolvePermissions(roles []entity.Role) []string {
	seen := make(map[string]struct{})
	for _, role := range roles {
		if !role.IsActive {
			continue
		}
		for _, permission := range role.Permissions {
			if !permission.IsActive {
				continue
			}
			seen[permission.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveMenus merges menu bindings across roles. For a menu reachable
// from several roles the four capability flags combine by logical OR
// per capability, so the most permissive grant wins flag by flag rather
// than one role's whole flag set being chosen. Output is ordered by the
// menu's declared sort key, then name for determinism.
func ResolveMenus(roles []entity.Role) []MenuAccess {
	merged := make(map[uuid.UUID]*MenuAccess)
	for _, role := range roles {
		if !role.IsActive {
			continue
		}
		for _, binding := range role.RoleMenus {
			menu := binding.Menu
			if !menu.IsActive {
				continue
			}
			access, ok := merged[menu.ID]
			if !ok {
				access = &MenuAccess{
					ID:        menu.ID,
					Name:      menu.Name,
					Path:      menu.Path,
					Icon:      menu.Icon,
					ParentID:  menu.ParentID,
					SortOrder: menu.SortOrder,
				}
				merged[menu.ID] = access
			}
			access.Capabilities.CanView = access.Capabilities.CanView || binding.CanView
			access.Capabilities.CanCreate = access.Capabilities.CanCreate || binding.CanCreate
			access.Capabilities.CanEdit = access.Capabilities.CanEdit || binding.CanEdit
			access.Capabilities.CanDelete = access.Capabilities.CanDelete || binding.CanDelete
		}
	}

	menus := make([]MenuAccess, 0, len(merged))
	for _, access := range merged {
		menus = append(menus, *access)
	}
	sort.Slice(menus, func(i, j int) bool {
		if menus[i].SortOrder != menus[j].SortOrder {
			return menus[i].SortOrder < menus[j].SortOrder
		}
		return menus[i].Name < menus[j].Name
	})
	return menus
}
