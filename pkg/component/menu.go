package component

// MenuDropdown builds dropdown menus with optional nested submenus. Items are
// plain config data (not child nodes): the whole menu re-renders as one diff
// entry when its items change.
type MenuDropdown struct {
	base
}

// MenuItem is one entry of a dropdown. Exactly one of Action/URL/Submenu is
// normally set; Permission gates visibility ("auth", a permission slug, or
// empty for public).
type MenuItem struct {
	Label      string         `json:"label"`
	Action     string         `json:"action,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	URL        string         `json:"url,omitempty"`
	Icon       string         `json:"icon,omitempty"`
	Submenu    []MenuItem     `json:"submenu,omitempty"`
	Permission string         `json:"permission,omitempty"`
	Separator  bool           `json:"-"`
}

func (m *MenuDropdown) items() []any {
	raw, _ := m.Get("items", []any{}).([]any)
	return raw
}

func (m *MenuDropdown) appendItem(item map[string]any) *MenuDropdown {
	m.Set("items", append(m.items(), item))
	return m
}

// Item adds an action entry.
func (m *MenuDropdown) Item(it MenuItem) *MenuDropdown {
	return m.appendItem(menuItemRecord(it))
}

// Link adds a URL navigation entry.
func (m *MenuDropdown) Link(label, url, icon, permission string) *MenuDropdown {
	return m.appendItem(map[string]any{
		"label":      label,
		"url":        url,
		"icon":       icon,
		"permission": permission,
	})
}

// Separator adds a divider line.
func (m *MenuDropdown) Separator() *MenuDropdown {
	return m.appendItem(map[string]any{"type": "separator"})
}

// Submenu adds an entry whose children are built by the callback.
func (m *MenuDropdown) Submenu(label, icon string, build func(*MenuDropdown)) *MenuDropdown {
	sub := &MenuDropdown{}
	sub.config = map[string]any{}
	build(sub)
	return m.appendItem(map[string]any{
		"label":   label,
		"icon":    icon,
		"submenu": sub.items(),
	})
}

// Trigger customizes the button that opens the menu.
func (m *MenuDropdown) Trigger(label, icon, style string) *MenuDropdown {
	m.Set("trigger", map[string]any{
		"label": label,
		"icon":  icon,
		"style": style,
	})
	return m
}

// Position sets where the menu opens relative to its trigger.
func (m *MenuDropdown) Position(position string) *MenuDropdown {
	m.Set("position", position)
	return m
}

// Width accepts pixels or a CSS size string.
func (m *MenuDropdown) Width(width string) *MenuDropdown {
	m.Set("width", width)
	return m
}

// UserPermissions sets the viewer's permission slugs for visibility control.
// Empty means no authenticated user; the frontend hides "auth" items.
func (m *MenuDropdown) UserPermissions(perms []string) *MenuDropdown {
	if len(perms) == 0 {
		m.Set("permissions", []any{"no-auth"})
		return m
	}
	raw := make([]any, len(perms))
	for i, p := range perms {
		raw[i] = p
	}
	m.Set("permissions", raw)
	return m
}

func menuItemRecord(it MenuItem) map[string]any {
	if it.Separator {
		return map[string]any{"type": "separator"}
	}
	rec := map[string]any{"label": it.Label}
	if it.Action != "" {
		rec["action"] = it.Action
	}
	if len(it.Params) > 0 {
		rec["params"] = it.Params
	}
	if it.URL != "" {
		rec["url"] = it.URL
	}
	if it.Icon != "" {
		rec["icon"] = it.Icon
	}
	if it.Permission != "" {
		rec["permission"] = it.Permission
	}
	if len(it.Submenu) > 0 {
		subs := make([]any, len(it.Submenu))
		for i, s := range it.Submenu {
			subs[i] = menuItemRecord(s)
		}
		rec["submenu"] = subs
	}
	return rec
}
