package component

// Theme is a per-deployment presentation overlay applied to a freshly built
// tree: sizing on the root container, shadow on cards, striping on tables,
// plus arbitrary root config defaults. Zero-valued fields are left out of the
// overlay, so a partial profile only touches what it names.
type Theme struct {
	MaxWidth     string
	Padding      int
	CardShadow   int
	TableStriped *bool
	Defaults     map[string]any
}

// IsZero reports whether the theme would change nothing.
func (t Theme) IsZero() bool {
	return t.MaxWidth == "" && t.Padding == 0 && t.CardShadow == 0 &&
		t.TableStriped == nil && len(t.Defaults) == 0
}

// ApplyTheme overlays a theme on a built tree. It runs after BuildUI and
// before the tree is flattened, so themed values are part of the snapshot
// and diff like any other config. Defaults only fill root keys the screen
// left unset; the sizing and styling fields override the built-in values.
func ApplyTheme(root Node, theme Theme) {
	if theme.MaxWidth != "" {
		root.Set("max_width", theme.MaxWidth)
	}
	if theme.Padding > 0 {
		root.Set("padding", theme.Padding)
	}
	for k, v := range theme.Defaults {
		if root.Get(k, nil) == nil {
			root.Set(k, v)
		}
	}

	var walk func(n Node)
	walk = func(n Node) {
		switch n.Type() {
		case TypeCard:
			if theme.CardShadow > 0 {
				n.Set("shadow", theme.CardShadow)
			}
		case TypeTable:
			if theme.TableStriped != nil {
				n.Set("striped", *theme.TableStriped)
			}
		}
		if p, ok := n.(Parent); ok {
			for _, child := range p.Children() {
				walk(child)
			}
		}
	}
	walk(root)
}
