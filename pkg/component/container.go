package component

// Layout values for container config.
const (
	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// Justify/align values shared by containers.
const (
	JustifyStart        = "flex-start"
	JustifyCenter       = "center"
	JustifyEnd          = "flex-end"
	JustifySpaceBetween = "space-between"
	AlignStart          = "flex-start"
	AlignCenter         = "center"
	AlignEnd            = "flex-end"
)

// Container is the generic layout node. The root of every service tree is a
// container whose parent is the external mount-point name.
type Container struct {
	containerBase
}

func containerDefaults() map[string]any {
	return map[string]any{
		"layout":          LayoutVertical,
		"justify_content": JustifyStart,
		"align_items":     AlignStart,
		"padding":         0,
		"gap":             nil,
		"shadow":          0,
		"title":           nil,
	}
}

// Add connects a child and returns the container for chaining.
func (c *Container) Add(child Node) *Container {
	c.ConnectChild(child)
	return c
}

// MarkRoot flags this container as the tree root mounted at the given
// external mount point. Root detection is by this explicit flag, never by
// absence of a parent.
func (c *Container) MarkRoot(mount string) *Container {
	c.root = true
	c.mount = mount
	return c
}

func (c *Container) Layout(layout string) *Container  { c.Set("layout", layout); return c }
func (c *Container) Title(title string) *Container    { c.Set("title", title); return c }
func (c *Container) Padding(p any) *Container         { c.Set("padding", p); return c }
func (c *Container) Gap(gap string) *Container        { c.Set("gap", gap); return c }
func (c *Container) Shadow(level int) *Container      { c.Set("shadow", level); return c }
func (c *Container) MaxWidth(w string) *Container     { c.Set("max_width", w); return c }
func (c *Container) BorderRadius(r int) *Container    { c.Set("border_radius", r); return c }
func (c *Container) JustifyContent(j string) *Container {
	c.Set("justify_content", j)
	return c
}
func (c *Container) AlignItems(a string) *Container { c.Set("align_items", a); return c }
func (c *Container) CenterHorizontal() *Container {
	c.Set("center_horizontal", true)
	return c
}

// Card is a container rendered with card chrome.
type Card struct {
	containerBase
}

func (c *Card) Add(child Node) *Card         { c.ConnectChild(child); return c }
func (c *Card) Title(title string) *Card     { c.Set("title", title); return c }
func (c *Card) Shadow(level int) *Card       { c.Set("shadow", level); return c }
func (c *Card) Padding(p any) *Card          { c.Set("padding", p); return c }

// Form groups inputs; submission is wired through a button action, so the
// form node itself only carries presentation config.
type Form struct {
	containerBase
}

func (f *Form) Add(child Node) *Form     { f.ConnectChild(child); return f }
func (f *Form) Action(a string) *Form    { f.Set("action", a); return f }
func (f *Form) Gap(gap string) *Form     { f.Set("gap", gap); return f }
