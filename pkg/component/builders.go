package component

// Label is a text node.
type Label struct {
	base
}

func (l *Label) Text(text string) *Label   { l.Set("text", text); return l }
func (l *Label) Style(style string) *Label { l.Set("style", style); return l }

// Button triggers a named action on click. The action name travels to the
// frontend and comes back verbatim in the event request.
type Button struct {
	base
}

func (b *Button) Label(label string) *Button     { b.Set("label", label); return b }
func (b *Button) Style(style string) *Button     { b.Set("style", style); return b }
func (b *Button) Variant(variant string) *Button { b.Set("variant", variant); return b }
func (b *Button) Icon(icon string) *Button       { b.Set("icon", icon); return b }

// Action wires the button to an action, with optional fixed parameters that
// the frontend echoes back on click.
func (b *Button) Action(action string, params ...map[string]any) *Button {
	b.Set("action", action)
	if len(params) > 0 && params[0] != nil {
		b.Set("action_params", params[0])
	}
	return b
}

// CallerServiceID routes this button's events to the service that opened the
// surrounding modal instead of the modal's own transient service.
func (b *Button) CallerServiceID(id int) *Button {
	params, _ := b.Get("action_params", map[string]any{}).(map[string]any)
	merged := make(map[string]any, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["_caller_service_id"] = id
	b.Set("action_params", merged)
	return b
}

// Input is a single-line text/email/password field. Validation state lives in
// the "error" config key; the frontend renders it under the field.
type Input struct {
	base
}

func (i *Input) Label(label string) *Input             { i.Set("label", label); return i }
func (i *Input) Placeholder(p string) *Input           { i.Set("placeholder", p); return i }
func (i *Input) Value(v string) *Input                 { i.Set("value", v); return i }
func (i *Input) InputType(t string) *Input             { i.Set("input_type", t); return i }
func (i *Input) Required(required bool) *Input         { i.Set("required", required); return i }
func (i *Input) Width(w string) *Input                 { i.Set("width", w); return i }
func (i *Input) Error(msg any) *Input                  { i.Set("error", msg); return i }

// Select is a dropdown of value/label options.
type Select struct {
	base
}

// SelectOption is one entry of a select.
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (s *Select) Label(label string) *Select { s.Set("label", label); return s }
func (s *Select) Value(v string) *Select     { s.Set("value", v); return s }
func (s *Select) Required(r bool) *Select    { s.Set("required", r); return s }
func (s *Select) Options(opts []SelectOption) *Select {
	raw := make([]any, len(opts))
	for i, o := range opts {
		raw[i] = map[string]any{"value": o.Value, "label": o.Label}
	}
	s.Set("options", raw)
	return s
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	base
}

func (c *Checkbox) Label(label string) *Checkbox  { c.Set("label", label); return c }
func (c *Checkbox) Checked(checked bool) *Checkbox { c.Set("checked", checked); return c }

// Uploader accepts files uploaded out of band to temporary storage; the
// resulting temp-file ids arrive as ordinary event parameters. Storage
// mechanics are an external collaborator.
type Uploader struct {
	base
}

func (u *Uploader) Label(label string) *Uploader        { u.Set("label", label); return u }
func (u *Uploader) AllowedTypes(types []string) *Uploader {
	raw := make([]any, len(types))
	for i, t := range types {
		raw[i] = t
	}
	u.Set("allowed_types", raw)
	return u
}
func (u *Uploader) MaxSizeMB(mb int) *Uploader     { u.Set("max_size", mb); return u }
func (u *Uploader) MaxFiles(n int) *Uploader       { u.Set("max_files", n); return u }
func (u *Uploader) Multiple(m bool) *Uploader      { u.Set("multiple", m); return u }
func (u *Uploader) Action(action string) *Uploader { u.Set("action", action); return u }
func (u *Uploader) AspectRatio(r string) *Uploader { u.Set("aspect_ratio", r); return u }
func (u *Uploader) ExistingFile(url string) *Uploader {
	u.Set("existing_file", url)
	return u
}
