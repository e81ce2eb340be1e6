package engine

// Changes collects the side-effect commands a handler pushes alongside tree
// mutations. Union semantics with first writer wins per key: once a handler
// (or a nested call) sets a toast, later toasts in the same request are
// dropped.
type Changes struct {
	entries map[string]any
}

// NewChanges returns an empty collector.
func NewChanges() *Changes {
	return &Changes{entries: make(map[string]any)}
}

func (c *Changes) put(key string, value any) {
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = value
}

// Toast queues a toast notification. Level is "success", "error", "warning"
// or "info"; duration is milliseconds.
func (c *Changes) Toast(message, level string, duration int) {
	c.put("toast", map[string]any{
		"message":  message,
		"type":     level,
		"duration": duration,
	})
}

// Redirect queues a client-side navigation.
func (c *Changes) Redirect(url string) {
	c.put("redirect", url)
}

// CloseModal queues the close-modal command.
func (c *Changes) CloseModal() {
	c.put("action", "close_modal")
}

// UpdateModal queues per-field updates for an open modal, typically
// validation errors keyed by field name.
func (c *Changes) UpdateModal(fields map[string]any) {
	c.put("update_modal", fields)
}

// Empty reports whether any side effect was collected.
func (c *Changes) Empty() bool {
	return len(c.entries) == 0
}

// Merge copies the collected commands into a response payload. Existing
// payload keys win; node-diff entries use numeric keys so they never clash
// with command names in practice.
func (c *Changes) Merge(payload map[string]any) {
	for k, v := range c.entries {
		if _, ok := payload[k]; ok {
			continue
		}
		payload[k] = v
	}
}
