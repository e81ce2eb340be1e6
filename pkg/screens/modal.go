package screens

import (
	"context"
	"net/mail"
	"strings"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
	"github.com/idei-labs/usim/pkg/nodeid"
)

// ModalDemo opens ephemeral dialogs. The dialogs' services are never cached;
// their buttons carry the caller's id so events route back here, where the
// state lives.
type ModalDemo struct{}

// NewModalDemo returns the modal screen.
func NewModalDemo() *ModalDemo { return &ModalDemo{} }

func (s *ModalDemo) Name() string { return "modal-demo" }

func (s *ModalDemo) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("modal_root", "main")
	card := f.Card("modal_card").Title("Dialogs").Padding(20)
	card.Add(f.Label("modal_status").Text("Nothing deleted yet."))

	buttons := f.Container("modal_buttons").
		Layout(component.LayoutHorizontal).
		Gap("10px")
	buttons.Add(f.Button("delete_button").Label("Delete item").
		Style("danger").Action("open_confirm_dialog"))
	buttons.Add(f.Button("register_button").Label("Register").
		Action("open_register_dialog"))
	card.Add(buttons)

	root.Add(card)
	return root, nil
}

func (s *ModalDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{
		"open_confirm_dialog":  s.onOpenConfirmDialog,
		"confirm_delete":       s.onConfirmDelete,
		"cancel_dialog":        s.onCancelDialog,
		"open_register_dialog": s.onOpenRegisterDialog,
		"submit_registration":  s.onSubmitRegistration,
	}
}

func (s *ModalDemo) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "modal_status"}}
}

func (s *ModalDemo) StateDefaults() clientstate.Bag { return nil }

func (s *ModalDemo) onOpenConfirmDialog(_ context.Context, ec *engine.EventContext) error {
	ec.ShowModal(confirmDialog(ec.Tree.Root.ID()))
	return nil
}

func (s *ModalDemo) onConfirmDelete(_ context.Context, ec *engine.EventContext) error {
	ec.Node("modal_status").Set("text", "Item deleted.")
	ec.Changes.CloseModal()
	ec.Changes.Toast("Item deleted", "success", 3000)
	return nil
}

func (s *ModalDemo) onCancelDialog(_ context.Context, ec *engine.EventContext) error {
	ec.Changes.CloseModal()
	return nil
}

func (s *ModalDemo) onOpenRegisterDialog(_ context.Context, ec *engine.EventContext) error {
	ec.ShowModal(registerDialog(ec.Tree.Root.ID()))
	return nil
}

func (s *ModalDemo) onSubmitRegistration(_ context.Context, ec *engine.EventContext) error {
	email := strings.TrimSpace(ec.ParamString("email", ""))

	// The dialog is not in our tree; validation errors go back through the
	// update_modal command, keyed by the dialog's field names.
	if email == "" {
		ec.Changes.UpdateModal(map[string]any{
			"dialog_email": map[string]any{"error": "Email is required"},
		})
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		ec.Changes.UpdateModal(map[string]any{
			"dialog_email": map[string]any{"error": "Email address is not valid"},
		})
		return nil
	}

	ec.Node("modal_status").Set("text", "Registered "+email+".")
	ec.Changes.CloseModal()
	ec.Changes.Toast("Registration received", "success", 3000)
	return nil
}

// confirmDialog builds the yes/no confirmation dialog. A fresh generator
// scoped to the dialog's own name keeps its ids away from the caller's.
func confirmDialog(callerID int) component.Parent {
	f := component.NewFactory(nodeid.NewGenerator("confirm-dialog"))
	root := f.Root("dialog_root", "modal")
	root.Add(f.Label("dialog_text").Text("Delete this item? This cannot be undone."))

	buttons := f.Container("dialog_buttons").
		Layout(component.LayoutHorizontal).
		Gap("10px")
	buttons.Add(f.Button("cancel_button").Label("Cancel").Variant("outlined").
		Action("cancel_dialog").CallerServiceID(callerID))
	buttons.Add(f.Button("confirm_button").Label("Delete").Style("danger").
		Action("confirm_delete").CallerServiceID(callerID))
	root.Add(buttons)
	return root
}

// registerDialog builds the registration form dialog.
func registerDialog(callerID int) component.Parent {
	f := component.NewFactory(nodeid.NewGenerator("register-dialog"))
	root := f.Root("dialog_root", "modal")

	form := f.Form("dialog_form").Gap("12px")
	form.Add(f.Input("dialog_email").Label("Email").InputType("email").Required(true))
	form.Add(f.Button("dialog_submit").Label("Register").
		Action("submit_registration").CallerServiceID(callerID))
	root.Add(form)
	return root
}
