package screens

import (
	"context"
	"fmt"

	"github.com/idei-labs/usim/pkg/clientstate"
	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/engine"
)

// UploaderDemo shows the uploader contract: files go to temporary storage
// out of band, and the resulting temp-file ids arrive here as ordinary event
// parameters. Storage mechanics are an external collaborator.
type UploaderDemo struct{}

// NewUploaderDemo returns the uploader screen.
func NewUploaderDemo() *UploaderDemo { return &UploaderDemo{} }

func (s *UploaderDemo) Name() string { return "uploader-demo" }

func (s *UploaderDemo) BuildUI(f *component.Factory, _ clientstate.Bag) (component.Parent, error) {
	root := f.Root("uploader_root", "main")
	card := f.Card("uploader_card").Title("Attachments").Padding(20)
	card.Add(f.Uploader("attachment_uploader").
		Label("Drop files here").
		AllowedTypes([]string{"image/png", "image/jpeg", "application/pdf"}).
		MaxSizeMB(10).
		MaxFiles(3).
		Action("files_uploaded"))
	card.Add(f.Label("upload_status").Text("No files uploaded."))
	root.Add(card)
	return root, nil
}

func (s *UploaderDemo) Handlers() map[string]engine.HandlerFunc {
	return map[string]engine.HandlerFunc{"files_uploaded": s.onFilesUploaded}
}

func (s *UploaderDemo) Bindings() []engine.Binding {
	return []engine.Binding{{Name: "upload_status"}}
}

func (s *UploaderDemo) StateDefaults() clientstate.Bag { return nil }

func (s *UploaderDemo) onFilesUploaded(_ context.Context, ec *engine.EventContext) error {
	ids, _ := ec.Params["temp_file_ids"].([]any)
	if len(ids) == 0 {
		ec.Changes.Toast("No files received", "warning", 3000)
		return nil
	}
	ec.Node("upload_status").Set("text", fmt.Sprintf("%d file(s) uploaded.", len(ids)))
	ec.Changes.Toast("Upload complete", "success", 3000)
	return nil
}
