package component

import (
	"time"

	"github.com/idei-labs/usim/pkg/nodeid"
)

// Factory mints nodes with deterministic ids for one service's tree build.
// It is request-scoped: the engine creates one per build and threads it
// through BuildUI, so no process-global counters exist to reset.
type Factory struct {
	gen *nodeid.Generator
}

// NewFactory wraps an id generator.
func NewFactory(gen *nodeid.Generator) *Factory {
	return &Factory{gen: gen}
}

func (f *Factory) mint(typ Type, name string) (int, string) {
	if name == "" {
		name = f.gen.Anonymous(string(typ))
		// Anonymous nodes get a deterministic id but no logical name on the
		// wire; they cannot be bound or looked up by name.
		return f.gen.ID(name), ""
	}
	return f.gen.ID(name), name
}

func (f *Factory) node(typ Type, name string) Node {
	id, wireName := f.mint(typ, name)
	return newNode(typ, id, wireName)
}

// Root builds the standard root container for a service, mounted at the
// given external mount point.
func (f *Factory) Root(name, mount string) *Container {
	c := f.Container(name)
	c.MarkRoot(mount).
		Layout(LayoutVertical).
		Padding(30).
		JustifyContent(JustifyCenter).
		AlignItems(AlignCenter)
	return c
}

func (f *Factory) Container(name string) *Container {
	return f.node(TypeContainer, name).(*Container)
}

func (f *Factory) Card(name string) *Card {
	return f.node(TypeCard, name).(*Card)
}

func (f *Factory) Form(name string) *Form {
	return f.node(TypeForm, name).(*Form)
}

func (f *Factory) Label(name string) *Label {
	return f.node(TypeLabel, name).(*Label)
}

func (f *Factory) Button(name string) *Button {
	return f.node(TypeButton, name).(*Button)
}

func (f *Factory) Input(name string) *Input {
	return f.node(TypeInput, name).(*Input)
}

func (f *Factory) Select(name string) *Select {
	return f.node(TypeSelect, name).(*Select)
}

func (f *Factory) Checkbox(name string) *Checkbox {
	return f.node(TypeCheckbox, name).(*Checkbox)
}

func (f *Factory) Table(name string) *Table {
	return f.node(TypeTable, name).(*Table)
}

func (f *Factory) TableHeaderRow(name string) *TableHeaderRow {
	return f.node(TypeTableHeaderRow, name).(*TableHeaderRow)
}

func (f *Factory) TableHeaderCell(name string) *TableHeaderCell {
	return f.node(TypeTableHeaderCell, name).(*TableHeaderCell)
}

func (f *Factory) TableRow(name string) *TableRow {
	return f.node(TypeTableRow, name).(*TableRow)
}

func (f *Factory) TableCell(name string) *TableCell {
	return f.node(TypeTableCell, name).(*TableCell)
}

func (f *Factory) MenuDropdown(name string) *MenuDropdown {
	return f.node(TypeMenuDropdown, name).(*MenuDropdown)
}

func (f *Factory) Uploader(name string) *Uploader {
	return f.node(TypeUploader, name).(*Uploader)
}

func (f *Factory) Calendar(name string) *Calendar {
	return f.node(TypeCalendar, name).(*Calendar)
}

// newNode constructs a concrete node of the given type with its default
// config. Shared by the factory (fresh builds) and Deserialize (which then
// overwrites the config from the record).
func newNode(typ Type, id int, name string) Node {
	switch typ {
	case TypeLabel:
		return &Label{base: newBase(id, typ, name, map[string]any{
			"text": "", "style": "default",
		})}
	case TypeButton:
		return &Button{base: newBase(id, typ, name, map[string]any{
			"label": "", "style": "default", "variant": "filled",
		})}
	case TypeInput:
		return &Input{base: newBase(id, typ, name, map[string]any{
			"label": "", "placeholder": "", "value": "",
			"input_type": "text", "required": false, "error": nil,
		})}
	case TypeSelect:
		return &Select{base: newBase(id, typ, name, map[string]any{
			"label": "", "options": []any{}, "value": "", "required": false,
		})}
	case TypeCheckbox:
		return &Checkbox{base: newBase(id, typ, name, map[string]any{
			"label": "", "checked": false,
		})}
	case TypeCard:
		return &Card{containerBase: containerBase{base: newBase(id, typ, name, map[string]any{
			"title": nil, "shadow": 1, "padding": 0,
		})}}
	case TypeForm:
		return &Form{containerBase: containerBase{base: newBase(id, typ, name, map[string]any{
			"gap": "10px",
		})}}
	case TypeContainer:
		return &Container{containerBase: containerBase{base: newBase(id, typ, name, containerDefaults())}}
	case TypeTable:
		return &Table{containerBase: containerBase{base: newBase(id, typ, name, map[string]any{
			"per_page": 10, "current_page": 1, "total_rows": 0, "striped": true,
		})}}
	case TypeTableRow:
		return &TableRow{containerBase: containerBase{base: newBase(id, typ, name, nil)}}
	case TypeTableHeaderRow:
		return &TableHeaderRow{containerBase: containerBase{base: newBase(id, typ, name, nil)}}
	case TypeTableCell:
		return &TableCell{base: newBase(id, typ, name, map[string]any{"text": ""})}
	case TypeTableHeaderCell:
		return &TableHeaderCell{base: newBase(id, typ, name, map[string]any{"text": ""})}
	case TypeMenuDropdown:
		return &MenuDropdown{base: newBase(id, typ, name, map[string]any{
			"items": []any{}, "permissions": []any{}, "position": "bottom-left",
		})}
	case TypeUploader:
		return &Uploader{base: newBase(id, typ, name, map[string]any{
			"label": "Upload Files", "allowed_types": []any{"*"},
			"max_size": 10, "max_files": 5, "multiple": true,
			"accept": "*/*", "action": nil, "aspect_ratio": nil,
			"size_level": 2, "existing_file": nil,
		})}
	case TypeCalendar:
		now := time.Now()
		return &Calendar{base: newBase(id, typ, name, map[string]any{
			"year": now.Year(), "month": int(now.Month()),
			"events": []any{}, "show_saturday_info": true,
			"show_sunday_info": true, "references_columns": 2,
			"min_height": "30px", "max_height": nil, "cell_size": nil,
		})}
	default:
		return nil
	}
}
