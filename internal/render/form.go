package render

import (
	"strconv"
	"strings"
	"time"

	"nursery-service/internal/coerce"
	"nursery-service/internal/model"
	"nursery-service/internal/schema"
	"nursery-service/internal/validation"
)

// Widget is the input control a field is drawn with.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetTextarea Widget = "textarea"
	WidgetNumber   Widget = "number"
	WidgetDate     Widget = "date"
)

// Field is one input of a form.
type Field struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Type        schema.ColumnType `json:"type"`
	Widget      Widget            `json:"widget"`
	Required    bool              `json:"required"`
	Min         *float64          `json:"min,omitempty"`
	Step        string            `json:"step,omitempty"`
	MaxLength   int               `json:"maxLength,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Value       string            `json:"value"`
	Hidden      bool              `json:"hidden,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// FormView is an edit or create form.
type FormView struct {
	Table    TableRef `json:"table"`
	RecordID string   `json:"recordId,omitempty"`
	Fields   []Field  `json:"fields"`
	// FirstInvalid is the id of the first field with an error, so a
	// client can scroll to it.
	FirstInvalid string `json:"firstInvalid,omitempty"`

	columns []schema.Column
}

// Form renders one input per editable column, in column order. rec holds
// current values and is nil for a create form, in which case column
// defaults are used. errs marks fields rejected by a previous submit.
func Form(t schema.Table, columns []schema.Column, rec model.Record, errs validation.Errors) FormView {
	v := FormView{Table: TableRef{Slug: t.Slug, Name: t.Name}, RecordID: rec.ID()}
	for _, c := range columns {
		if !c.Editable() {
			continue
		}
		v.columns = append(v.columns, c)
		f := field(c)
		if rec != nil {
			f.Value = inputValue(rec[c.ID])
		} else {
			f.Value = c.DefaultValue
		}
		f.Error = errs[c.ID]
		v.Fields = append(v.Fields, f)
	}
	v.FirstInvalid = FirstInvalid(v.columns, errs)
	return v
}

// Check runs the validation rules over a submission. It reports the same
// verdict the server reaches on write. On failure the returned view marks
// every rejected field and carries the submitted values back.
func (v FormView) Check(submitted coerce.Form) (FormView, validation.Errors) {
	errs := validation.ValidateRecord(v.columns, submitted.Raw())
	out := v
	out.Fields = make([]Field, len(v.Fields))
	for i, f := range v.Fields {
		if s, ok := submitted[f.ID]; ok {
			f.Value = s
		}
		f.Error = errs[f.ID]
		out.Fields[i] = f
	}
	out.FirstInvalid = FirstInvalid(v.columns, errs)
	return out, errs
}

// Submit validates submitted and calls submit only when it is valid.
func (v FormView) Submit(submitted coerce.Form, submit func(coerce.Form) error) (FormView, error) {
	checked, errs := v.Check(submitted)
	if len(errs) > 0 {
		return checked, errs
	}
	return checked, submit(submitted)
}

// FirstInvalid returns the id of the first column in columns with an error.
func FirstInvalid(columns []schema.Column, errs validation.Errors) string {
	for _, c := range columns {
		if _, bad := errs[c.ID]; bad {
			return c.ID
		}
	}
	return ""
}

func field(c schema.Column) Field {
	f := Field{
		ID:          c.ID,
		Label:       c.Name,
		Type:        c.Type,
		Required:    c.IsRequired,
		Placeholder: c.Placeholder,
		Hidden:      !c.IsVisible,
	}
	switch {
	case c.Type.Numeric():
		f.Widget = WidgetNumber
		if !c.AllowNegative {
			zero := 0.0
			f.Min = &zero
		}
		f.Step = "any"
		if c.Type == schema.TypeCurrency || c.Type == schema.TypePercent {
			f.Step = "0.01"
		}
	case c.Type == schema.TypeDate:
		f.Widget = WidgetDate
	case strings.HasSuffix(strings.ToLower(c.ID), "notes"):
		f.Widget = WidgetTextarea
		f.MaxLength = validation.MaxTextLength
	default:
		f.Widget = WidgetText
		f.MaxLength = validation.MaxTextLength
	}
	return f
}

// inputValue renders a stored value the way an input control expects it.
func inputValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return ""
}
