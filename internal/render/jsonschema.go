package render

import (
	"strconv"

	"github.com/invopop/jsonschema"

	"nursery-service/internal/schema"
	"nursery-service/internal/validation"
)

// JSONSchema describes the typed record a valid submission of t coerces
// to. Clients can use it for their own pre-submit checks.
func JSONSchema(t schema.Table, columns []schema.Column) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Version:              jsonschema.Version,
		ID:                   jsonschema.ID("urn:nursery:table:" + t.Slug),
		Title:                t.Name,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	maxText, one := uint64(validation.MaxTextLength), uint64(1)
	for _, c := range columns {
		if !c.Editable() {
			continue
		}
		p := &jsonschema.Schema{Title: c.Name}
		switch {
		case c.Type.Numeric():
			p.Type = "number"
			if !c.AllowNegative {
				p.Minimum = "0"
			}
		case c.Type == schema.TypeDate:
			p.Type = "string"
			p.Format = "date"
		default:
			p.Type = "string"
			p.MaxLength = &maxText
		}
		if c.DefaultValue != "" {
			p.Default = defaultValue(c)
		}
		if c.Placeholder != "" {
			p.Description = c.Placeholder
		}
		s.Properties.Set(c.ID, p)
		if c.IsRequired {
			if p.Type == "string" {
				p.MinLength = &one
			}
			s.Required = append(s.Required, c.ID)
		}
	}
	return s
}

func defaultValue(c schema.Column) any {
	if c.Type.Numeric() {
		if n, err := strconv.ParseFloat(c.DefaultValue, 64); err == nil {
			return n
		}
	}
	return c.DefaultValue
}
