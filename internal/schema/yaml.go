package schema

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileSource reads a YAML catalog from disk on every Load.
type FileSource struct {
	Path string
}

// Load implements Source.
func (f FileSource) Load(ctx context.Context) (Catalog, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return Catalog{}, err
	}
	defer fh.Close()
	return DecodeYAML(fh)
}

// DecodeYAML parses a catalog document. Unknown keys are rejected so a
// typo in a flag name fails loudly instead of silently defaulting.
func DecodeYAML(r io.Reader) (Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc yamlCatalog
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return Catalog{}, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return doc.catalog(), nil
}

// EncodeYAML writes c in the nested form DecodeYAML reads.
func EncodeYAML(w io.Writer, c Catalog) error {
	doc := yamlCatalog{}
	for _, t := range c.Tables {
		yt := yamlTable{Table: t}
		for _, col := range c.Columns {
			if col.TableID == t.ID {
				col.TableID = ""
				yt.Columns = append(yt.Columns, yamlColumn{Column: col, hasOrder: true})
			}
		}
		doc.Tables = append(doc.Tables, yt)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// The file nests columns under their table, and visibility defaults to
// true, which the flat Column struct cannot express on its own.
type yamlCatalog struct {
	Tables []yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Table   `yaml:",inline"`
	Columns []yamlColumn `yaml:"columns"`
}

// yamlColumn remembers whether orderIndex was written, so an explicit 0 is
// kept and only omitted indexes fall back to the list position.
type yamlColumn struct {
	Column   `yaml:",inline"`
	hasOrder bool
}

// Node.Decode does not inherit the decoder's KnownFields setting, so
// column keys are checked here.
var columnKeys = yamlKeys(reflect.TypeOf(Column{}))

func (c *yamlColumn) UnmarshalYAML(node *yaml.Node) error {
	hasOrder := false
	if node.Kind == yaml.MappingNode {
		for i := 0; i < len(node.Content); i += 2 {
			k := node.Content[i]
			if !columnKeys[k.Value] {
				return fmt.Errorf("line %d: field %s not found in column", k.Line, k.Value)
			}
			hasOrder = hasOrder || k.Value == "orderIndex"
		}
	}
	v := Column{IsVisible: true}
	if err := node.Decode(&v); err != nil {
		return err
	}
	*c = yamlColumn{Column: v, hasOrder: hasOrder}
	return nil
}

func yamlKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}

func (d yamlCatalog) catalog() Catalog {
	var c Catalog
	for _, yt := range d.Tables {
		c.Tables = append(c.Tables, yt.Table)
		for i, yc := range yt.Columns {
			col := yc.Column
			col.TableID = yt.ID
			if !yc.hasOrder {
				col.OrderIndex = i + 1
			}
			c.Columns = append(c.Columns, col)
		}
	}
	return c
}
