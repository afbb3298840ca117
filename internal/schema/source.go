package schema

import "context"

// Source supplies catalog metadata. The registry does not care whether it
// is compiled in, read from a file or loaded from the database.
type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Catalog, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (Catalog, error) { return f(ctx) }

// StaticSource always returns the same catalog.
func StaticSource(c Catalog) Source {
	return SourceFunc(func(context.Context) (Catalog, error) { return c, nil })
}

// BuiltinSource serves the compiled nursery catalog.
func BuiltinSource() Source {
	return SourceFunc(func(context.Context) (Catalog, error) { return Builtin(), nil })
}
