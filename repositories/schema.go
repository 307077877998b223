package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

type Kind int

const (
	KindText Kind = iota
	KindUUID
	KindInt
	KindFloat
	KindBool
	KindTime
)

// Column maps an API field onto a table column.
type Column struct {
	Field    string
	Name     string
	Kind     Kind
	Writable bool
	Nullable bool
	// Rules is a validator tag applied to values written through the accessor.
	Rules string
}

type Schema struct {
	Resource    string
	Table       string
	Key         string
	Columns     []Column
	DefaultSort []Sort
	// Touch is set to now() on every update when non-empty.
	Touch    string
	ReadOnly bool
}

var validate = validator.New()

func (s Schema) column(field string) (Column, error) {
	for _, c := range s.Columns {
		if c.Field == field || c.Name == field {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %s.%s", ErrInvalidField, s.Resource, field)
}

func (s Schema) keyColumn() Column {
	c, err := s.column(s.Key)
	if err != nil {
		panic(fmt.Sprintf("schema %s has no key column %s", s.Resource, s.Key))
	}
	return c
}

func (s Schema) selectList() string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.Kind == KindUUID {
			names = append(names, c.Name+"::text AS "+c.Name)
			continue
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// placeholder renders $n, casting through text for uuid columns so plain
// string arguments are accepted.
func (c Column) placeholder(n int) string {
	if c.Kind == KindUUID {
		return fmt.Sprintf("$%d::text::uuid", n)
	}
	return fmt.Sprintf("$%d", n)
}

// coerce converts an incoming value to the Go type matching the column kind.
func (c Column) coerce(v any) (any, error) {
	if v == nil {
		if c.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s cannot be null", ErrInvalidValue, c.Field)
	}

	var (
		out any
		err error
	)
	switch c.Kind {
	case KindInt:
		out, err = cast.ToInt64E(v)
	case KindFloat:
		out, err = cast.ToFloat64E(v)
	case KindBool:
		out, err = cast.ToBoolE(v)
	case KindTime:
		var t time.Time
		t, err = cast.ToTimeE(v)
		out = t
	default:
		out, err = cast.ToStringE(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Field, err)
	}
	return out, nil
}

func (c Column) check(v any) error {
	if c.Rules == "" || v == nil {
		return nil
	}
	if err := validate.Var(v, c.Rules); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Field, err)
	}
	return nil
}

// writeValues validates a write payload and returns columns and coerced
// values sorted by the schema's column order.
func (s Schema) writeValues(values map[string]any) ([]Column, []any, error) {
	if s.ReadOnly {
		return nil, nil, fmt.Errorf("%w: %s", ErrReadOnly, s.Resource)
	}
	if len(values) == 0 {
		return nil, nil, fmt.Errorf("%w: empty payload", ErrInvalidValue)
	}

	seen := map[string]bool{}
	for field := range values {
		c, err := s.column(field)
		if err != nil {
			return nil, nil, err
		}
		if !c.Writable {
			return nil, nil, fmt.Errorf("%w: %s is not writable", ErrInvalidField, c.Field)
		}
		if seen[c.Name] {
			return nil, nil, fmt.Errorf("%w: %s given twice", ErrInvalidField, c.Field)
		}
		seen[c.Name] = true
	}

	cols := []Column{}
	args := []any{}
	for _, c := range s.Columns {
		if !seen[c.Name] {
			continue
		}
		raw, ok := values[c.Field]
		if !ok {
			raw = values[c.Name]
		}
		v, err := c.coerce(raw)
		if err != nil {
			return nil, nil, err
		}
		if err := c.check(v); err != nil {
			return nil, nil, err
		}
		cols = append(cols, c)
		args = append(args, v)
	}
	return cols, args, nil
}
