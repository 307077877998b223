package repositories

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpLt       Operator = "lt"
	OpGt       Operator = "gt"
	OpLte      Operator = "lte"
	OpGte      Operator = "gte"
	OpContains Operator = "contains"
)

var comparisons = map[Operator]string{
	OpEq:  "=",
	OpNeq: "<>",
	OpLt:  "<",
	OpGt:  ">",
	OpLte: "<=",
	OpGte: ">=",
}

func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToLower(s))
	if op == OpContains {
		return op, nil
	}
	if _, ok := comparisons[op]; ok {
		return op, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOperator, s)
}

type Filter struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

type Sort struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	// MaxOffset bounds (Current-1)*PageSize so the OFFSET never overflows.
	MaxOffset = math.MaxInt32
)

type Pagination struct {
	Current  int `json:"current"`
	PageSize int `json:"pageSize"`
}

func (p Pagination) Normalize() Pagination {
	if p.Current < 1 {
		p.Current = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxOffset {
		p.PageSize = MaxOffset
	}
	if p.Current-1 > MaxOffset/p.PageSize {
		p.Current = MaxOffset/p.PageSize + 1
	}
	return p
}

// Validate rejects a page whose offset would not fit MaxOffset. Normalize
// clamps such pages instead.
func (p Pagination) Validate() error {
	if p.PageSize > MaxOffset {
		return fmt.Errorf("%w: page size %d is out of range", ErrInvalidValue, p.PageSize)
	}
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if p.Current-1 > MaxOffset/size {
		return fmt.Errorf("%w: page %d is out of range", ErrInvalidValue, p.Current)
	}
	return nil
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Current - 1) * p.PageSize
}

type ListParams struct {
	Filters    []Filter
	Sorts      []Sort
	Pagination Pagination
}

type ListResult[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Statement is a single SQL text with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

type ListQuery struct {
	Count Statement
	Data  Statement
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// buildWhere renders filters in the order given, joined with AND.
func (s Schema) buildWhere(filters []Filter, args []any) (string, []any, error) {
	whereConditions := []string{}
	argIndex := len(args) + 1

	for _, f := range filters {
		c, err := s.column(f.Field)
		if err != nil {
			return "", nil, err
		}

		if f.Operator == OpContains {
			needle, err := cast.ToStringE(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, f.Field, err)
			}
			target := c.Name
			if c.Kind != KindText {
				target = "CAST(" + c.Name + " AS TEXT)"
			}
			whereConditions = append(whereConditions, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, target, argIndex))
			args = append(args, "%"+likeEscaper.Replace(needle)+"%")
			argIndex++
			continue
		}

		sqlOp, ok := comparisons[f.Operator]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrInvalidOperator, f.Operator)
		}

		if f.Value == nil {
			switch f.Operator {
			case OpEq:
				whereConditions = append(whereConditions, c.Name+" IS NULL")
			case OpNeq:
				whereConditions = append(whereConditions, c.Name+" IS NOT NULL")
			default:
				return "", nil, fmt.Errorf("%w: %s: null only supports eq/neq", ErrInvalidValue, f.Field)
			}
			continue
		}

		v, err := c.coerce(f.Value)
		if err != nil {
			return "", nil, err
		}
		whereConditions = append(whereConditions, fmt.Sprintf("%s %s %s", c.Name, sqlOp, c.placeholder(argIndex)))
		args = append(args, v)
		argIndex++
	}

	if len(whereConditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(whereConditions, " AND "), args, nil
}

func (s Schema) buildOrder(sorts []Sort) (string, error) {
	if len(sorts) == 0 {
		sorts = s.DefaultSort
	}
	if len(sorts) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(sorts))
	for _, o := range sorts {
		c, err := s.column(o.Field)
		if err != nil {
			return "", err
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, c.Name+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// BuildList renders the count query and the ranged data query for p.
// Both share the same WHERE clause.
func (s Schema) BuildList(p ListParams) (ListQuery, error) {
	where, args, err := s.buildWhere(p.Filters, nil)
	if err != nil {
		return ListQuery{}, err
	}
	order, err := s.buildOrder(p.Sorts)
	if err != nil {
		return ListQuery{}, err
	}

	page := p.Pagination.Normalize()
	n := len(args)

	dataArgs := make([]any, 0, n+2)
	dataArgs = append(dataArgs, args...)
	dataArgs = append(dataArgs, page.PageSize, page.Offset())

	return ListQuery{
		Count: Statement{
			SQL:  "SELECT COUNT(*) FROM " + s.Table + where,
			Args: args,
		},
		Data: Statement{
			SQL:  fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT $%d OFFSET $%d", s.selectList(), s.Table, where, order, n+1, n+2),
			Args: dataArgs,
		},
	}, nil
}

func (s Schema) BuildCount(filters []Filter) (Statement, error) {
	where, args, err := s.buildWhere(filters, nil)
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: "SELECT COUNT(*) FROM " + s.Table + where, Args: args}, nil
}

func (s Schema) BuildGetOne(id string) (Statement, error) {
	key := s.keyColumn()
	v, err := key.coerce(id)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		SQL:  fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", s.selectList(), s.Table, key.Name, key.placeholder(1)),
		Args: []any{v},
	}, nil
}

// BuildFindIn renders a membership lookup on field.
func (s Schema) BuildFindIn(field string, values []any) (Statement, error) {
	c, err := s.column(field)
	if err != nil {
		return Statement{}, err
	}

	list, err := c.coerceSlice(values)
	if err != nil {
		return Statement{}, err
	}

	placeholder := "$1"
	if c.Kind == KindUUID {
		placeholder = "$1::text[]::uuid[]"
	}
	return Statement{
		SQL:  fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY(%s)", s.selectList(), s.Table, c.Name, placeholder),
		Args: []any{list},
	}, nil
}

func (c Column) coerceSlice(values []any) (any, error) {
	switch c.Kind {
	case KindInt:
		out := make([]int64, 0, len(values))
		for _, v := range values {
			n, err := cast.ToInt64E(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Field, err)
			}
			out = append(out, n)
		}
		return out, nil
	case KindFloat, KindBool, KindTime:
		return nil, fmt.Errorf("%w: %s does not support membership lookups", ErrInvalidField, c.Field)
	default:
		out := make([]string, 0, len(values))
		for _, v := range values {
			str, err := cast.ToStringE(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, c.Field, err)
			}
			out = append(out, str)
		}
		return out, nil
	}
}

func (s Schema) BuildInsert(values map[string]any) (Statement, error) {
	return s.buildInsert(nil, values)
}

// BuildInsertKeyed is BuildInsert with an explicit primary key value.
func (s Schema) BuildInsertKeyed(id string, values map[string]any) (Statement, error) {
	return s.buildInsert(&id, values)
}

func (s Schema) buildInsert(id *string, values map[string]any) (Statement, error) {
	cols, args, err := s.writeValues(values)
	if err != nil {
		return Statement{}, err
	}

	if id != nil {
		key := s.keyColumn()
		v, err := key.coerce(*id)
		if err != nil {
			return Statement{}, err
		}
		cols = append([]Column{key}, cols...)
		args = append([]any{v}, args...)
	}

	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, c := range cols {
		names = append(names, c.Name)
		placeholders = append(placeholders, c.placeholder(i+1))
	}

	return Statement{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			s.Table, strings.Join(names, ", "), strings.Join(placeholders, ", "), s.selectList()),
		Args: args,
	}, nil
}

func (s Schema) BuildUpdate(id string, values map[string]any) (Statement, error) {
	cols, args, err := s.writeValues(values)
	if err != nil {
		return Statement{}, err
	}

	key := s.keyColumn()
	keyValue, err := key.coerce(id)
	if err != nil {
		return Statement{}, err
	}

	sets := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = %s", c.Name, c.placeholder(i+1)))
	}
	if s.Touch != "" {
		sets = append(sets, s.Touch+" = NOW()")
	}
	args = append(args, keyValue)

	return Statement{
		SQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s RETURNING %s",
			s.Table, strings.Join(sets, ", "), key.Name, key.placeholder(len(args)), s.selectList()),
		Args: args,
	}, nil
}

func (s Schema) BuildDelete(id string) (Statement, error) {
	if s.ReadOnly {
		return Statement{}, fmt.Errorf("%w: %s", ErrReadOnly, s.Resource)
	}
	key := s.keyColumn()
	v, err := key.coerce(id)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s = %s", s.Table, key.Name, key.placeholder(1)),
		Args: []any{v},
	}, nil
}
