package repositories

import (
	"context"
	"fmt"
	"sort"
)

// Accessor is a Table with its record type erased, so handlers can
// address resources by name.
type Accessor interface {
	Schema() Schema
	List(ctx context.Context, p ListParams) (ListResult[any], error)
	GetOne(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, values map[string]any) (any, error)
	Update(ctx context.Context, id string, values map[string]any) (any, error)
	Delete(ctx context.Context, id string) error
}

type erased[T any] struct {
	t *Table[T]
}

func Erase[T any](t *Table[T]) Accessor {
	return erased[T]{t: t}
}

func (e erased[T]) Schema() Schema { return e.t.Schema() }

func (e erased[T]) List(ctx context.Context, p ListParams) (ListResult[any], error) {
	res, err := e.t.List(ctx, p)
	if err != nil {
		return ListResult[any]{}, err
	}
	data := make([]any, len(res.Data))
	for i := range res.Data {
		data[i] = res.Data[i]
	}
	return ListResult[any]{Data: data, Total: res.Total}, nil
}

func (e erased[T]) GetOne(ctx context.Context, id string) (any, error) {
	return e.t.GetOne(ctx, id)
}

func (e erased[T]) Create(ctx context.Context, values map[string]any) (any, error) {
	return e.t.Create(ctx, values)
}

func (e erased[T]) Update(ctx context.Context, id string, values map[string]any) (any, error) {
	return e.t.Update(ctx, id, values)
}

func (e erased[T]) Delete(ctx context.Context, id string) error {
	return e.t.Delete(ctx, id)
}

// Provider resolves resource names to accessors.
type Provider struct {
	accessors map[string]Accessor
}

func NewProvider(accessors ...Accessor) *Provider {
	p := &Provider{accessors: map[string]Accessor{}}
	for _, a := range accessors {
		p.accessors[a.Schema().Resource] = a
	}
	return p
}

func (p *Provider) Resource(name string) (Accessor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: resource name is required", ErrUnknownResource)
	}
	a, ok := p.accessors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return a, nil
}

func (p *Provider) Resources() []string {
	names := make([]string, 0, len(p.accessors))
	for name := range p.accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bulk operations are not offered by this accessor.

func (p *Provider) GetMany(ctx context.Context, resource string, ids []string) error {
	return ErrUnsupported
}

func (p *Provider) CreateMany(ctx context.Context, resource string, values []map[string]any) error {
	return ErrUnsupported
}

func (p *Provider) UpdateMany(ctx context.Context, resource string, ids []string, values map[string]any) error {
	return ErrUnsupported
}

func (p *Provider) DeleteMany(ctx context.Context, resource string, ids []string) error {
	return ErrUnsupported
}
