package router

import (
	"fmt"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

// Action names one of the CRUD handlers a resource exposes.
type Action string

const (
	ActionIndex   Action = "index"
	ActionStore   Action = "store"
	ActionShow    Action = "show"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"
)

// Actions returns every resource action in registration order.
func Actions() []Action {
	return []Action{ActionIndex, ActionStore, ActionShow, ActionUpdate, ActionDestroy}
}

// Controller handles a collection of items addressed by a T identifier.
type Controller[T any] interface {
	Index(ctx *handler.Context) (*message.Response, error)
	Store(ctx *handler.Context) (*message.Response, error)
	Show(ctx *handler.Context, item T) (*message.Response, error)
	Update(ctx *handler.Context, item T) (*message.Response, error)
	Destroy(ctx *handler.Context, item T) (*message.Response, error)
}

// ResourceParam is the path parameter holding the item identifier.
const ResourceParam = "id"

// Resource registers the CRUD routes of c under path:
//
//	GET    path          Index
//	POST   path          Store
//	GET    path/{id:T}   Show
//	PUT    path/{id:T}   Update
//	PATCH  path/{id:T}   Update
//	DELETE path/{id:T}   Destroy
//
// Only the listed actions are registered; none means all. T must be bound in
// the router's param types, otherwise Resource panics with ErrUnknownParamType.
func Resource[T any](b *Builder, path string, c Controller[T], actions ...Action) {
	typeName, ok := ParamTypeName[T](b.router.types)
	if !ok {
		var zero T
		panic(fmt.Errorf("%w: no route param type bound to %T", ErrUnknownParamType, zero))
	}
	if len(actions) == 0 {
		actions = Actions()
	}

	item := joinPath(path, "/{"+ResourceParam+":"+typeName+"}")
	withItem := func(fn func(*handler.Context, T) (*message.Response, error)) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			id, _ := handler.ParamAs[T](ctx, ResourceParam)
			return fn(ctx, id)
		}
	}

	for _, action := range actions {
		switch action {
		case ActionIndex:
			b.Get(path, c.Index)
		case ActionStore:
			b.Post(path, c.Store)
		case ActionShow:
			b.Get(item, withItem(c.Show))
		case ActionUpdate:
			h := withItem(c.Update)
			b.Put(item, h)
			b.Patch(item, h)
		case ActionDestroy:
			b.Delete(item, withItem(c.Destroy))
		default:
			panic(fmt.Errorf("router: unknown resource action %q", action))
		}
	}
}
