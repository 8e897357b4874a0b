package provider

import "context"

// Middleware decorates a RequestResponse, typically with a cross-cutting
// concern such as logging, tracing or metrics.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain folds middlewares into one; the first argument ends up outermost,
// so Chain(a, b)(p) behaves like a(b(p)).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			p = middlewares[i](p)
		}
		return p
	}
}

// Adapt exposes a backend provider speaking [BI, BO] as a provider speaking
// [I, O]. toBackend builds the backend request and fromBackend turns the
// backend reply into the caller's type; an error from either aborts the call.
func Adapt[I, O, BI, BO any](
	backend RequestResponse[BI, BO],
	name string,
	toBackend func(ctx context.Context, input I) (BI, error),
	fromBackend func(output BO) (O, error),
) RequestResponse[I, O] {
	return &adapter[I, O, BI, BO]{backend: backend, name: name, in: toBackend, out: fromBackend}
}

type adapter[I, O, BI, BO any] struct {
	backend RequestResponse[BI, BO]
	name    string
	in      func(context.Context, I) (BI, error)
	out     func(BO) (O, error)
}

func (a *adapter[I, O, BI, BO]) Name() string                         { return a.name }
func (a *adapter[I, O, BI, BO]) IsAvailable(ctx context.Context) bool { return a.backend.IsAvailable(ctx) }

func (a *adapter[I, O, BI, BO]) Execute(ctx context.Context, input I) (O, error) {
	var zero O
	req, err := a.in(ctx, input)
	if err != nil {
		return zero, err
	}
	reply, err := a.backend.Execute(ctx, req)
	if err != nil {
		return zero, err
	}
	return a.out(reply)
}
