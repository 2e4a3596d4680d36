package messaging

import "context"

// Local delivers requests to a Handler in the same process. A handler error
// becomes a failed Response, so callers see the same envelope they would
// get over HTTP.
type Local struct {
	handler Handler
}

// NewLocal returns a transport calling h directly.
func NewLocal(h Handler) *Local {
	return &Local{handler: h}
}

func (l *Local) Do(ctx context.Context, req Request) (Response, error) {
	resp, err := l.handler.Handle(ctx, req)
	if err != nil {
		return Fail(err), nil
	}
	return resp, nil
}
