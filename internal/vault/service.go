package vault

import (
	"context"
	"time"
)

// Caller sends a payload to the vault. *Gateway is the production implementation.
type Caller interface {
	Call(ctx context.Context, p Payload) Result
}

// Service builds CRUD payloads and forwards them. Argument errors are returned
// before the caller is touched; remote failures are in the Result.
type Service struct {
	caller Caller
	now    func() time.Time
}

func NewService(caller Caller, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{caller: caller, now: now}
}

func (s *Service) Read(ctx context.Context, req ReadRequest) (Result, error) {
	p, err := BuildRead(req, s.now())
	if err != nil {
		return Result{}, err
	}
	return s.caller.Call(ctx, p), nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Result, error) {
	p, err := BuildCreate(req, s.now())
	if err != nil {
		return Result{}, err
	}
	return s.caller.Call(ctx, p), nil
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (Result, error) {
	p, err := BuildUpdate(req, s.now())
	if err != nil {
		return Result{}, err
	}
	return s.caller.Call(ctx, p), nil
}

func (s *Service) Delete(ctx context.Context, req DeleteRequest) (Result, error) {
	p, err := BuildDelete(req, s.now())
	if err != nil {
		return Result{}, err
	}
	return s.caller.Call(ctx, p), nil
}

// Now is the service clock, used to ground "today".
func (s *Service) Now() time.Time { return s.now() }
