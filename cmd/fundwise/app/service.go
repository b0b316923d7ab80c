package app

import (
	"context"

	"fundwise/internal/api"
)

// Service is the remote recommendation service surface the screens
// depend on. api.Client implements it; tests substitute fakes.
type Service interface {
	Login(ctx context.Context, creds api.Credentials) (string, error)
	Register(ctx context.Context, creds api.Credentials) (string, error)
	Schemes(ctx context.Context) ([]api.SchemeEntry, error)
	RecommendNew(ctx context.Context, profile api.NewInvestorProfile) ([]api.Fund, error)
	RecommendExisting(ctx context.Context, position api.HeldPosition) (*api.Comparison, error)
}
