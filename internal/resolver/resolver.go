package resolver

import (
	"context"

	"github.com/datallboy/godemo/internal/domain"
)

// Resolver maps a share code to the download URL of its replay.
type Resolver interface {
	Resolve(ctx context.Context, code domain.ShareCode) (domain.ResolvedURL, error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(ctx context.Context, code domain.ShareCode) (domain.ResolvedURL, error)

func (f Func) Resolve(ctx context.Context, code domain.ShareCode) (domain.ResolvedURL, error) {
	return f(ctx, code)
}

// Unavailable is used when the lookup tool could not be located. Every call
// fails with a ResolverError carrying the reason.
type Unavailable struct {
	Reason error
}

func (u Unavailable) Resolve(_ context.Context, code domain.ShareCode) (domain.ResolvedURL, error) {
	return domain.ResolvedURL{}, &domain.ResolverError{Code: code, Kind: domain.ResolverStartFailure, Err: u.Reason}
}

// ResolveAll resolves codes one at a time. The lookup tool is not assumed to be
// safe to run in parallel. onProgress is called after every attempt, whether it
// succeeded or not, and a failure never stops the remaining codes.
func ResolveAll(ctx context.Context, r Resolver, codes []domain.ShareCode, onProgress func(current, total int)) *domain.Resolution {
	res := &domain.Resolution{
		Found:    make([]domain.ResolvedURL, 0, len(codes)),
		NotFound: make([]domain.UnresolvedCode, 0),
	}

	for i, code := range codes {
		found, err := r.Resolve(ctx, code)
		if err != nil {
			res.NotFound = append(res.NotFound, domain.UnresolvedCode{Code: code, Error: err.Error()})
		} else {
			res.Found = append(res.Found, found)
		}

		if onProgress != nil {
			onProgress(i+1, len(codes))
		}
	}

	return res
}
