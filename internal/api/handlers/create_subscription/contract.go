package create_subscription

import (
	"context"

	createSubscription "github.com/amar4h/rituyog-booking/internal/usecase/create_subscription"
)

type CreateSubscriptionUseCase interface {
	Execute(ctx context.Context, req *createSubscription.Request) (*createSubscription.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
