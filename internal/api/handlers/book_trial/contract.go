package book_trial

import (
	"context"

	bookTrial "github.com/amar4h/rituyog-booking/internal/usecase/book_trial"
)

type BookTrialUseCase interface {
	Execute(ctx context.Context, req *bookTrial.Request) (*bookTrial.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
