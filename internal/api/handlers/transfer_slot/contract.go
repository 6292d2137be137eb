package transfer_slot

import (
	"context"

	transferSlot "github.com/amar4h/rituyog-booking/internal/usecase/transfer_slot"
)

type TransferSlotUseCase interface {
	Execute(ctx context.Context, req *transferSlot.Request) (*transferSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
