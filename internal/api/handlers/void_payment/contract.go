package void_payment

import (
	"context"

	voidPayment "github.com/m04kA/SMC-BookingCore/internal/usecase/void_payment"
)

type VoidPaymentUseCase interface {
	Execute(ctx context.Context, req *voidPayment.Request) (*voidPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
