package reservation

import "github.com/m04kA/SMC-BookingCore/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
