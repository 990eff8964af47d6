package service

import "time"

const (
	MaxAmount          = 1_000_000_000.0 // 1 billón
	MaxRate            = 100.0           // 100% anual
	MaxYears           = 50
	MaxPaymentsPerYear = 52 // semanal

	DefaultCacheTTL = time.Hour
)
