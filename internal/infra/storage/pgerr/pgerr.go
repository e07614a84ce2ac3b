package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

const (
	UniqueViolation      = "23505"
	ExclusionViolation   = "23P01"
	CheckViolation       = "23514"
	SerializationFailure = "40001"
)

// Code SQLSTATE of err, or "" if err is not a Postgres error
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return Code(err) == UniqueViolation
}

func IsExclusionViolation(err error) bool {
	return Code(err) == ExclusionViolation
}

func IsCheckViolation(err error) bool {
	return Code(err) == CheckViolation
}
