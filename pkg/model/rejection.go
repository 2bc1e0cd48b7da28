package model

import (
	"errors"
	"fmt"
)

// RejectReason is the machine-readable code returned when an admission attempt
// is turned down. Rejections are expected outcomes the caller can act on, as
// opposed to persistence failures which surface as internal errors.
type RejectReason string

const (
	ReasonInvalidWindow         RejectReason = "INVALID_WINDOW"
	ReasonDurationExceeded      RejectReason = "DURATION_EXCEEDED"
	ReasonWeekdayNotAllowed     RejectReason = "WEEKDAY_NOT_ALLOWED"
	ReasonOutsideOperatingHours RejectReason = "OUTSIDE_OPERATING_HOURS"
	ReasonQuotaExceeded         RejectReason = "QUOTA_EXCEEDED"
	ReasonOverlap               RejectReason = "OVERLAP"
	ReasonBusy                  RejectReason = "BUSY"
)

type Rejection struct {
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

func Reject(reason RejectReason, format string, args ...any) *Rejection {
	return &Rejection{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsRejection unwraps err into a Rejection if one is in the chain.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Retryable reports whether retrying the identical request can succeed.
// Only lock contention qualifies; every other reason requires a changed request.
func (r *Rejection) Retryable() bool {
	return r.Reason == ReasonBusy
}
