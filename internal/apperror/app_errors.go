package apperror

import "errors"

var (
	ErrConnectionClosed   = errors.New("connection is closed")
	ErrMalformedFrame     = errors.New("malformed frame")
	ErrRankingUnavailable = errors.New("ranking is unavailable")
	ErrJournalDisabled    = errors.New("match journal is disabled")
)
