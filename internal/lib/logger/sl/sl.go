package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error. A nil error is rendered as an empty string
// so that callers may log unconditionally.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.String("error", err.Error())
}

// Op creates a slog.Attr naming the operation that emits the record.
func Op(opn string) slog.Attr {
	return slog.String("op", opn)
}
