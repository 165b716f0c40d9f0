package sl

import (
	"golang.org/x/exp/slog"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

func Op(op string) slog.Attr {
	return slog.String("op", op)
}
