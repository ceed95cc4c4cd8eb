package ioexport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
)

// EncodeError is returned when an output document cannot be encoded.
func EncodeError(name string, err error) error {
	msg := "Cannot encode <em>%s</em>"
	vars := []any{name}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportEncodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot encode %s: %w", fn.Name(), name, err),
	}
}
