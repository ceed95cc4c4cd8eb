package ioload

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
)

// RegionDecodeError is returned when the region document is not a
// GeoJSON FeatureCollection.
func RegionDecodeError(path string, err error) error {
	msg := `Region data is unavailable: <em>%s</em> is not a GeoJSON FeatureCollection`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %s: %w", fn.Name(), path, err),
	}
}

// LoadCancelledError is returned when loading stops because of another
// failure or an interrupt.
func LoadCancelledError(path string, err error) error {
	msg := "Loading of <em>%s</em> was cancelled"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: load of %s cancelled: %w", fn.Name(), path, err),
	}
}
