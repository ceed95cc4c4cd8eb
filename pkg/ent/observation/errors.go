package observation

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
)

// ShapeError is returned when the document is neither a mapping of
// groups nor a list of entries.
func ShapeError(reason string) error {
	msg := `Observation document has unexpected shape: %s

<em>Expected one of:</em>
  - {"key": {"label": ..., "scientificTaxa": [...], "entries": [...]}}
  - [{"label": ..., "latitude": ..., "longitude": ...}]`
	vars := []any{reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObservationShapeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: unexpected shape: %w",
			fn.Name(), errors.New(reason)),
	}
}

// DecodeError wraps JSON decoding failures. Key is the group key when
// the failure happened inside a group.
func DecodeError(key string, err error) error {
	msg := "Cannot decode observation document"
	var vars []any
	if key != "" {
		msg = "Cannot decode observation group <em>%s</em>"
		vars = []any{key}
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObservationDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode observations: %w", fn.Name(), err),
	}
}

// LabelMissingError is returned when a group or a flat entry has no
// common name label.
func LabelMissingError(where string) error {
	msg := "Observation label is missing in <em>%s</em>"
	vars := []any{where}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ObservationLabelMissingError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: label missing in %s", fn.Name(), where),
	}
}
