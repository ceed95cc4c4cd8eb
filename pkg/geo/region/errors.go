package region

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
)

// NameMissingError is returned when a feature has neither the configured
// name property nor "name".
func NameMissingError(feature int, field string) error {
	msg := `Region feature <em>%d</em> has no name

<em>Looked for properties:</em> %s, %s

<em>How to fix:</em>
  Set 'data.region_field' in config.yaml to the property
  that holds LGA names (for example LGA_NAME22)`
	vars := []any{feature, field, FallbackField}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionNameMissingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: feature %d has no %q property",
			fn.Name(), feature, field),
	}
}

// GeometryError is returned for regions that are not polygons.
func GeometryError(name, geoType string) error {
	msg := "Region <em>%s</em> has unsupported geometry <em>%s</em>"
	vars := []any{name, geoType}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionGeometryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: region %s: unsupported geometry %s",
			fn.Name(), name, geoType),
	}
}

// EmptyError is returned when the document has no usable regions.
func EmptyError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RegionEmptyError,
		Msg:  "Region document has no polygons",
		Err:  fmt.Errorf("from %s: %w", fn.Name(), errors.New("no regions")),
	}
}
