package parserpool

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
)

// CodeError is returned for nomenclatural codes the pool cannot parse.
func CodeError(code string) error {
	msg := `Unsupported nomenclatural code <em>%s</em>

<em>How to fix:</em>
  Set 'taxa.code' in config.yaml to 'zoological' or 'botanical'`
	vars := []any{code}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxaParserCodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unsupported code %q", fn.Name(), code),
	}
}
