package iofs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("read-only file system")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		path string
		msg  string
	}{
		{
			name: "create dir",
			err:  CreateDirError("/home/.cache/nemamap", cause),
			code: errcode.CreateDirError,
			path: "/home/.cache/nemamap",
			msg:  "Cannot create",
		},
		{
			name: "copy config",
			err:  CopyFileError("/home/.config/nemamap/config.yaml", cause),
			code: errcode.CopyFileError,
			path: "/home/.config/nemamap/config.yaml",
			msg:  "Cannot copy config file",
		},
		{
			name: "read regions",
			err:  ReadFileError("lga.geojson", cause),
			code: errcode.ReadFileError,
			path: "lga.geojson",
			msg:  "Cannot read",
		},
		{
			name: "write points",
			err:  WriteFileError("nemamap-out/points.json", cause),
			code: errcode.WriteFileError,
			path: "nemamap-out/points.json",
			msg:  "Cannot write",
		},
		{
			name: "bad config",
			err:  ConfigFileError("/home/.config/nemamap/config.yaml", cause),
			code: errcode.ConfigFileError,
			path: "/home/.config/nemamap/config.yaml",
			msg:  "How to fix",
		},
	}

	for _, v := range tests {
		t.Run(v.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, v.err, &gnErr)

			assert.Equal(t, v.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, v.msg)
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, v.path, gnErr.Vars[0])
			assert.Contains(t, fmt.Sprintf(gnErr.Msg, gnErr.Vars...), v.path)

			// internal error names the caller and keeps the cause
			assert.Contains(t, gnErr.Err.Error(), "iofs.TestErrors")
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}
