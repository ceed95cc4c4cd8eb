package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError
	ConfigFileError

	// Logging errors
	CreateLogFileError

	// Region document errors
	RegionDecodeError
	RegionNameMissingError
	RegionGeometryError
	RegionEmptyError

	// Observation document errors
	ObservationDecodeError
	ObservationShapeError
	ObservationLabelMissingError

	// Pipeline errors
	LoadCancelledError
	TaxaParserCodeError
	ExportEncodeError
	MetricsWriteError
)
