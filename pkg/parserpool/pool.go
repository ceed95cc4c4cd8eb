// Package parserpool keeps a pool of gnparser instances for parsing
// scientific names of nematode taxa concurrently.
package parserpool

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool parses scientific names with pooled parsers.
type Pool interface {
	// Code returns the nomenclatural code used by Parse.
	Code() nomcode.Code

	// Parse parses a name with the default code of the pool.
	Parse(nameString string) parsed.Parsed

	// ParseCode parses a name with the given code. Only botanical and
	// zoological codes are supported.
	ParseCode(nameString string, code nomcode.Code) (parsed.Parsed, error)

	// Close shuts down the pools. The pool cannot be used afterwards.
	Close()
}

// PoolImpl implements Pool with gnparser.NewPool channels.
type PoolImpl struct {
	code         nomcode.Code
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
	poolSize     int
}

// NewPool creates a pool with jobsNum parsers per code. If jobsNum is 0,
// runtime.NumCPU() is used. Nematodes are named under the zoological
// code, so an unsupported code falls back to it.
func NewPool(jobsNum int, code nomcode.Code) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}
	if !supported(code) {
		code = nomcode.Zoological
	}

	// WithDetails is needed for Words
	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)
	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
		gnparser.OptWithDetails(true),
	)

	return &PoolImpl{
		code:         code,
		botanicalCh:  gnparser.NewPool(botanicalCfg, poolSize),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, poolSize),
		poolSize:     poolSize,
	}
}

// CodeFromString converts a config value to a nomenclatural code.
func CodeFromString(s string) (nomcode.Code, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zoological", "zoo", "iczn":
		return nomcode.Zoological, nil
	case "botanical", "bot", "icn":
		return nomcode.Botanical, nil
	default:
		var code nomcode.Code
		return code, CodeError(s)
	}
}

// Code returns the default code of the pool.
func (p *PoolImpl) Code() nomcode.Code {
	return p.code
}

// Parse parses a name with the default code.
func (p *PoolImpl) Parse(nameString string) parsed.Parsed {
	res, _ := p.ParseCode(nameString, p.code)
	return res
}

// ParseCode takes a parser of the given code from the pool, parses the
// name and returns the parser back.
func (p *PoolImpl) ParseCode(
	nameString string,
	code nomcode.Code,
) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, CodeError(fmt.Sprintf("%v", code))
	}

	// blocks while all parsers are busy
	parser := <-ch
	res := parser.ParseName(nameString)
	ch <- parser

	return res, nil
}

// Close closes and drains both pools.
func (p *PoolImpl) Close() {
	for _, ch := range []chan gnparser.GNparser{p.botanicalCh, p.zoologicalCh} {
		if ch == nil {
			continue
		}
		close(ch)
		for range ch {
		}
	}
}

func supported(code nomcode.Code) bool {
	return code == nomcode.Botanical || code == nomcode.Zoological
}
