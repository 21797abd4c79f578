package starlark

import "errors"

var ErrConversion = errors.New("starlark value conversion failed")
