// Package logger re-exports the goLogger API under a local import path so
// call sites stay on one module-internal package.
package logger

import (
	goLogger "github.com/Bparsons0904/goLogger"
)

type Logger = goLogger.Logger

var (
	New                = goLogger.New
	ContextWithTraceID = goLogger.ContextWithTraceID
)
