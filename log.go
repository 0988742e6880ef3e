package chalkfield

import "log"

// globalDebug mirrors the most recently set Engine debug flag so that asset
// pipeline code (which lacks an Engine pointer) can check it cheaply.
var globalDebug bool

func debugf(format string, args ...any) {
	if globalDebug {
		log.Printf("chalkfield: "+format, args...)
	}
}
