package logging

import (
	"fmt"
	"log"
	"runtime"
	"time"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be passed
// to literally every function in the project.
var (
	Mode Flag = Nil
)

// MemString returns a string containing various statistics on the current
// memory usage of the process.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}

// Step logs the elapsed time and memory usage of a pipeline stage when
// performance logging is on, and returns the current time so calls can be
// chained: t = logging.Step(t, "loaded particles").
func Step(start time.Time, desc string) time.Time {
	now := time.Now()
	if Mode >= Performance {
		log.Printf("%s: %v (%s)", desc, now.Sub(start), MemString())
	}
	return now
}

// Debugf logs only in debug mode.
func Debugf(format string, args ...interface{}) {
	if Mode >= Debug {
		log.Printf(format, args...)
	}
}
