// Package logging is the dashboard's leveled logger. All packages log through it so a single
// --log-level flag controls verbosity for the poller, the charts and the hosts.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level orders messages; anything below the configured level is dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String is the tag printed in front of each line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

var byName = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var threshold atomic.Int32

func init() { threshold.Store(int32(LevelInfo)) }

var out = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// ParseLevel accepts debug, info, warn/warning or error in any case.
func ParseLevel(s string) (Level, bool) {
	l, ok := byName[strings.ToLower(strings.TrimSpace(s))]
	return l, ok
}

// SetLevel changes the threshold. A name ParseLevel rejects leaves it unchanged.
func SetLevel(s string) {
	if l, ok := ParseLevel(s); ok {
		threshold.Store(int32(l))
	}
}

func GetLevel() Level { return Level(threshold.Load()) }

// SetOutput sends log lines to w.
func SetOutput(w io.Writer) { out.SetOutput(w) }

func emit(l Level, format string, args []interface{}) {
	if l < GetLevel() {
		return
	}
	msg := format
	// a bare message is printed as is: keyword labels and percentages contain '%'
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	out.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a) }

// TimeTrack logs at debug level how long has passed since start:
//
//	defer logging.TimeTrack(time.Now(), "stats fetch")
func TimeTrack(start time.Time, label string) {
	if GetLevel() > LevelDebug {
		return
	}
	Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
}
