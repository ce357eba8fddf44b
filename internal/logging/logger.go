package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	Logger = New(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// New builds a logger writing to w at the named level. Unknown or empty
// level names fall back to info.
func New(w io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(level))
	l.SetReportCaller(true)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		CallerPrettyfier: prettyCaller,
	})
	l.SetOutput(w)
	return l
}

// ParseLevel maps a LOG_LEVEL value to a logrus level.
func ParseLevel(s string) logrus.Level {
	if s == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// prettyCaller trims the caller to the bare function name and file:line.
func prettyCaller(f *runtime.Frame) (string, string) {
	return shortFuncName(f.Function), fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

// shortFuncName strips the import path and receiver from a qualified
// function name: "github.com/x/y/pkg.(*T).Method" becomes "Method".
func shortFuncName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}

// GetLogger returns the configured logger instance
func GetLogger() *logrus.Logger {
	return Logger
}
