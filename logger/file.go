package logger

import (
	"io"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOutput returns the writer for a log destination.
//
//	""          -> nil, keep the current output
//	"/dev/null" -> io.Discard
//	otherwise   -> a size-rotated file
func FileOutput(filename string) io.Writer {
	filename = strings.TrimSpace(filename)
	switch filename {
	case "":
		return nil
	case "/dev/null":
		return io.Discard
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    32, // megabytes
		MaxBackups: 8,
		MaxAge:     15, // days
		Compress:   true,
	}
}

// SetFile redirects l to filename. An empty filename leaves l untouched.
func SetFile(l Logger, filename string) {
	if w := FileOutput(filename); w != nil {
		l.SetOutput(w)
	}
}
