package loggerr

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// render builds the bytes for one record:
//
//	[stamp]:[LEVEL]:[name]:[file:line]:message key=value
//
// The stamp is rendered in the spec's zone with the spec's date format and
// the file:line segment only appears when ShowLocation is set. The caller
// lookup happens here, before the instance lock is taken.
func (l *Logger) render(calldepth int, level Level, msg string, fields []any) []byte {
	buf := make([]byte, 0, 128) //nolint:gomnd

	buf = append(buf, '[')
	buf = time.Now().In(l.loc).AppendFormat(buf, l.spec.DateFormat)
	buf = append(buf, "]:["...)
	buf = append(buf, level.String()...)
	buf = append(buf, "]:["...)
	buf = append(buf, l.spec.Name...)
	buf = append(buf, "]:"...)

	if l.spec.ShowLocation {
		file, line := caller(calldepth + 1)
		buf = append(buf, '[')
		buf = append(buf, file...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(line), 10)
		buf = append(buf, "]:"...)
	}

	buf = append(buf, msg...)
	buf = appendFields(buf, fields)
	buf = append(buf, '\n')

	return buf
}

// appendFields writes key=value pairs after the message. An unpaired
// trailing element is written bare.
func appendFields(buf []byte, fields []any) []byte {
	for idx := 0; idx < len(fields); idx += 2 {
		buf = append(buf, ' ')

		if idx+1 >= len(fields) {
			buf = fmt.Append(buf, fields[idx])

			break
		}

		buf = fmt.Append(buf, fields[idx])
		buf = append(buf, '=')
		buf = fmt.Append(buf, fields[idx+1])
	}

	return buf
}

// caller returns the short file name and line of the log call site.
func caller(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???", 0
	}

	return filepath.Base(file), line
}
