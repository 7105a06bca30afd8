package logger

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap logger. A captured logger additionally buffers its
// output so it can be rendered as HTML in the web demo.
type Logger struct {
	log *zap.Logger
	buf *bytes.Buffer
}

// New returns a logger writing colored console output to stderr.
func New(level zapcore.Level) *Logger {
	return &Logger{log: build(zapcore.AddSync(os.Stderr), level)}
}

// NewCaptured returns a debug-level logger whose output is kept in an
// internal buffer, readable via HTML.
func NewCaptured() *Logger {
	buf := &bytes.Buffer{}
	return &Logger{log: build(zapcore.AddSync(buf), zap.DebugLevel), buf: buf}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{log: zap.NewNop()}
}

func build(sink zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorCode string
	switch level {
	case zapcore.DebugLevel:
		colorCode = "\033[36m" // cyan
	case zapcore.InfoLevel:
		colorCode = "\033[32m" // green
	case zapcore.WarnLevel:
		colorCode = "\033[33m" // yellow
	case zapcore.ErrorLevel:
		colorCode = "\033[31m" // red
	default:
		colorCode = "\033[0m"
	}
	enc.AppendString(colorCode + level.String() + "\033[0m")
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.log.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.log.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.log.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.log.Error(msg, fields...) }

// HTML renders the captured output as an HTML fragment, translating the
// ANSI color codes. Empty for non-captured loggers.
func (l *Logger) HTML() string {
	if l.buf == nil {
		return ""
	}
	return ansiToHTML(l.buf.String())
}

// Reset discards the captured output.
func (l *Logger) Reset() {
	if l.buf != nil {
		l.buf.Reset()
	}
}

var ansiRe = regexp.MustCompile(`\033\[(\d+)m`)

var colorMap = map[string]string{
	"31": "red",
	"32": "green",
	"33": "yellow",
	"34": "blue",
	"36": "cyan",
}

// ansiToHTML converts ANSI color escapes to span tags with inline
// styles, wrapping the whole thing in <pre> to keep the alignment.
func ansiToHTML(input string) string {
	var result strings.Builder
	var lastIndex int
	open := false

	result.WriteString("<pre>")
	for _, match := range ansiRe.FindAllStringIndex(input, -1) {
		start, end := match[0], match[1]
		if start > lastIndex {
			result.WriteString(input[lastIndex:start])
		}
		code := input[start+2 : end-1]
		if color, ok := colorMap[code]; ok {
			if open {
				result.WriteString("</span>")
			}
			result.WriteString(`<span style="color: ` + color + `;">`)
			open = true
		} else if code == "0" && open {
			result.WriteString("</span>")
			open = false
		}
		lastIndex = end
	}
	if lastIndex < len(input) {
		result.WriteString(input[lastIndex:])
	}
	if open {
		result.WriteString("</span>")
	}
	result.WriteString("</pre>")
	return result.String()
}
