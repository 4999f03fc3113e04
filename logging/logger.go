package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tempolabs/drover/logging/colors"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated when the orchestrator is created.
// Each module/package should create its own sub-logger. This allows to create unique logging instances depending on
// the use case.
var GlobalLogger *Logger

// Logger describes a custom logging object that can log events to any arbitrary channel and can handle specialized
// output to console as well.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// structuredLogger describes a logger that will be used to output structured logs to any arbitrary channel(s).
	structuredLogger zerolog.Logger

	// structuredWriters describes the list of io.Writer objects where structured logs will go.
	structuredWriters []io.Writer

	// unstructuredLogger describes a logger that will be used to output unstructured logs to any arbitrary channel(s).
	unstructuredLogger zerolog.Logger

	// unstructuredWriters describes the list of io.Writer objects where unstructured logs will go.
	unstructuredWriters []io.Writer

	// unstructuredColorLogger describes a logger that will be used to output unstructured, colorized output to
	// console. A separate logger is kept for console so that specialized formatting and coloring is supported.
	unstructuredColorLogger zerolog.Logger

	// unstructuredColorWriters describes the list of io.Writer objects where unstructured, colorized logs will go.
	unstructuredColorWriters []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. By default, a Logger has no writers attached
// to it; writers must be added with Logger.AddWriter.
func NewLogger(level zerolog.Level) *Logger {
	return &Logger{
		level:                    level,
		structuredLogger:         zerolog.New(os.Stdout).Level(zerolog.Disabled),
		structuredWriters:        make([]io.Writer, 0),
		unstructuredLogger:       zerolog.New(os.Stdout).Level(zerolog.Disabled),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorLogger:  zerolog.New(os.Stdout).Level(zerolog.Disabled),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	return &Logger{
		level:                    l.level,
		structuredLogger:         l.structuredLogger.With().Str(key, value).Logger(),
		structuredWriters:        l.structuredWriters,
		unstructuredLogger:       l.unstructuredLogger.With().Str(key, value).Logger(),
		unstructuredWriters:      l.unstructuredWriters,
		unstructuredColorLogger:  l.unstructuredColorLogger.With().Str(key, value).Logger(),
		unstructuredColorWriters: l.unstructuredColorWriters,
	}
}

// AddWriter will add a writer to the list of channels where log output will be sent. Output will be in the provided
// format and, for unstructured output, optionally colorized.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	// Check to see if the writer is already tracked for this format
	for _, w := range l.writersFor(format, colored) {
		if writer == w {
			return
		}
	}

	// Add the writer to the appropriate list and rebuild the backing zerolog logger
	switch {
	case format == STRUCTURED:
		l.structuredWriters = append(l.structuredWriters, writer)
		l.structuredLogger = zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).Level(l.level).With().Timestamp().Logger()
	case colored:
		consoleWriter := setupDefaultFormatting(zerolog.ConsoleWriter{Out: writer}, l.level)
		l.unstructuredColorWriters = append(l.unstructuredColorWriters, writer)
		l.unstructuredColorLogger = zerolog.New(consoleWriter).Level(l.level)
	default:
		l.unstructuredWriters = append(l.unstructuredWriters, writer)
		l.unstructuredLogger = zerolog.New(zerolog.ConsoleWriter{Out: zerolog.MultiLevelWriter(l.unstructuredWriters...), NoColor: true}).Level(l.level)
	}
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op.
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	for i, w := range writers {
		if writer == w {
			writers = append(writers[:i], writers[i+1:]...)
		}
	}

	switch {
	case format == STRUCTURED:
		l.structuredWriters = writers
	case colored:
		l.unstructuredColorWriters = writers
	default:
		l.unstructuredWriters = writers
	}
}

// writersFor returns the list of writers associated with the given format and color preference.
func (l *Logger) writersFor(format LogFormat, colored bool) []io.Writer {
	switch {
	case format == STRUCTURED:
		return l.structuredWriters
	case colored:
		return l.unstructuredColorWriters
	default:
		return l.unstructuredWriters
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.structuredLogger = l.structuredLogger.Level(level)
	l.unstructuredLogger = l.unstructuredLogger.Level(level)
	l.unstructuredColorLogger = l.unstructuredColorLogger.Level(level)
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, args...)
}

// log builds the colorized and non-colorized messages from the variadic argument list and emits them to every
// underlying logger at the given level.
func (l *Logger) log(level zerolog.Level, args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	colorMsg, plainMsg, err, info := buildMsgs(args...)

	// Instantiate log events for each underlying logger
	structuredLog := l.structuredLogger.WithLevel(level)
	unstructuredLog := l.unstructuredLogger.WithLevel(level)
	colorLog := l.unstructuredColorLogger.WithLevel(level)

	// Chain the error and any structured info to each event. Stack traces are added when debugging is enabled, or
	// always for panics.
	debug := l.level <= zerolog.DebugLevel || level == zerolog.PanicLevel
	for _, event := range []*zerolog.Event{structuredLog, unstructuredLog, colorLog} {
		event.Err(err)
		if debug {
			event.Stack()
		}
		if info != nil {
			event.Any("info", info)
		}
	}

	// Append the messages to each event. This also results in the log events being sent out to their respective
	// streams. The structured message is deferred so that, when logging a panic, all channels receive the log.
	defer structuredLog.Msg(plainMsg)
	unstructuredLog.Msg(plainMsg)
	colorLog.Msg(colorMsg)
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string is a colorized message for console output
// while the second is a non-colorized one for file/structured logging. The error and the StructuredLogInfo can be
// used to add additional context to log messages.
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	colorOutput := make([]string, 0)
	plainOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		default:
			// In the base case, append the object to the two string buffers. The colorized string buffer will have
			// the current color context applied to it.
			colorOutput = append(colorOutput, colorCtx(t))
			plainOutput = append(plainOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(colorOutput, ""), strings.Join(plainOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the drover standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		// Create a level object for better switch logic
		level, err := zerolog.ParseLevel(i.(string))
		if err != nil {
			panic(fmt.Sprintf("unable to parse the log level: %v", err))
		}

		// Switch on the level and return a custom, colored string
		switch level {
		case zerolog.TraceLevel:
			return colors.CyanBold(zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return colors.BlueBold(zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return colors.GreenBold(colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return colors.YellowBold(zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return colors.RedBold(zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return colors.RedBold(zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return colors.RedBold(zerolog.LevelPanicValue)
		default:
			return i.(string)
		}
	}

	// If we are above debug level, we want to get rid of the `module` component when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
