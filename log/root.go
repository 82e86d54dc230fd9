package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

const (
	EngineMonitoring  = "um_mod"  // Execution engine
	SegmentMonitoring = "seg_mod" // Segment manager
	LoaderMonitoring  = "ld_mod"  // Program loader
)

var root atomic.Value

func init() {
	root.Store(NewLogger(gethlog.DiscardHandler()))
}

func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToUpper(lvl) {
	case "MAX", "MAXVERBOSITY":
		return levelMaxVerbosity, nil
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRIT", "CRITICAL":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", lvl)
	}
}

// Setup installs a terminal (or JSON) handler writing to w as the root logger.
func Setup(w io.Writer, logLevel string, jsonFormat bool) error {
	logLvl, err := ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if jsonFormat {
		SetDefault(NewLogger(gethlog.JSONHandlerWithLevel(w, logLvl)))
		return nil
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	SetDefault(NewLogger(gethlog.NewTerminalHandlerWithLevel(w, logLvl, useColor)))
	return nil
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

var defaultKnownModules = []string{EngineMonitoring, SegmentMonitoring, LoaderMonitoring}

// moduleEnabled keeps track of whether a module's Trace/Debug logging is enabled.
var moduleEnabled = initModules(defaultKnownModules)

func initModules(moduleList []string) map[string]bool {
	moduleMap := make(map[string]bool, len(moduleList))
	for _, module := range moduleList {
		moduleMap[module] = false
	}
	return moduleMap
}

// EnableModule enables logging for the specified module.
func EnableModule(module string) {
	moduleEnabled[module] = true
}

// DisableModule disables logging for the specified module.
func DisableModule(module string) {
	moduleEnabled[module] = false
}

// EnableModules enables a comma separated list of modules; "all" enables every known module.
func EnableModules(modules string) {
	for _, module := range strings.Split(modules, ",") {
		module = strings.TrimSpace(module)
		switch module {
		case "":
		case "all":
			for _, m := range defaultKnownModules {
				EnableModule(m)
			}
		default:
			EnableModule(module)
		}
	}
}

func isModuleEnabled(module string) bool {
	enabled, ok := moduleEnabled[module]
	return ok && enabled
}

// ModuleEnabled lets hot paths skip building Trace/Debug arguments for a disabled module.
func ModuleEnabled(module string) bool {
	return isModuleEnabled(module)
}

// Trace logs a message at the trace level for a specific module.
func Trace(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(LevelTrace, module, msg, ctx...)
}

// Debug logs a message at the debug level for a specific module.
func Debug(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(slog.LevelDebug, module, msg, ctx...)
}

// The rest of the logging functions (Info, Warn, Error, Crit) dont filter on module
func Info(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelError, module, msg, ctx...)
}

func Crit(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}

// New returns the root logger with ctx attached to every record.
func New(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}
