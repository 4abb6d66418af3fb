package logger

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages carries every encoded log entry, cmd packages are responsible for draining it.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl   = 0
	WarningLvl = 1
	InfoLvl    = 2
	EventLvl   = 3
	ReadingLvl = 4

	DebugLvl = 378
)

var (
	Error   = zap.Int("level", ErrorLvl)
	Warning = zap.Int("level", WarningLvl)
	Info    = zap.Int("level", InfoLvl)
	Event   = zap.Int("level", EventLvl)   // joystick events
	Reading = zap.Int("level", ReadingLvl) // raw sensor readings

	Debug = zap.Int("level", DebugLvl)
)

var drained atomic.Bool

// SetDrained tells writers whether a consumer is draining Messages. While it is, a full
// channel makes Write wait instead of dropping the entry.
func SetDrained(v bool) {
	drained.Store(v)
}

type chanWriter struct {
	sync.Mutex
	messages chan<- []byte
}

// Write drops entries on a full channel only when nobody drains it (eg. in tests).
func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	defer w.Unlock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	if drained.Load() {
		w.messages <- newSlice
		return len(p), nil
	}
	select {
	case w.messages <- newSlice:
	default:
	}
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

func GetLogger() *zap.Logger {
	return newLogger(Messages)
}

func newLogger(messages chan<- []byte) *zap.Logger {
	writer := &chanWriter{messages: messages}
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)

	return zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(writer), zap.DebugLevel),
		zap.AddCaller(),
	)
}
