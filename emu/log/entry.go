package log

import (
	"sync"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

// Context providers registered with AddContext contribute extra fields (for
// example the current CPU cycle) to every emitted entry.
type LogContext interface {
	AddLogContext(e *EntryZ)
}

var contexts []LogContext

func AddContext(c LogContext) {
	contexts = append(contexts, c)
}

func logger(mod Module) *logrus.Entry {
	return logrus.StandardLogger().WithField("_mod", modNames[mod])
}

// EntryZ is a log entry under construction. Methods that add fields return the
// entry itself so calls can be chained; the entry is emitted (and recycled) by
// End(). A nil *EntryZ is valid and does nothing, which is how entries for
// disabled modules cost nothing.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	return entryPool.Get().(*EntryZ)
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.zfidx < len(e.zfbuf) {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

// End emits the entry and releases it. The entry must not be used afterwards.
func (e *EntryZ) End() {
	if e == nil {
		return
	}
	for _, c := range contexts {
		c.AddLogContext(e)
	}

	fields := make(logrus.Fields, e.zfidx)
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	out := logger(e.mod).WithFields(fields)

	switch e.lvl {
	case DebugLevel:
		out.Debug(e.msg)
	case InfoLevel:
		out.Info(e.msg)
	case WarnLevel:
		out.Warn(e.msg)
	case ErrorLevel:
		out.Error(e.msg)
	case FatalLevel, PanicLevel:
		msg := e.msg
		e.release()
		out.Panic(msg) // panic rather than exit so tests can recover
		return
	}
	e.release()
}

func (e *EntryZ) release() {
	e.zfidx = 0
	e.msg = ""
	entryPool.Put(e)
}
