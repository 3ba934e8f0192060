package authkit

import (
	"context"

	internalaudit "github.com/fieldform/authkit/internal/audit"
)

// auditDispatcher adapts the internal async dispatcher to the public
// AuditEvent/AuditSink types.
type auditDispatcher struct {
	inner *internalaudit.Dispatcher
}

// publicSinkAdapter lets the internal dispatcher deliver into a caller's
// AuditSink.
type publicSinkAdapter struct {
	sink AuditSink
}

func (a publicSinkAdapter) Emit(ctx context.Context, event internalaudit.Event) {
	a.sink.Emit(ctx, publicEvent(event))
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	inner := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    true,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, publicSinkAdapter{sink: sink})

	return &auditDispatcher{inner: inner}
}

func (d *auditDispatcher) emit(ctx context.Context, event AuditEvent) {
	if d == nil {
		return
	}
	d.inner.Emit(ctx, internalEvent(event))
}

func (d *auditDispatcher) close() {
	if d == nil {
		return
	}
	d.inner.Close()
}

func (d *auditDispatcher) dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.inner.Dropped()
}
