package lifecycle

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMachineAlternativeHappyPath(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	for _, event := range []string{EventDispatch, EventMatch, EventValid} {
		if err := m.Fire(ctx, event); err != nil {
			t.Fatalf("fire %s: %v", event, err)
		}
	}
	if got := m.Current(); got != StateSuccess {
		t.Fatalf("expected %s, got %s", StateSuccess, got)
	}
}

func TestMachineMissEndsInRedisplay(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	if err := m.Fire(ctx, EventDispatch); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := m.Fire(ctx, EventMiss); err != nil {
		t.Fatalf("miss: %v", err)
	}
	if got := m.Current(); got != StateRedisplay {
		t.Fatalf("expected %s, got %s", StateRedisplay, got)
	}
}

func TestMachineRejectsIllegalTransition(t *testing.T) {
	m := New(nil)
	if err := m.Fire(context.Background(), EventValid); err == nil {
		t.Fatalf("expected valid from idle to fail")
	}
	if got := m.Current(); got != StateIdle {
		t.Fatalf("expected machine to stay idle, got %s", got)
	}
}

func TestMachineLogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := New(zap.New(core))

	if err := m.Fire(context.Background(), EventRender); err != nil {
		t.Fatalf("render: %v", err)
	}

	entries := logs.FilterMessage("request phase").All()
	if len(entries) != 1 {
		t.Fatalf("expected one transition log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["from"] != StateIdle || fields["to"] != StateRendering {
		t.Fatalf("unexpected transition fields: %#v", fields)
	}
}
