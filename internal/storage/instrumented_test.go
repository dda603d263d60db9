package storage

import (
	"testing"
	"time"
)

type fakeLatencyRecorder struct {
	ops []string
}

func (f *fakeLatencyRecorder) RecordStorageLatency(op string, d time.Duration) {
	f.ops = append(f.ops, op)
}

func TestInstrumentedBackend_RecordsEachOperation(t *testing.T) {
	recorder := &fakeLatencyRecorder{}
	backend := NewInstrumentedBackend(NewMemoryBackend(), recorder)

	if err := backend.Write("knowledge-1.json", []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := backend.Read("knowledge-1.json"); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, err := backend.List(); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := backend.Remove("knowledge-1.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	want := []string{"write", "read", "list", "remove"}
	if len(recorder.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", recorder.ops, want)
	}
	for i, op := range want {
		if recorder.ops[i] != op {
			t.Errorf("ops[%d] = %q, want %q", i, recorder.ops[i], op)
		}
	}
}

func TestInstrumentedBackend_PassesThroughErrors(t *testing.T) {
	recorder := &fakeLatencyRecorder{}
	backend := NewInstrumentedBackend(NewMemoryBackend(), recorder)

	_, err := backend.Read("missing.json")
	if !IsNotExist(err) {
		t.Errorf("Read(missing) error = %v, want not-exist", err)
	}
	if err := backend.Remove("missing.json"); !IsNotExist(err) {
		t.Errorf("Remove(missing) error = %v, want not-exist", err)
	}

	// エラー時も所要時間は記録される
	if len(recorder.ops) != 2 {
		t.Errorf("ops = %v, want 2 entries", recorder.ops)
	}
}
