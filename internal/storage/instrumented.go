package storage

import "time"

// LatencyRecorder はストレージ操作の所要時間を記録する。
type LatencyRecorder interface {
	RecordStorageLatency(op string, d time.Duration)
}

// InstrumentedBackend は各操作の所要時間をrecorderに記録するBackendデコレータ。
type InstrumentedBackend struct {
	inner    Backend
	recorder LatencyRecorder
}

var _ Backend = (*InstrumentedBackend)(nil)

// NewInstrumentedBackend はinnerの各操作を計測するBackendを生成する。
func NewInstrumentedBackend(inner Backend, recorder LatencyRecorder) *InstrumentedBackend {
	return &InstrumentedBackend{inner: inner, recorder: recorder}
}

func (b *InstrumentedBackend) EnsureDir() error {
	return b.inner.EnsureDir()
}

func (b *InstrumentedBackend) Read(name string) ([]byte, error) {
	start := time.Now()
	data, err := b.inner.Read(name)
	b.recorder.RecordStorageLatency("read", time.Since(start))
	return data, err
}

func (b *InstrumentedBackend) Write(name string, data []byte) error {
	start := time.Now()
	err := b.inner.Write(name, data)
	b.recorder.RecordStorageLatency("write", time.Since(start))
	return err
}

func (b *InstrumentedBackend) Remove(name string) error {
	start := time.Now()
	err := b.inner.Remove(name)
	b.recorder.RecordStorageLatency("remove", time.Since(start))
	return err
}

func (b *InstrumentedBackend) List() ([]string, error) {
	start := time.Now()
	names, err := b.inner.List()
	b.recorder.RecordStorageLatency("list", time.Since(start))
	return names, err
}
