package main

import (
	"context"
	"fmt"
	"sync"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// MockMiner records how it was driven.
type MockMiner struct {
	RunCalled          bool
	PrintSummaryCalled bool
	RunErr             error
}

func (m *MockMiner) Run(ctx context.Context) error {
	m.RunCalled = true
	return m.RunErr
}

func (m *MockMiner) PrintSummary() {
	m.PrintSummaryCalled = true
}

// MockLocker implements Locker without touching the filesystem.
type MockLocker struct {
	AcquireCalled bool
	ReleaseCalled bool
	AcquireErr    error
	ReleaseErr    error
}

func (m *MockLocker) Acquire() error {
	m.AcquireCalled = true
	return m.AcquireErr
}

func (m *MockLocker) Release() error {
	m.ReleaseCalled = true
	return m.ReleaseErr
}

// MockLogger collects user-facing output.
type MockLogger struct {
	mu          sync.Mutex
	Messages    []string
	CloseCalled bool
}

func (m *MockLogger) record(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Info(format string, args ...interface{})          { m.record(format, args...) }
func (m *MockLogger) Warning(format string, args ...interface{})       { m.record(format, args...) }
func (m *MockLogger) Error(format string, args ...interface{})         { m.record(format, args...) }
func (m *MockLogger) InfoToUser(format string, args ...interface{})    { m.record(format, args...) }
func (m *MockLogger) WarningToUser(format string, args ...interface{}) { m.record(format, args...) }
func (m *MockLogger) Success(format string, args ...interface{})       { m.record(format, args...) }
func (m *MockLogger) StatusMessage(format string, args ...interface{}) { m.record(format, args...) }
func (m *MockLogger) Progress(format string, args ...interface{})      {}

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

// MockStore is a CommitStore that is never read; it only satisfies the
// interface so the app skips opening a real repository.
type MockStore struct{}

func (MockStore) ReadCurrent(context.Context) ([]byte, string, error) {
	return nil, "", vainErrors.New("not implemented")
}

func (MockStore) VerifyHash(context.Context, []byte) (string, error) {
	return "", vainErrors.New("not implemented")
}

func (MockStore) ReplaceCurrent(context.Context, []byte, string) error {
	return vainErrors.New("not implemented")
}

// MockDefaults supplies vain.default.
type MockDefaults struct {
	Pattern string
	Err     error
}

func (m MockDefaults) DefaultPattern(context.Context) (string, error) {
	return m.Pattern, m.Err
}
