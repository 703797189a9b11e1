package core

import (
	"github.com/stretchr/testify/mock"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// MockLogger is a testify mock of core.Logger
type MockLogger struct {
	mock.Mock
}

var _ coreport.Logger = (*MockLogger)(nil)

// NewMockLogger creates a mock that asserts its expectations on cleanup
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	m := &MockLogger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// NewPermissiveLogger returns a mock that accepts any log call
func NewPermissiveLogger() *MockLogger {
	m := &MockLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("With", mock.Anything).Return(m).Maybe()
	m.On("Flush").Return(nil).Maybe()
	return m
}

// SetLevel mocks Logger.SetLevel
func (m *MockLogger) SetLevel(level coreport.LogLevel) {
	m.Called(level)
}

// GetLevel mocks Logger.GetLevel
func (m *MockLogger) GetLevel() coreport.LogLevel {
	args := m.Called()
	return args.Get(0).(coreport.LogLevel)
}

// With mocks Logger.With
func (m *MockLogger) With(fields map[string]any) coreport.Logger {
	args := m.Called(fields)
	return args.Get(0).(coreport.Logger)
}

// Debug mocks Logger.Debug
func (m *MockLogger) Debug(message string, fields map[string]any) {
	m.Called(message, fields)
}

// Info mocks Logger.Info
func (m *MockLogger) Info(message string, fields map[string]any) {
	m.Called(message, fields)
}

// Warn mocks Logger.Warn
func (m *MockLogger) Warn(message string, fields map[string]any) {
	m.Called(message, fields)
}

// Error mocks Logger.Error
func (m *MockLogger) Error(message string, fields map[string]any) {
	m.Called(message, fields)
}

// Flush mocks Logger.Flush
func (m *MockLogger) Flush() error {
	args := m.Called()
	return args.Error(0)
}
