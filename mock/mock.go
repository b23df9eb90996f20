// Package mock provides test doubles for the core interfaces.
package mock

import (
	"context"

	"github.com/orin-ai/orin"
)

// LLMClientMock is a mock implementation of orin.LLMClient.
type LLMClientMock struct {
	NewSessionFunc func(ctx context.Context, options ...orin.SessionOption) (orin.Session, error)
}

func (m *LLMClientMock) NewSession(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
	return m.NewSessionFunc(ctx, options...)
}

// SessionMock is a mock implementation of orin.Session.
type SessionMock struct {
	GenerateContentFunc func(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error)
	HistoryFunc         func() []orin.Message
}

func (m *SessionMock) GenerateContent(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
	return m.GenerateContentFunc(ctx, prompt, options...)
}

func (m *SessionMock) History() []orin.Message {
	if m.HistoryFunc == nil {
		return nil
	}
	return m.HistoryFunc()
}

// RecordStoreMock is a mock implementation of orin.RecordStore.
type RecordStoreMock struct {
	AppendRecordFunc  func(ctx context.Context, record orin.MemoryRecord) error
	RecentRecordsFunc func(ctx context.Context, limit int) ([]orin.MemoryRecord, error)
}

func (m *RecordStoreMock) AppendRecord(ctx context.Context, record orin.MemoryRecord) error {
	if m.AppendRecordFunc == nil {
		return nil
	}
	return m.AppendRecordFunc(ctx, record)
}

func (m *RecordStoreMock) RecentRecords(ctx context.Context, limit int) ([]orin.MemoryRecord, error) {
	if m.RecentRecordsFunc == nil {
		return nil, nil
	}
	return m.RecentRecordsFunc(ctx, limit)
}

// MetricStoreMock is a mock implementation of orin.MetricStore.
type MetricStoreMock struct {
	SaveMetricFunc func(ctx context.Context, metric orin.Metric) error
}

func (m *MetricStoreMock) SaveMetric(ctx context.Context, metric orin.Metric) error {
	if m.SaveMetricFunc == nil {
		return nil
	}
	return m.SaveMetricFunc(ctx, metric)
}
