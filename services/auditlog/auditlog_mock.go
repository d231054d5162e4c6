package auditlog

import (
	"github.com/stretchr/testify/mock"

	"github.com/Curva95/discord-bot/models"
)

// MockAuditSink is a mock implementation of the AuditSink interface
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Publish(record models.AuditRecord) {
	m.Called(record)
}
