// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stationgate/api/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogChange(ctx context.Context, log audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, from, to time.Time, userID, entityID string, limit, offset int) ([]audit.AuditLog, error) {
	args := m.Called(ctx, from, to, userID, entityID, limit, offset)
	var logs []audit.AuditLog
	if v := args.Get(0); v != nil {
		logs = v.([]audit.AuditLog)
	}
	return logs, args.Error(1)
}
