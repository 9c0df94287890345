// dao/module_permission_dao_test.go
package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stationgate/api/dao"
	stationgate_errors "github.com/stationgate/api/errors"
	"github.com/stationgate/api/model"
	mocks "github.com/stationgate/api/test/mock"
)

func newModulePermissionDAO(t *testing.T) *dao.ModulePermissionDAO {
	auditSvc := new(mocks.MockAuditService)
	auditSvc.On("LogChange", mock.Anything, mock.Anything).Return(nil)
	return dao.NewModulePermissionDAO(openTestDB(t), auditSvc)
}

func TestModulePermissionDAOInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an id", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		created, err := d.InsertModulePermission(ctx, model.ModulePermission{
			ModuleKey: "orders", DisplayName: "Orders", CanView: true,
		}, "user-42")
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("duplicate module key maps to conflict", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		_, err := d.InsertModulePermission(ctx, model.ModulePermission{ModuleKey: "orders", CanView: true}, "user-42")
		assert.NoError(t, err)

		_, err = d.InsertModulePermission(ctx, model.ModulePermission{ModuleKey: "orders", CanView: true}, "user-42")
		assert.ErrorIs(t, err, stationgate_errors.ErrModulePermissionConflict)
	})
}

func TestModulePermissionDAOList(t *testing.T) {
	ctx := context.Background()
	d := newModulePermissionDAO(t)

	for _, key := range []string{"reports", "customers", "orders"} {
		_, err := d.InsertModulePermission(ctx, model.ModulePermission{ModuleKey: key, CanView: true}, "user-42")
		assert.NoError(t, err)
	}

	rows, err := d.ListModulePermissions(ctx)
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	// Stable module-key order.
	assert.Equal(t, "customers", rows[0].ModuleKey)
	assert.Equal(t, "orders", rows[1].ModuleKey)
	assert.Equal(t, "reports", rows[2].ModuleKey)
}

func TestModulePermissionDAOUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patch flips a single flag", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		created, err := d.InsertModulePermission(ctx, model.ModulePermission{ModuleKey: "orders", CanView: true}, "user-42")
		assert.NoError(t, err)

		updated, err := d.UpdateModulePermission(ctx, created.ID, map[string]interface{}{"can_edit": true}, "user-42")
		assert.NoError(t, err)
		assert.True(t, updated.CanEdit)
		assert.True(t, updated.CanView)
		assert.False(t, updated.CanCreate)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		_, err := d.UpdateModulePermission(ctx, "missing", map[string]interface{}{"can_edit": true}, "user-42")
		assert.ErrorIs(t, err, stationgate_errors.ErrModulePermissionNotFound)
	})
}

func TestModulePermissionDAODelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the row", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		created, err := d.InsertModulePermission(ctx, model.ModulePermission{ModuleKey: "orders", CanView: true}, "user-42")
		assert.NoError(t, err)

		assert.NoError(t, d.DeleteModulePermission(ctx, created.ID, "user-42"))

		rows, err := d.ListModulePermissions(ctx)
		assert.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		d := newModulePermissionDAO(t)
		err := d.DeleteModulePermission(ctx, "missing", "user-42")
		assert.ErrorIs(t, err, stationgate_errors.ErrModulePermissionNotFound)
	})
}
