package applicationService

import (
	"context"
	"testing"

	"MortgageIntake/internal/api/application"
	"MortgageIntake/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateApplication_RequiresPhone(t *testing.T) {
	svc := newReconcileService(t, newFakeApplicationStore())

	_, err := svc.CreateApplication(context.Background(), application.CreateApplicationRequest{
		FirstName: "Dana",
	})
	assert.ErrorIs(t, err, application.ErrPhoneRequired)
}

func TestCreateApplication_NormalizesPhone(t *testing.T) {
	store := newFakeApplicationStore()
	svc := newReconcileService(t, store)

	app, err := svc.CreateApplication(context.Background(), application.CreateApplicationRequest{
		FirstName: "Dana",
		Phone:     "(416) 700-9468",
	})
	require.NoError(t, err)
	assert.Equal(t, "+14167009468", app.Phone)
	assert.NotEmpty(t, app.ID)

	stored, err := store.GetApplicationByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, "+14167009468", stored.Phone)
}

func TestGetApplication_NotFound(t *testing.T) {
	svc := newReconcileService(t, newFakeApplicationStore())

	_, err := svc.GetApplication(context.Background(), "missing")
	assert.ErrorIs(t, err, application.ErrApplicationNotFound)
}

func TestUpdateApplication_RejectsUnknownColumn(t *testing.T) {
	store := newFakeApplicationStore()
	require.NoError(t, store.CreateApplication(context.Background(), entity.ApplicationRecord{ID: "app-1"}))
	svc := newReconcileService(t, store)

	err := svc.UpdateApplication(context.Background(), "app-1", map[string]interface{}{
		"id": "evil",
	})
	assert.ErrorIs(t, err, application.ErrInvalidField)
	assert.Empty(t, store.updates["app-1"])
}

func TestUpdateApplicationField(t *testing.T) {
	store := newFakeApplicationStore()
	require.NoError(t, store.CreateApplication(context.Background(), entity.ApplicationRecord{ID: "app-1"}))
	svc := newReconcileService(t, store)

	err := svc.UpdateApplicationField(context.Background(), "app-1", "annual_income", "80000")
	require.NoError(t, err)
	assert.Equal(t, "80000", store.updates["app-1"]["annual_income"])
}

func TestUpdateApplication_NotFound(t *testing.T) {
	svc := newReconcileService(t, newFakeApplicationStore())

	err := svc.UpdateApplication(context.Background(), "missing", map[string]interface{}{
		"annual_income": "80000",
	})
	assert.ErrorIs(t, err, application.ErrApplicationNotFound)
}

func TestGetMissingFields(t *testing.T) {
	store := newFakeApplicationStore()
	require.NoError(t, store.CreateApplication(context.Background(), entity.ApplicationRecord{
		ID:        "app-1",
		FirstName: "Dana",
		Phone:     "+14167009468",
	}))
	svc := newReconcileService(t, store)

	resp, err := svc.GetMissingFields(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, len(resp.MissingFields), resp.TotalMissing)
	assert.Contains(t, resp.MissingFields, "annual_income")
	assert.NotContains(t, resp.MissingFields, "first_name")
	assert.NotContains(t, resp.MissingFields, "phone")
}

func TestFindLatestByPhone(t *testing.T) {
	store := newFakeApplicationStore()
	require.NoError(t, store.CreateApplication(context.Background(), entity.ApplicationRecord{
		ID:    "app-1",
		Phone: "+14167009468",
	}))
	svc := newReconcileService(t, store)

	app, err := svc.FindLatestByPhone(context.Background(), "+14167009468")
	require.NoError(t, err)
	assert.Equal(t, "app-1", app.ID)

	_, err = svc.FindLatestByPhone(context.Background(), "+15550001111")
	assert.ErrorIs(t, err, application.ErrApplicationNotFound)
}
