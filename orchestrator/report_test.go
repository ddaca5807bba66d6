package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standalone-apps/build-provisioner/api"
)

func TestDisableRecordsServiceAtMostOnce(t *testing.T) {
	r := NewDisabledServicesReport()
	r.Disable(ServicePushNotifications, "no push key was obtained")
	r.Disable(ServicePushNotifications, "a different reason")

	reason, ok := r.Reason(ServicePushNotifications)
	require.True(t, ok)
	assert.Equal(t, "no push key was obtained", reason, "first reason wins")
}

func TestRenderEmptyReportIsSilent(t *testing.T) {
	rep := &api.RecordingReporter{}
	NewDisabledServicesReport().Render(rep)
	assert.Empty(t, rep.Warnings)
	assert.Empty(t, rep.Tables)
}

func TestRenderPreservesInsertionOrder(t *testing.T) {
	r := NewDisabledServicesReport()
	r.Disable(ServiceGoogleMaps, "no configuration overlay found")
	r.Disable(ServicePushNotifications, "no push key was obtained")

	rep := &api.RecordingReporter{}
	r.Render(rep)

	require.Len(t, rep.Tables, 1)
	assert.Equal(t, [][]string{
		{ServiceGoogleMaps, "no configuration overlay found"},
		{ServicePushNotifications, "no push key was obtained"},
	}, rep.Tables[0].Rows)
}
