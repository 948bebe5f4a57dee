package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadesh-intern/internal/infrastructure/cache"
)

func TestSite_LandingLive(t *testing.T) {
	uc := NewSite(&fakeSettingRepo{}, fakeSiteRepo{}, newMemCache(), nil, "SwadeshIntern", nil)

	l, err := uc.Landing(context.Background())
	require.NoError(t, err)
	assert.False(t, l.Maintenance)
	assert.Equal(t, ScreenLanding, l.Screen)
	assert.Len(t, l.Domains, 1)
	assert.Equal(t, "Shikha Yadav", l.Testimonials[0].Name)
}

func TestSite_MaintenanceToggleSwitchesLanding(t *testing.T) {
	settings := &fakeSettingRepo{}
	c := newMemCache()
	pub := &fakePublisher{}
	uc := NewSite(settings, fakeSiteRepo{}, c, pub, "SwadeshIntern", nil)
	ctx := context.Background()

	_, err := uc.Landing(ctx)
	require.NoError(t, err)
	require.True(t, c.has(cache.SettingsKey))

	s, err := uc.SetMaintenance(ctx, true, "root@swadeshintern.me")
	require.NoError(t, err)
	assert.True(t, s.MaintenanceMode)
	assert.False(t, c.has(cache.SettingsKey), "toggle invalidates cached settings")
	require.Len(t, pub.events, 1)
	assert.Equal(t, EventMaintenanceChanged, pub.events[0].Type)

	l, err := uc.Landing(ctx)
	require.NoError(t, err)
	assert.True(t, l.Maintenance)
	assert.Equal(t, ScreenMaintenance, l.Screen)
	assert.Equal(t, MaintenanceTitle, l.Title)
	assert.Contains(t, l.Message, "SwadeshIntern is currently undergoing scheduled maintenance")
	assert.Empty(t, l.Domains)
	assert.True(t, uc.InMaintenance(ctx))

	assert.Equal(t, "Maintenance Enabled", MaintenanceToast(true))
	assert.Equal(t, "Maintenance Disabled", MaintenanceToast(false))
}

func TestSite_SettingsCached(t *testing.T) {
	settings := &fakeSettingRepo{}
	uc := NewSite(settings, fakeSiteRepo{}, newMemCache(), nil, "SwadeshIntern", nil)

	for i := 0; i < 3; i++ {
		_, err := uc.Settings(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, settings.gets)
}

func TestSite_InMaintenanceFailsOpen(t *testing.T) {
	uc := NewSite(&fakeSettingRepo{err: errors.New("db down")}, fakeSiteRepo{}, nil, nil, "SwadeshIntern", nil)
	assert.False(t, uc.InMaintenance(context.Background()))
}
