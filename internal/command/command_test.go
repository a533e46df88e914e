package command

import (
	"testing"

	"github.com/signalforge/dawcore/internal/ring"
	"github.com/stretchr/testify/assert"
)

func TestCommandRingRoundTrips(t *testing.T) {
	r := ring.NewSPSC[Command](8)
	c := Command{Kind: KindSetVolume, VoiceIndex: 2, F32: 0.5}
	assert.True(t, r.TryPush(c))
	got, ok := r.TryPop()
	assert.True(t, ok)
	assert.Equal(t, c, got)
}

func TestNotificationRingRoundTrips(t *testing.T) {
	r := ring.NewSPSC[Notification](8)
	n := NewDeviceError("underrun")
	assert.True(t, r.TryPush(n))
	got, ok := r.TryPop()
	assert.True(t, ok)
	assert.Equal(t, n, got)
}

func TestCpuUsageNotificationCarriesPercent(t *testing.T) {
	n := NewCpuUsage(42.5)
	assert.Equal(t, NotificationCpuUsage, n.Kind)
	assert.InDelta(t, 42.5, n.CpuPercent, 1e-6)
}

func TestParameterEchoCarriesAddressing(t *testing.T) {
	n := NewParameterEcho(KindSetVolume, 3, 0.8)
	assert.Equal(t, NotificationParameterEcho, n.Kind)
	assert.Equal(t, 3, n.VoiceIndex)
	assert.Equal(t, KindSetVolume, n.Kind2)
	assert.InDelta(t, 0.8, n.F32, 1e-6)
}
