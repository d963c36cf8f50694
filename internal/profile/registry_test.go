package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/profile"
)

func TestRegistryIsValid(t *testing.T) {
	reg := profile.Registry()
	require.Len(t, reg, 9)
	require.NoError(t, profile.ValidateRegistry(reg))
}

func TestRegistryPreservesSentinels(t *testing.T) {
	m, ok := profile.Lookup("16V4")
	require.True(t, ok)
	c := m.Config

	assert.True(t, c.FnWinSwap.Address.IsUnknown())
	assert.True(t, c.SuperBattery.Address.IsUnknown())
	assert.True(t, c.CPU.BasicFanSpeed.Address.IsUnknown())
	assert.True(t, c.KbdBacklight.StateAddress.IsUnsupported())

	m, ok = profile.Lookup("1542")
	require.True(t, ok)
	assert.True(t, m.Config.Webcam.BlockAddress.IsUnsupported())
	assert.True(t, m.Config.LEDs.Mute.IsUnsupported())
	assert.Equal(t, hardware.At(0xd5), m.Config.SuperBattery.Address)
}

func TestModeTableLookup(t *testing.T) {
	table := profile.ModeTable{
		{Name: "eco", Value: 0xc2},
		{Name: "comfort", Value: 0xc1},
		{Name: "alias", Value: 0xc1},
		{},
		{Name: "hidden", Value: 0xc4},
	}

	m, ok := table.Lookup("comfort")
	require.True(t, ok)
	assert.Equal(t, byte(0xc1), m.Value)

	name, ok := table.NameOf(0xc1)
	require.True(t, ok)
	assert.Equal(t, "comfort", name, "first match wins")

	_, ok = table.Lookup("hidden")
	assert.False(t, ok, "zero entry terminates the table")
	_, ok = table.NameOf(0xc4)
	assert.False(t, ok)

	assert.Equal(t, []string{"eco", "comfort", "alias"}, table.Names())
}

func TestValidateRejectsBadTables(t *testing.T) {
	tests := []struct {
		name string
		cfg  profile.Config
	}{
		{"duplicate mode", profile.Config{ShiftMode: profile.ModeFeature{Modes: profile.ModeTable{
			{Name: "eco", Value: 1}, {Name: "eco", Value: 2},
		}}}},
		{"long mode name", profile.Config{FanMode: profile.ModeFeature{Modes: profile.ModeTable{
			{Name: "a-name-well-past-the-limit", Value: 1},
		}}}},
		{"bit out of range", profile.Config{CoolerBoost: profile.BitFeature{Bit: 8}}},
		{"empty fan window", profile.Config{CPU: profile.CPU{BasicFanSpeed: profile.ScaledRange{
			Address: hardware.At(0x89), BaseMin: 0x10, BaseMax: 0x10,
		}}}},
		{"inverted threshold range", profile.Config{ChargeControl: profile.ChargeControl{
			RangeMin: 0xe4, RangeMax: 0x8a,
		}}},
		{"empty super battery mask", profile.Config{SuperBattery: profile.MaskFeature{Address: hardware.At(0xeb)}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, profile.Validate(tc.cfg))
		})
	}
}

func TestValidateRegistryDuplicateFirmware(t *testing.T) {
	reg := []profile.Model{
		{Name: "A", AllowedFirmware: []string{"X1"}},
		{Name: "B", AllowedFirmware: []string{"X1"}},
	}
	err := profile.ValidateRegistry(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "X1")
}
