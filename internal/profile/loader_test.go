package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-nova/msiec-go/internal/hardware"
	"github.com/micro-nova/msiec-go/internal/models"
	"github.com/micro-nova/msiec-go/internal/profile"
)

func testRegistry() []profile.Model {
	a := profile.Config{CoolerBoost: profile.BitFeature{Address: hardware.At(0x98), Bit: 7}}
	b := profile.Config{CoolerBoost: profile.BitFeature{Address: hardware.At(0x99), Bit: 3}}
	return []profile.Model{
		{Name: "A", AllowedFirmware: []string{"X1", "X2"}, Config: a},
		{Name: "B", AllowedFirmware: []string{"Y1"}, Config: b},
	}
}

func TestLoadFromMatchesSecondModel(t *testing.T) {
	m := hardware.NewMockWithFirmware("Y1")

	active, err := profile.LoadFrom(context.Background(), m, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, "B", active.Model)
	assert.Equal(t, "Y1", active.Firmware)
	assert.Equal(t, hardware.At(0x99), active.Config.CoolerBoost.Address)
	assert.Equal(t, uint8(3), active.Config.CoolerBoost.Bit)
}

func TestLoadFromUnsupportedFirmware(t *testing.T) {
	m := hardware.NewMockWithFirmware("Z9")

	active, err := profile.LoadFrom(context.Background(), m, testRegistry())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnsupportedHardware)
	assert.Equal(t, profile.Active{}, active, "no partial configuration on failure")
}

func TestLoadFromTransportFailure(t *testing.T) {
	m := hardware.NewMockWithFirmware("X1")
	m.SetFailRead(true)

	_, err := profile.LoadFrom(context.Background(), m, testRegistry())
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestMatchFirstWins(t *testing.T) {
	reg := []profile.Model{
		{Name: "first", AllowedFirmware: []string{"DUP"}},
		{Name: "second", AllowedFirmware: []string{"DUP"}},
	}
	m, ok := profile.Match("DUP", reg)
	require.True(t, ok)
	assert.Equal(t, "first", m.Name)

	_, ok = profile.Match("dup", reg)
	assert.False(t, ok, "matching is exact and case-sensitive")
}

func TestLoadBuiltinRegistry(t *testing.T) {
	tests := []struct {
		fw    string
		model string
	}{
		{"14C1EMS1.012", "14C1"},
		{"14C1EMS1.102", "14C1"},
		{"17F2EMS1.107", "17F2"},
		{"1552EMS1.118", "1552"},
		{"E1592IMS.10C", "1592"},
		{"16V4EMS1.114", "16V4"},
		{"158LEMS1.105", "158L"},
		{"1542EMS1.104", "1542"},
		{"17FKEMS1.10A", "17FK"},
		{"14F1EMS1.115", "14F1"},
	}
	for _, tc := range tests {
		t.Run(tc.fw, func(t *testing.T) {
			active, err := profile.Load(context.Background(), hardware.NewMockWithFirmware(tc.fw))
			require.NoError(t, err)
			assert.Equal(t, tc.model, active.Model)
		})
	}
}

func TestLookup(t *testing.T) {
	m, ok := profile.Lookup("1552")
	require.True(t, ok)
	assert.Equal(t, []string{"1552EMS1.118"}, m.AllowedFirmware)

	_, ok = profile.Lookup("nope")
	assert.False(t, ok)
}
