package profile

import "github.com/micro-nova/msiec-go/internal/hardware"

// Shift mode names.
const (
	ShiftEco     = "eco"
	ShiftComfort = "comfort"
	ShiftSport   = "sport"
	ShiftTurbo   = "turbo"
)

// Fan mode names.
const (
	FanAuto     = "auto"
	FanSilent   = "silent"
	FanBasic    = "basic"
	FanAdvanced = "advanced"
)

var (
	at          = hardware.At
	unknown     = hardware.Unknown
	unsupported = hardware.Unsupported
)

// The charge control register layout is the same on every known model; only
// its address moves.
func chargeControl(addr byte) ChargeControl {
	return ChargeControl{
		Address:     at(addr),
		OffsetStart: 0x8a,
		OffsetEnd:   0x80,
		RangeMin:    0x8a,
		RangeMax:    0xe4,
	}
}

func cpu(rtFan, bsFan hardware.Address) CPU {
	return CPU{
		RealtimeTemp:     at(0x68),
		RealtimeFanSpeed: ScaledRange{Address: rtFan, BaseMin: 0x19, BaseMax: 0x37},
		BasicFanSpeed:    ScaledRange{Address: bsFan, BaseMin: 0x00, BaseMax: 0x0f},
	}
}

func kbdBacklight(modeAddr, stateAddr hardware.Address, base byte) KbdBacklight {
	return KbdBacklight{
		ModeAddress:    modeAddr,
		Modes:          []byte{0x00, 0x08},
		MaxMode:        1,
		StateAddress:   stateAddr,
		StateBaseValue: base,
		MaxState:       3,
	}
}

// registry is in match order. Fields marked unknown may exist on the model
// but have not been verified on hardware.
var registry = []Model{
	{
		Name:            "14C1",
		AllowedFirmware: []string{"14C1EMS1.012", "14C1EMS1.101", "14C1EMS1.102"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xbf), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0},
			}},
			SuperBattery: MaskFeature{Address: unknown}, // 0xd5 needs testing
			FanMode: ModeFeature{Address: at(0xf4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanBasic, 0x4d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0x71), at(0x89)),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: at(0x89)},
			LEDs:         LEDs{MicMute: at(0x2b), Mute: at(0x2c), Bit: 2},
			KbdBacklight: kbdBacklight(at(0x2c), at(0xf3), 0x80),
		},
	},
	{
		Name:            "17F2",
		AllowedFirmware: []string{"17F2EMS1.103", "17F2EMS1.104", "17F2EMS1.106", "17F2EMS1.107"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xbf), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0}, {ShiftTurbo, 0xc4},
			}},
			SuperBattery: MaskFeature{Address: unknown},
			FanMode: ModeFeature{Address: at(0xf4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanBasic, 0x4d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0x71), at(0x89)),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: at(0x89)},
			LEDs:         LEDs{MicMute: at(0x2b), Mute: at(0x2c), Bit: 2},
			KbdBacklight: kbdBacklight(at(0x2c), at(0xf3), 0x80),
		},
	},
	{
		Name:            "1552",
		AllowedFirmware: []string{"1552EMS1.118"},
		Config: Config{
			ChargeControl: chargeControl(0xd7),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xe8), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0},
			}},
			SuperBattery: MaskFeature{Address: at(0xeb), Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xd4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanBasic, 0x4d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0x71), at(0x89)),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: at(0x89)},
			LEDs:         LEDs{MicMute: at(0x2c), Mute: at(0x2d), Bit: 1},
			KbdBacklight: kbdBacklight(at(0x2c), at(0xd3), 0x80),
		},
	},
	{
		Name:            "1592",
		AllowedFirmware: []string{"1592EMS1.111", "E1592IMS.10C"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xe8), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xd2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0},
			}},
			SuperBattery: MaskFeature{Address: at(0xeb), Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xd4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanBasic, 0x4d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0xc9), at(0x89)),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: at(0x89)},
			LEDs:         LEDs{MicMute: at(0x2b), Mute: at(0x2c), Bit: 1},
			KbdBacklight: kbdBacklight(at(0x2c), at(0xd3), 0x80),
		},
	},
	{
		Name:            "16V4",
		AllowedFirmware: []string{"16V4EMS1.114"},
		Config: Config{
			ChargeControl: chargeControl(0xd7),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: unknown, Bit: 4}, // present, register not found yet
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xd2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0},
			}},
			SuperBattery: MaskFeature{Address: unknown, Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xd4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0x71), unknown),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: unknown},
			LEDs:         LEDs{MicMute: unknown, Mute: unknown, Bit: 1},
			KbdBacklight: kbdBacklight(unknown, unsupported, 0x80), // 0xd3 does not respond
		},
	},
	{
		Name:            "158L",
		AllowedFirmware: []string{"158LEMS1.103", "158LEMS1.105", "158LEMS1.106"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: at(0x2f), Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xbf), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftTurbo, 0xc4},
			}},
			SuperBattery: MaskFeature{Address: unknown, Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xf4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0x71), unsupported),
			GPU:          GPU{RealtimeTemp: unknown, RealtimeFanSpeed: unknown},
			LEDs:         LEDs{MicMute: at(0x2b), Mute: at(0x2c), Bit: 2},
			KbdBacklight: kbdBacklight(unknown, unsupported, 0x80),
		},
	},
	{
		Name:            "1542",
		AllowedFirmware: []string{"1542EMS1.102", "1542EMS1.104"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: unsupported, Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xbf), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0}, {ShiftTurbo, 0xc4},
			}},
			SuperBattery: MaskFeature{Address: at(0xd5), Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xf4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0xc9), unsupported),
			GPU:          GPU{RealtimeTemp: at(0x80), RealtimeFanSpeed: unknown},
			LEDs:         LEDs{MicMute: unsupported, Mute: unsupported, Bit: 2},
			KbdBacklight: kbdBacklight(unknown, unsupported, 0x80),
		},
	},
	{
		Name:            "17FK",
		AllowedFirmware: []string{"17FKEMS1.108", "17FKEMS1.109", "17FKEMS1.10A"},
		Config: Config{
			ChargeControl: chargeControl(0xef),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: unsupported, Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xbf), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xf2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0}, {ShiftTurbo, 0xc4},
			}},
			// 0xd5 uses its own set of values here
			SuperBattery: MaskFeature{Address: unknown, Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xf4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanAdvanced, 0x8d},
			}},
			CPU:          cpu(at(0xc9), unsupported),
			GPU:          GPU{RealtimeTemp: unknown, RealtimeFanSpeed: unknown},
			LEDs:         LEDs{MicMute: unsupported, Mute: at(0x2c), Bit: 2},
			KbdBacklight: kbdBacklight(unknown, at(0xf3), 0x80),
		},
	},
	{
		Name:            "14F1",
		AllowedFirmware: []string{"14F1EMS1.115"},
		Config: Config{
			ChargeControl: chargeControl(0xd7),
			Webcam:        Webcam{Address: at(0x2e), BlockAddress: unsupported, Bit: 1},
			FnWinSwap:     BitFeature{Address: at(0xe8), Bit: 4},
			CoolerBoost:   BitFeature{Address: at(0x98), Bit: 7},
			ShiftMode: ModeFeature{Address: at(0xd2), Modes: ModeTable{
				{ShiftEco, 0xc2}, {ShiftComfort, 0xc1}, {ShiftSport, 0xc0},
			}},
			SuperBattery: MaskFeature{Address: at(0xeb), Mask: 0x0f},
			FanMode: ModeFeature{Address: at(0xd4), Modes: ModeTable{
				{FanAuto, 0x0d}, {FanSilent, 0x1d}, {FanBasic, 0x4d},
			}},
			CPU:          cpu(at(0x71), unsupported),
			GPU:          GPU{RealtimeTemp: unknown, RealtimeFanSpeed: unknown},
			LEDs:         LEDs{MicMute: unsupported, Mute: at(0x2d), Bit: 1},
			KbdBacklight: kbdBacklight(unknown, unsupported, 0x80),
		},
	},
}

// Registry returns the known models in match order. The slice is a copy;
// the Configs inside share their mode tables and must not be modified.
func Registry() []Model {
	out := make([]Model, len(registry))
	copy(out, registry)
	return out
}
