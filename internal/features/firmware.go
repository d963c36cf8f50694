package features

import (
	"context"

	"github.com/micro-nova/msiec-go/internal/hardware"
)

func fwVersion() *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		return hardware.ReadFirmwareVersion(ctx, drv)
	}
	return newAttr("", "fw_version", hardware.At(hardware.RegFWVersion), read, nil)
}

func fwReleaseDate() *attr {
	read := func(ctx context.Context, drv hardware.Driver) (string, error) {
		d, err := hardware.ReadFirmwareReleaseDate(ctx, drv)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	}
	return newAttr("", "fw_release_date", hardware.At(hardware.RegFWDate), read, nil)
}
