// Package identity provides system identity information for msiec.
package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// DefaultVersion is the fallback version string when neither the build nor
// metadata.json sets one.
const DefaultVersion = "0.1.0-dev"

// Version is set at build time with -ldflags "-X .../identity.Version=...".
var Version = ""

// DMIDir holds the firmware-provided machine identification files.
const DMIDir = "/sys/class/dmi/id"

// Info holds system identity information.
type Info struct {
	Hostname string
	Version  string
	Vendor   string // DMI sys_vendor, e.g. "Micro-Star International Co., Ltd."
	Product  string // DMI product_name
}

// Get collects identity information from the running system.
func Get() Info {
	vendor, product := GetProductFromDir(DMIDir)
	return Info{
		Hostname: GetHostname(),
		Version:  GetVersion(),
		Vendor:   vendor,
		Product:  product,
	}
}

// GetHostname returns the system hostname.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "msiec"
	}
	return h
}

// GetVersion returns the build version, then the version in
// /etc/msiecd/metadata.json, then DefaultVersion.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	return GetVersionFromDir("")
}

// GetVersionFromDir reads the version from metadata.json in dir.
// If dir is empty, uses /etc/msiecd.
// This variant is exported for testing.
func GetVersionFromDir(dir string) string {
	if dir == "" {
		dir = "/etc/msiecd"
	}

	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return DefaultVersion
	}

	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return DefaultVersion
	}

	if v, ok := meta["version"].(string); ok && v != "" {
		return v
	}
	return DefaultVersion
}

// GetProductFromDir reads sys_vendor and product_name from a DMI directory.
// Missing files yield empty strings.
func GetProductFromDir(dir string) (vendor, product string) {
	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	return read("sys_vendor"), read("product_name")
}

// IsMSI reports whether vendor names Micro-Star International.
func IsMSI(vendor string) bool {
	v := strings.ToLower(vendor)
	return strings.Contains(v, "micro-star") || strings.HasPrefix(v, "msi")
}
