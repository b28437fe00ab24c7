package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

// GetDeviceID reads the physical MAC address of the machine and hashes it
// so the dashboard shows a clean, stable ID like "POS-A1B2C3D4"
func GetDeviceID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "UNKNOWN-DEVICE"
	}

	var macAddress string
	for _, i := range interfaces {
		// Find the first active physical network interface
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}

	if macAddress == "" {
		return "UNKNOWN-DEVICE"
	}

	hash := sha256.Sum256([]byte(macAddress + "POS-SUITE-SALT"))
	hashString := hex.EncodeToString(hash[:])

	return "POS-" + strings.ToUpper(hashString[:8])
}
