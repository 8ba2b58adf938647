package isp

import (
	"os"
)

const (
	modeKey       = "NODE_ENV"
	devModeVal    = "dev"
	sassBinaryKey = "SASS_BINARY"
)

func GetIsDev() bool {
	return os.Getenv(modeKey) == devModeVal
}

// ResolveOutputDir returns dev when NODE_ENV is "dev", and prod for anything
// else, including an unset or empty NODE_ENV.
func ResolveOutputDir(prod, dev string) string {
	if GetIsDev() {
		return dev
	}
	return prod
}

func getSassBinary() string {
	if bin := os.Getenv(sassBinaryKey); bin != "" {
		return bin
	}
	return "sass"
}
