package transport

import (
	"os"

	"github.com/userclouds/sdk-go/pkg/ucerr"
)

// ReadEnv returns the named environment variable, preferring a
// USERCLOUDS_-prefixed spelling. desc names the value in the error when
// neither is set.
func ReadEnv(name, desc string) (string, error) {
	if v := os.Getenv("USERCLOUDS_" + name); v != "" {
		return v, nil
	}
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", &ucerr.ConfigError{Name: name, Desc: desc}
}
