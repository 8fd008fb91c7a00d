// UserClouds sample runner
// Exercises the authz, tokenizer, and userstore APIs against a live tenant
package main

import (
	"os"

	"github.com/userclouds/sdk-go/cmd/ucsample/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
