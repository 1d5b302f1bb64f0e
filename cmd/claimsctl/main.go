// Command claimsctl registers, transfers, revokes and inspects claims through the
// claims registry HTTP API.
//
// Usage:
//
//	claimsctl --server http://localhost:8080 --token <jwt> create 0xdeadbeef
//	claimsctl --secret <hmac> --subject alice create 0xdeadbeef
//	claimsctl --secret <hmac> token alice
//
// Every flag can also be set in a YAML config file (--config) or through an environment
// variable with the CLAIMSCTL_ prefix, e.g. CLAIMSCTL_TOKEN.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "claimsctl: %v\n", err)
		os.Exit(1)
	}
}
