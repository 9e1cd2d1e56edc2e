// Package guard puts the binaries into test mode. Tests import it for its
// side effect so calling main does not start servers or open storage.
package guard

import "os"

func init() {
	if os.Getenv("OMNIORDER_TEST_MODE") == "" {
		_ = os.Setenv("OMNIORDER_TEST_MODE", "1")
	}
}
