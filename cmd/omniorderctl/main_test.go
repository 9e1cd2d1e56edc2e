package main

import (
	"testing"

	"github.com/omniorder/omniorder/internal/app"
	_ "github.com/omniorder/omniorder/internal/testing/guard"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	if !app.InTestMode() {
		t.Fatal("expected test mode to be active")
	}
	main()
}
