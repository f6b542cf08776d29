package util

import (
	"net"
	"testing"
)

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	busy := ln.Addr().(*net.TCPAddr).Port
	got, err := FindAvailablePort(busy, 20)
	if err != nil {
		t.Fatalf("FindAvailablePort: %v", err)
	}
	if got <= busy || got >= busy+20 {
		t.Fatalf("FindAvailablePort=%d, want in (%d,%d)", got, busy, busy+20)
	}
}
