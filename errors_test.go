package printer_dashboard

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("polling: %w", &TransportError{Op: "GET /printer/info", Err: cause})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("TransportError not found through the wrap chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("root cause lost through Unwrap")
	}
	if !strings.Contains(te.Error(), "GET /printer/info") {
		t.Fatalf("operation missing from message: %q", te.Error())
	}
}

func TestPayloadError_Message(t *testing.T) {
	err := &PayloadError{Field: "result.status", Reason: "missing"}
	if got := err.Error(); !strings.Contains(got, "result.status") || !strings.Contains(got, "missing") {
		t.Fatalf("got %q", got)
	}
}

func TestDeviceFault_Message(t *testing.T) {
	if got := (&DeviceFault{}).Error(); got != "device fault" {
		t.Fatalf("empty reason: got %q", got)
	}
	if got := (&DeviceFault{Reason: "MCU shutdown"}).Error(); !strings.Contains(got, "MCU shutdown") {
		t.Fatalf("reason lost: %q", got)
	}
}
