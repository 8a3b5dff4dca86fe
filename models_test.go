package printer_dashboard

import "testing"

func TestParsePrinterState(t *testing.T) {
	tests := []struct {
		raw  string
		want PrinterState
	}{
		{"standby", StateIdle},
		{"printing", StateActive},
		{"paused", StatePaused},
		{"complete", StateComplete},
		{"PRINTING", StateActive},
		{"", StateUnknown},
		{"cancelled", StateUnknown},
	}
	for _, tc := range tests {
		if got := ParsePrinterState(tc.raw); got != tc.want {
			t.Fatalf("ParsePrinterState(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestFaultSignature(t *testing.T) {
	a := Fault{Mode: FaultDegraded, Title: "NO CONNECTION", Message: "refused", FlashIndex: 0}
	b := a

	if a.Signature() != b.Signature() {
		t.Fatalf("identical faults produced different signatures")
	}
	b.FlashIndex = 1
	if a.Signature() == b.Signature() {
		t.Fatalf("flash index must be part of the signature")
	}
	b = a
	b.Message = "reset by peer"
	if a.Signature() == b.Signature() {
		t.Fatalf("message must be part of the signature")
	}
}

func TestFaulted(t *testing.T) {
	if (Fault{Mode: FaultNormal}).Faulted() {
		t.Fatalf("NORMAL reported as faulted")
	}
	if !(Fault{Mode: FaultDegraded}).Faulted() {
		t.Fatalf("DEGRADED not reported as faulted")
	}
	if !(Fault{Mode: FaultError}).Faulted() {
		t.Fatalf("ERROR not reported as faulted")
	}
}
