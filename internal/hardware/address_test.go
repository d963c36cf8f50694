package hardware_test

import (
	"encoding/json"
	"testing"

	"github.com/micro-nova/msiec-go/internal/hardware"
)

func TestAddressZeroValueIsUnsupported(t *testing.T) {
	var a hardware.Address
	if !a.IsUnsupported() {
		t.Fatal("zero Address should be Unsupported")
	}
	if _, ok := a.Reg(); ok {
		t.Error("Reg() on zero Address should report false")
	}
}

func TestAddressKinds(t *testing.T) {
	tests := []struct {
		addr       hardware.Address
		configured bool
		text       string
	}{
		{hardware.At(0x2e), true, "0x2e"},
		{hardware.At(0x00), true, "0x00"},
		{hardware.Unsupported, false, "unsupported"},
		{hardware.Unknown, false, "unknown"},
	}
	for _, tc := range tests {
		if got := tc.addr.IsConfigured(); got != tc.configured {
			t.Errorf("%s IsConfigured = %v, want %v", tc.text, got, tc.configured)
		}
		if got := tc.addr.String(); got != tc.text {
			t.Errorf("String() = %q, want %q", got, tc.text)
		}
	}
	if hardware.Unknown.IsUnsupported() || hardware.Unsupported.IsUnknown() {
		t.Error("Unknown and Unsupported must stay distinct")
	}
}

func TestAddressJSON(t *testing.T) {
	in := map[string]hardware.Address{
		"a": hardware.At(0xd2),
		"b": hardware.Unknown,
		"c": hardware.Unsupported,
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"a":"0xd2","b":"unknown","c":"unsupported"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var out map[string]hardware.Address
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for k, v := range in {
		if out[k] != v {
			t.Errorf("%s: got %v, want %v", k, out[k], v)
		}
	}
}

func TestAddressUnmarshalInvalid(t *testing.T) {
	var a hardware.Address
	for _, s := range []string{"0x100", "zz", "-1"} {
		if err := a.UnmarshalText([]byte(s)); err == nil {
			t.Errorf("UnmarshalText(%q) should fail", s)
		}
	}
}
