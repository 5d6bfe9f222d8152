package logging

import "testing"

func TestMaskCaller(t *testing.T) {
	tests := []struct {
		name     string
		callerID string
		enabled  bool
		want     string
	}{
		{name: "typical numeric id", callerID: "123456789", enabled: true, want: "12*****89"},
		{name: "six chars", callerID: "abcdef", enabled: true, want: "ab**ef"},
		{name: "short id passthrough", callerID: "12345", enabled: true, want: "12345"},
		{name: "empty", callerID: "", enabled: true, want: ""},
		{name: "disabled passthrough", callerID: "123456789", enabled: false, want: "123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskCaller(tt.callerID, tt.enabled); got != tt.want {
				t.Errorf("MaskCaller(%q, %v): got %q, want %q", tt.callerID, tt.enabled, got, tt.want)
			}
		})
	}
}
