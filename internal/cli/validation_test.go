package cli

import "testing"

func TestValidateShipmentRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{"uuid", "0b6f3c6e-8a4b-4b9e-9a55-3f7f1f7f0c11", false},
		{"tracking number", "M1012345678ABC", false},
		{"lowercase tracking number", "m1012345678abc", false},
		{"truncated tracking number", "M101234567", true},
		{"tracking number with extra char", "M1012345678ABCD", true},
		{"blank", "  ", true},
		{"legacy id", "old-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateShipmentRef(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateShipmentRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
		})
	}
}
