package recognize

import "testing"

func TestValidLuhn(t *testing.T) {
	tests := []struct {
		card string
		want bool
	}{
		{"4532015112830366", true},  // Visa test number
		{"4532-0151-1283-0366", true},
		{"5425233430109903", true}, // Mastercard test number
		{"4532015112830367", false},
		{"1234567812345678", false},
		{"411111", false}, // too short
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidLuhn(tt.card); got != tt.want {
			t.Errorf("ValidLuhn(%q) = %v, want %v", tt.card, got, tt.want)
		}
	}
}

func TestValidTFN(t *testing.T) {
	tests := []struct {
		tfn  string
		want bool
	}{
		{"123456782", true}, // published ATO test TFN
		{"123 456 782", true},
		{"123456789", false},
		{"12345678", false}, // 8-digit with bad checksum
		{"1234", false},
	}
	for _, tt := range tests {
		if got := ValidTFN(tt.tfn); got != tt.want {
			t.Errorf("ValidTFN(%q) = %v, want %v", tt.tfn, got, tt.want)
		}
	}
}

func TestValidMedicare(t *testing.T) {
	tests := []struct {
		num  string
		want bool
	}{
		{"2123456701", true}, // checksum digit 0 at position 9
		{"2123 45670 1", true},
		{"2123456791", false}, // wrong checksum digit
		{"9123456701", false}, // first digit out of range
		{"212345670", false},  // too short
	}
	for _, tt := range tests {
		if got := ValidMedicare(tt.num); got != tt.want {
			t.Errorf("ValidMedicare(%q) = %v, want %v", tt.num, got, tt.want)
		}
	}
}

func TestValidABN(t *testing.T) {
	tests := []struct {
		abn  string
		want bool
	}{
		{"51824753556", true}, // published ATO example ABN
		{"51 824 753 556", true},
		{"51824753557", false},
		{"5182475355", false},
	}
	for _, tt := range tests {
		if got := ValidABN(tt.abn); got != tt.want {
			t.Errorf("ValidABN(%q) = %v, want %v", tt.abn, got, tt.want)
		}
	}
}

func TestValidSSN(t *testing.T) {
	tests := []struct {
		ssn  string
		want bool
	}{
		{"123-45-6789", true},
		{"123456789", true},
		{"000-45-6789", false},
		{"666-45-6789", false},
		{"923-45-6789", false},
		{"123-00-6789", false},
		{"123-45-0000", false},
		{"123-45-678", false},
	}
	for _, tt := range tests {
		if got := ValidSSN(tt.ssn); got != tt.want {
			t.Errorf("ValidSSN(%q) = %v, want %v", tt.ssn, got, tt.want)
		}
	}
}
