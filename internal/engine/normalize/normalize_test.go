package normalize

import "testing"

func TestCaps(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"title with two name words",
			"Contacted MR BERNARD HYNES about the outage",
			"Contacted Mr Bernard Hynes about the outage",
		},
		{
			"apostrophe name",
			"Customer MS JANE O'BRIEN called",
			"Customer Ms Jane O'Brien called",
		},
		{
			"hyphenated name",
			"DR SMITH-JONES arrived",
			"Dr Smith-Jones arrived",
		},
		{
			"no title prefix stays unchanged",
			"UPLOAD SPEED 24.95 Mbps",
			"UPLOAD SPEED 24.95 Mbps",
		},
		{
			"mixed case name stays unchanged",
			"Mr Bernard Hynes already normalized",
			"Mr Bernard Hynes already normalized",
		},
		{
			"three name words max",
			"MR JOHN PAUL SMITH JONES",
			"Mr John Paul Smith JONES",
		},
		{
			"empty",
			"",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Caps(tt.input)
			if got != tt.want {
				t.Fatalf("Caps(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) != len(tt.input) {
				t.Fatalf("length changed: %d -> %d", len(tt.input), len(got))
			}
		})
	}
}
