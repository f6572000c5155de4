package assistant

import "testing"

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    int
		first   string
	}{
		{
			name:    "oil topic",
			message: "When is my next OIL change due?",
			want:    2,
			first:   "How often should I change my oil?",
		},
		{
			name:    "brake topic",
			message: "my brakes squeak when stopping",
			want:    2,
			first:   "How do I know if my brakes need replacing?",
		},
		{
			name:    "noise topic",
			message: "there is a weird noise from the engine",
			want:    2,
			first:   "What could cause a knocking sound?",
		},
		{
			name:    "no topic",
			message: "how do I rotate my tires?",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggestions(tt.message)
			if len(got) != tt.want {
				t.Fatalf("expected %d suggestions, got %d", tt.want, len(got))
			}
			if tt.want > 0 && got[0] != tt.first {
				t.Errorf("unexpected first suggestion: %q", got[0])
			}
		})
	}
}
