package htmldoc

import "testing"

func TestCountWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"simple paragraph", "<p>one two three</p>", 3},
		{"empty", "", 0},
		{"tags only", "<p></p><div></div>", 0},
		{"adjacent elements do not fuse", "<b>one</b><i>two</i>", 2},
		{"whitespace runs", "<p>one    two\n\nthree</p>", 3},
		{"nested markup", "<div><p>a <em>b</em> c</p></div>", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.input); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{3, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
		{2001, 11},
	}

	for _, tt := range tests {
		if got := EstimateMinutes(tt.words); got != tt.want {
			t.Errorf("EstimateMinutes(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}
