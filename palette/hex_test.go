package palette

import "testing"

func TestParseHex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Color
		wantErr  bool
	}{
		{
			name:     "black",
			input:    "#000000",
			expected: Color{R: 0, G: 0, B: 0, A: 1},
		},
		{
			name:     "white",
			input:    "#ffffff",
			expected: Color{R: 1, G: 1, B: 1, A: 1},
		},
		{
			name:     "red",
			input:    "#ff0000",
			expected: Color{R: 1, G: 0, B: 0, A: 1},
		},
		{
			name:    "missing hash fails",
			input:   "ff0000",
			wantErr: true,
		},
		{
			name:    "garbage fails",
			input:   "#zzzzzz",
			wantErr: true,
		},
		{
			name:    "empty fails",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	hexes := []string{"#000000", "#ffffff", "#ff0000", "#8bac0f", "#306230"}
	colors, err := ParseHexList(hexes)
	if err != nil {
		t.Fatalf("ParseHexList returned error: %v", err)
	}
	p := New("roundtrip", colors)
	got := p.HexList()
	for i, h := range hexes {
		if got[i] != h {
			t.Errorf("HexList()[%d] = %q, want %q", i, got[i], h)
		}
	}
}

func TestParseHexListFailsFast(t *testing.T) {
	if _, err := ParseHexList([]string{"#000000", "nope", "#ffffff"}); err == nil {
		t.Error("expected error for malformed entry")
	}
}
