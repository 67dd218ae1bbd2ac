package pricing

import "testing"

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		shape Shape
		low   float64
		high  float64
	}{
		{"fixed dollar", "$29/mo", ShapeFixed, 29, 29},
		{"fixed with comma", "$1,500 per year", ShapeFixed, 1500, 1500},
		{"range dash", "$49-149/mo", ShapeRange, 49, 149},
		{"range en dash", "20–30 per seat", ShapeRange, 20, 30},
		{"range reversed", "149-49", ShapeRange, 49, 149},
		{"freemium", "freemium with paid tiers", ShapeFreemium, 0, 0},
		{"free tier", "Free tier up to 5 users", ShapeFreemium, 0, 0},
		{"contact sales", "Contact Sales for pricing", ShapeCustom, 0, 0},
		{"enterprise", "enterprise pricing", ShapeCustom, 0, 0},
		{"empty", "", ShapeUnknown, 0, 0},
		{"no numbers", "affordable for everyone", ShapeUnknown, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Shape != tt.shape {
				t.Errorf("Parse(%q).Shape = %s, want %s", tt.input, got.Shape, tt.shape)
			}
			if got.Low != tt.low || got.High != tt.high {
				t.Errorf("Parse(%q) = [%v, %v], want [%v, %v]", tt.input, got.Low, got.High, tt.low, tt.high)
			}
		})
	}
}

func TestParse_CustomBeatsNumbers(t *testing.T) {
	// "custom pricing starting at $500" is still a sales cycle
	got := Parse("custom pricing starting at $500")
	if got.Shape != ShapeCustom {
		t.Errorf("expected custom shape, got %s", got.Shape)
	}
}

func TestVelocity_Bands(t *testing.T) {
	tests := []struct {
		name string
		n    Normalized
		want float64
	}{
		{"freemium", Normalized{Shape: ShapeFreemium}, 9},
		{"custom", Normalized{Shape: ShapeCustom}, 3},
		{"unknown", Normalized{Shape: ShapeUnknown}, 5},
		{"cheap fixed", Normalized{Shape: ShapeFixed, Low: 29, High: 29}, 9},
		{"mid fixed", Normalized{Shape: ShapeFixed, Low: 200, High: 200}, 8},
		{"expensive fixed", Normalized{Shape: ShapeFixed, Low: 2000, High: 2000}, 6},
		{"range straddling", Normalized{Shape: ShapeRange, Low: 50, High: 130}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.Velocity(); got != tt.want {
				t.Errorf("Velocity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVelocity_AlwaysInBounds(t *testing.T) {
	inputs := []string{"$29", "$49-149", "freemium", "contact sales", "", "$99,999/yr"}
	for _, input := range inputs {
		v := Parse(input).Velocity()
		if v < 0 || v > 10 {
			t.Errorf("Velocity for %q = %v, out of [0, 10]", input, v)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Parse("$49-149/mo").Describe(); got != "price range $49-149" {
		t.Errorf("unexpected description: %q", got)
	}
	if got := Parse("").Describe(); got != "unknown pricing" {
		t.Errorf("unexpected description: %q", got)
	}
}
