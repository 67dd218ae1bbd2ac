package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Shape classifies the recognized form of a pricing description
type Shape string

const (
	ShapeFixed    Shape = "fixed"
	ShapeRange    Shape = "range"
	ShapeFreemium Shape = "freemium"
	ShapeCustom   Shape = "custom"
	ShapeUnknown  Shape = "unknown"
)

// Normalized is the result of parsing free-form pricing text
type Normalized struct {
	Shape Shape
	Low   float64 // 0 unless Shape is fixed or range
	High  float64 // equals Low for fixed pricing
}

// Velocity bounds. Unknown pricing sits at the midpoint so ideas with
// unparsed pricing are not unfairly punished.
const (
	maxVelocity     = 10.0
	unknownVelocity = 5.0
	customVelocity  = 3.0
)

var (
	// Matches "$29", "29/mo", "$1,500", "20-30", "$49–149"
	numberPattern = regexp.MustCompile(`(?:[$€£]\s*)?(\d[\d,]*(?:\.\d+)?)`)
	rangePattern  = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*[-–—]\s*(?:[$€£]\s*)?(\d[\d,]*(?:\.\d+)?)`)

	freemiumKeywords = []string{"freemium", "free tier", "free plan"}
	customKeywords   = []string{"contact sales", "contact-sales", "custom pricing", "custom quote", "enterprise pricing", "talk to sales"}
)

// Parse normalizes free-form pricing text into a recognized shape
func Parse(text string) Normalized {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return Normalized{Shape: ShapeUnknown}
	}

	for _, kw := range customKeywords {
		if strings.Contains(lower, kw) {
			return Normalized{Shape: ShapeCustom}
		}
	}
	for _, kw := range freemiumKeywords {
		if strings.Contains(lower, kw) {
			return Normalized{Shape: ShapeFreemium}
		}
	}

	if m := rangePattern.FindStringSubmatch(lower); m != nil {
		low := parseNumber(m[1])
		high := parseNumber(m[2])
		if low > high {
			low, high = high, low
		}
		return Normalized{Shape: ShapeRange, Low: low, High: high}
	}

	if m := numberPattern.FindStringSubmatch(lower); m != nil {
		price := parseNumber(m[1])
		return Normalized{Shape: ShapeFixed, Low: price, High: price}
	}

	return Normalized{Shape: ShapeUnknown}
}

// Velocity maps a normalized pricing descriptor to a revenue-velocity
// sub-score in [0, 10]. Lower absolute price and simpler billing score
// higher; custom pricing implies a sales cycle and scores low.
func (n Normalized) Velocity() float64 {
	switch n.Shape {
	case ShapeFreemium:
		return 9
	case ShapeCustom:
		return customVelocity
	case ShapeUnknown:
		return unknownVelocity
	}

	avg := (n.Low + n.High) / 2
	switch {
	case avg < 100:
		return 9
	case avg < 500:
		return 8
	default:
		return 6
	}
}

// Describe returns a short human-readable summary used in rationale
// strings
func (n Normalized) Describe() string {
	switch n.Shape {
	case ShapeFixed:
		return fmt.Sprintf("fixed price $%s", formatPrice(n.Low))
	case ShapeRange:
		return fmt.Sprintf("price range $%s-%s", formatPrice(n.Low), formatPrice(n.High))
	case ShapeFreemium:
		return "freemium pricing"
	case ShapeCustom:
		return "custom/contact-sales pricing"
	default:
		return "unknown pricing"
	}
}

func parseNumber(token string) float64 {
	cleaned := strings.ReplaceAll(token, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
