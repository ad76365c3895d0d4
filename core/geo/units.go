package geo

import "fmt"

// Unit identifies the ground unit of a map's coordinate reference system.
type Unit string

const (
	Meters     Unit = "m"
	Degrees    Unit = "degrees"
	Feet       Unit = "ft"
	USFeet     Unit = "us-ft"
	Inches     Unit = "inches"
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// DotsPerInch is the screen density assumed when converting between scale
// denominators and view resolutions. 72 is the value virtually every web
// mapping client and the MapFish print protocol agree on.
const DotsPerInch = 72.0

// inchesPerUnit follows the conversion table used by web mapping clients;
// the degree entry is the conventional approximation at the equator.
var inchesPerUnit = map[Unit]float64{
	Inches:     1.0,
	Feet:       12.0,
	USFeet:     12.000024,
	Miles:      63360.0,
	Meters:     39.3701,
	Kilometers: 39370.1,
	Degrees:    4374754.0,
}

// InchesPer returns how many inches one ground unit spans.
func (u Unit) InchesPer() (float64, error) {
	ipu, ok := inchesPerUnit[u]
	if !ok {
		return 0, fmt.Errorf("geo: unknown map unit %q", string(u))
	}
	return ipu, nil
}

// Valid reports whether the unit has a known inch conversion.
func (u Unit) Valid() bool {
	_, ok := inchesPerUnit[u]
	return ok
}

// ParseUnit normalizes a configured unit string.
func ParseUnit(raw string) (Unit, error) {
	switch raw {
	case "m", "meters", "metre", "metres":
		return Meters, nil
	case "degrees", "dd", "deg":
		return Degrees, nil
	case "ft", "feet":
		return Feet, nil
	case "us-ft":
		return USFeet, nil
	case "km", "kilometers":
		return Kilometers, nil
	case "mi", "miles":
		return Miles, nil
	case "in", "inches":
		return Inches, nil
	}
	return "", fmt.Errorf("geo: unknown map unit %q", raw)
}
