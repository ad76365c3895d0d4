package geo

// Scale is one print-service scale: a display name plus the denominator
// (the N in 1:N).
type Scale struct {
	Name        string
	Denominator float64
}

// Resolution converts the scale to a view resolution in ground units per
// pixel, assuming the standard screen density.
func (s Scale) Resolution(u Unit) float64 {
	return ResolutionForScale(s.Denominator, u)
}

// ResolutionForScale converts a scale denominator to ground units per pixel.
//
// Unknown units fall back to meters; configuration validation rejects them
// long before conversions run.
func ResolutionForScale(denominator float64, u Unit) float64 {
	return denominator / (ipu(u) * DotsPerInch)
}

// ScaleForResolution is the inverse conversion: ground units per pixel to a
// scale denominator.
func ScaleForResolution(resolution float64, u Unit) float64 {
	return resolution * ipu(u) * DotsPerInch
}

func ipu(u Unit) float64 {
	if v, ok := inchesPerUnit[u]; ok {
		return v
	}
	return inchesPerUnit[Meters]
}
