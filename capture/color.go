package capture

// hasGoodBlackLevel rejects frames that are mostly black or washed out, as
// happens while the sensor adjusts exposure. luma holds one byte per pixel.
func hasGoodBlackLevel(luma []byte) bool {
	total := len(luma)
	if total == 0 {
		return false
	}
	dark := 0
	for i := 0; i < total; i++ {
		if luma[i] < 80 {
			dark++
		}
	}
	darkness := float64(dark) / float64(total)
	return darkness > 0.1 && darkness < 0.7
}
