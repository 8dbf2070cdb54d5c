package vectorpack

import "slices"

// DominantColors returns up to k colors of c ordered by descending pixel
// count. Colors with equal counts keep the order in which they first appear
// in a row-major scan, so the result is fully determined by the canvas.
func DominantColors(c *Canvas, k int) []RGB {
	if k < 1 || c == nil || c.W*c.H == 0 {
		return nil
	}
	counts := make(map[RGB]int)
	var order []RGB // first-occurrence order
	for off := 0; off+2 < len(c.Pix); off += 3 {
		v := RGB{c.Pix[off], c.Pix[off+1], c.Pix[off+2]}
		n, seen := counts[v]
		if !seen {
			order = append(order, v)
		}
		counts[v] = n + 1
	}

	// Stable sort keeps first-occurrence order among ties.
	slices.SortStableFunc(order, func(a, b RGB) int {
		return counts[b] - counts[a]
	})
	return slices.Clone(order[:min(k, len(order))])
}
