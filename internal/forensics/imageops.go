package forensics

// Plane-level building blocks shared by the forensic signal chain.
// All operate on row-major float64 planes the size of the page raster.

// laplacian computes the second-derivative response with the standard
// 4-neighbour kernel. Border pixels are clamped to the edge.
func laplacian(gray []float64, w, h int) []float64 {
	out := make([]float64, w*h)
	clampIdx := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return y*w + x
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := gray[y*w+x]
			out[y*w+x] = gray[clampIdx(x-1, y)] + gray[clampIdx(x+1, y)] +
				gray[clampIdx(x, y-1)] + gray[clampIdx(x, y+1)] - 4*c
		}
	}
	return out
}

// boxFilter computes the local mean over a k×k window using a summed
// area table, with edge windows truncated to the plane.
func boxFilter(src []float64, w, h, k int) []float64 {
	// integral is (w+1)×(h+1) so every prefix lookup stays in range
	integral := make([]float64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0.0
		for x := 0; x < w; x++ {
			rowSum += src[y*w+x]
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	half := k / 2
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		y0 := y - half
		y1 := y + k - half
		if y0 < 0 {
			y0 = 0
		}
		if y1 > h {
			y1 = h
		}
		for x := 0; x < w; x++ {
			x0 := x - half
			x1 := x + k - half
			if x0 < 0 {
				x0 = 0
			}
			if x1 > w {
				x1 = w
			}
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
				integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			out[y*w+x] = sum / float64((y1-y0)*(x1-x0))
		}
	}
	return out
}

// localVariance computes box-filtered variance: E[x²] − E[x]².
func localVariance(src []float64, w, h, k int) []float64 {
	sq := make([]float64, len(src))
	for i, v := range src {
		sq[i] = v * v
	}
	mean := boxFilter(src, w, h, k)
	sqMean := boxFilter(sq, w, h, k)
	out := make([]float64, len(src))
	for i := range out {
		v := sqMean[i] - mean[i]*mean[i]
		if v < 0 {
			v = -v
		}
		out[i] = v
	}
	return out
}

// normalizeToBytes min-max scales a plane into [0,255].
func normalizeToBytes(src []float64) []uint8 {
	lo, hi := src[0], src[0]
	for _, v := range src {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	out := make([]uint8, len(src))
	if span < 1e-8 {
		return out
	}
	for i, v := range src {
		out[i] = uint8((v - lo) / span * 255)
	}
	return out
}

// gaussianBlur applies a 7×7 Gaussian as two separable passes.
func gaussianBlur(src []float64, w, h int) []float64 {
	// binomial weights approximate sigma computed from the kernel size
	kernel := []float64{1, 6, 15, 20, 15, 6, 1}
	var norm float64
	for _, k := range kernel {
		norm += k
	}
	half := len(kernel) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, k := range kernel {
				sx := x + i - half
				if sx < 0 {
					sx = 0
				} else if sx >= w {
					sx = w - 1
				}
				sum += k * src[y*w+sx]
			}
			tmp[y*w+x] = sum / norm
		}
	}
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for i, k := range kernel {
				sy := y + i - half
				if sy < 0 {
					sy = 0
				} else if sy >= h {
					sy = h - 1
				}
				sum += k * tmp[sy*w+x]
			}
			out[y*w+x] = sum / norm
		}
	}
	return out
}

// otsuThreshold picks the threshold that maximizes between-class
// variance of the grayscale histogram.
func otsuThreshold(gray []float64) float64 {
	var hist [256]int
	for _, v := range gray {
		b := int(v)
		if b < 0 {
			b = 0
		} else if b > 255 {
			b = 255
		}
		hist[b]++
	}

	total := len(gray)
	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumBg, best float64
	var wBg int
	threshold := 0
	for t := 0; t < 256; t++ {
		wBg += hist[t]
		if wBg == 0 {
			continue
		}
		wFg := total - wBg
		if wFg == 0 {
			break
		}
		sumBg += float64(t) * float64(hist[t])
		meanBg := sumBg / float64(wBg)
		meanFg := (sumAll - sumBg) / float64(wFg)
		between := float64(wBg) * float64(wFg) * (meanBg - meanFg) * (meanBg - meanFg)
		if between > best {
			best = between
			threshold = t
		}
	}
	return float64(threshold)
}

// morphClose performs binary closing (dilate then erode) with a k×k
// structuring element of ones, bridging small gaps between bright
// fragments before component labeling.
func morphClose(mask []uint8, w, h, k int) []uint8 {
	dilated := dilate(mask, w, h, k)
	return erode(dilated, w, h, k)
}

// dilate and erode run as two separable 1-D passes since the
// structuring element is a filled rectangle. Pixels outside the plane
// count as background.
func dilate(mask []uint8, w, h, k int) []uint8 {
	return morphPass(morphPass(mask, w, h, k, true, true), w, h, k, false, true)
}

func erode(mask []uint8, w, h, k int) []uint8 {
	return morphPass(morphPass(mask, w, h, k, true, false), w, h, k, false, false)
}

func morphPass(mask []uint8, w, h, k int, horizontal, max bool) []uint8 {
	half := k / 2
	// the erosion window mirrors the dilation window so closing
	// restores interior shapes exactly
	lo, hi := -half, k-1-half
	if !max {
		lo, hi = -(k - 1 - half), half
	}
	out := make([]uint8, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := uint8(0)
			if !max {
				val = 255
			}
			for d := lo; d <= hi; d++ {
				sx, sy := x, y
				if horizontal {
					sx += d
				} else {
					sy += d
				}
				var sample uint8
				if sx >= 0 && sx < w && sy >= 0 && sy < h {
					sample = mask[sy*w+sx]
				}
				if max && sample > val {
					val = sample
				} else if !max && sample < val {
					val = sample
				}
			}
			out[y*w+x] = val
		}
	}
	return out
}
