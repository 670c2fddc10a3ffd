package forensics

import (
	"math"
	"math/bits"
	"sort"
)

// Copy-move forgery detection: duplicated content inside the same page
// is found by self-matching binary feature descriptors. Keypoints come
// from a FAST-style corner test, descriptors are 256-bit intensity
// comparisons over a fixed sampling pattern steered by the patch
// orientation, which buys rotation invariance. The sampling pattern is
// generated from a fixed seed so the whole pipeline stays
// deterministic.

const (
	descriptorBits  = 256
	patchRadius     = 15
	fastRadius      = 3
	fastThreshold   = 20
	fastArc         = 9
	descriptorRange = 256.0
)

type keypoint struct {
	x, y  int
	score int
	angle float64
}

type descriptor [4]uint64

// fastCircle is the 16-pixel Bresenham circle of radius 3 used by the
// corner test.
var fastCircle = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1}, {3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1}, {-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// samplingPattern holds the 256 point pairs compared per descriptor,
// generated once from a fixed linear congruential sequence.
var samplingPattern = buildSamplingPattern()

func buildSamplingPattern() [descriptorBits][4]int {
	var pattern [descriptorBits][4]int
	state := uint64(0x2545F4914F6CDD1D)
	next := func() int {
		state = state*6364136223846793005 + 1442695040888963407
		// map into [-13, 13] so rotated samples stay inside the patch
		return int(state>>40)%27 - 13
	}
	for i := range pattern {
		pattern[i] = [4]int{next(), next(), next(), next()}
	}
	return pattern
}

// detectCopyMove returns surviving duplicated-feature pairs, deduped
// so each unordered keypoint pair counts once.
func detectCopyMove(gray []float64, w, h int, opts Options) []CopyMoveMatch {
	kps := detectCorners(gray, w, h, opts.MaxFeatures)
	if len(kps) < 2 {
		return nil
	}

	descs := make([]descriptor, len(kps))
	for i, kp := range kps {
		descs[i] = describePatch(gray, w, h, kp)
	}

	var matches []CopyMoveMatch
	seen := make(map[[2]int]bool)
	for i := range descs {
		best, second := -1, -1
		bestD, secondD := descriptorBits+1, descriptorBits+1
		for j := range descs {
			if j == i {
				continue
			}
			d := hamming(descs[i], descs[j])
			if d < bestD {
				second, secondD = best, bestD
				best, bestD = j, d
			} else if d < secondD {
				second, secondD = j, d
			}
		}
		if best < 0 || second < 0 {
			continue
		}
		// distance-ratio test against the second-nearest neighbour
		if float64(bestD) >= opts.MatchRatio*float64(secondD) {
			continue
		}

		dx := float64(kps[i].x - kps[best].x)
		dy := float64(kps[i].y - kps[best].y)
		if math.Hypot(dx, dy) <= opts.MinMatchDistance {
			// adjacent pixels are naturally self-similar
			continue
		}

		key := [2]int{i, best}
		if best < i {
			key = [2]int{best, i}
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		matches = append(matches, CopyMoveMatch{
			X1: kps[i].x, Y1: kps[i].y,
			X2: kps[best].x, Y2: kps[best].y,
			Confidence: 1 - float64(bestD)/descriptorRange,
		})
	}
	return matches
}

// detectCorners runs the segment test over the interior of the plane
// and keeps the strongest maxFeatures corners after 3×3 non-maximum
// suppression.
func detectCorners(gray []float64, w, h, maxFeatures int) []keypoint {
	margin := patchRadius + 1
	if w <= 2*margin || h <= 2*margin {
		return nil
	}

	scores := make([]int, w*h)
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			scores[y*w+x] = cornerScore(gray, w, x, y)
		}
	}

	var kps []keypoint
	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			s := scores[y*w+x]
			if s == 0 {
				continue
			}
			localMax := true
			for dy := -1; dy <= 1 && localMax; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if scores[(y+dy)*w+x+dx] > s {
						localMax = false
						break
					}
				}
			}
			if localMax {
				kps = append(kps, keypoint{x: x, y: y, score: s})
			}
		}
	}

	sort.SliceStable(kps, func(i, j int) bool { return kps[i].score > kps[j].score })
	if len(kps) > maxFeatures {
		kps = kps[:maxFeatures]
	}
	for i := range kps {
		kps[i].angle = patchOrientation(gray, w, h, kps[i].x, kps[i].y)
	}
	return kps
}

// cornerScore implements the FAST segment test: the pixel is a corner
// if at least fastArc contiguous circle pixels are all brighter or all
// darker than the center by the threshold. The score is the summed
// absolute contrast of the qualifying arc.
func cornerScore(gray []float64, w, x, y int) int {
	center := gray[y*w+x]
	var brighter, darker [32]bool
	var contrast [32]float64
	for i, off := range fastCircle {
		v := gray[(y+off[1])*w+x+off[0]]
		d := v - center
		brighter[i] = d > fastThreshold
		darker[i] = d < -fastThreshold
		if d < 0 {
			d = -d
		}
		contrast[i] = d
		// duplicate for wrap-around runs
		brighter[i+16] = brighter[i]
		darker[i+16] = darker[i]
		contrast[i+16] = contrast[i]
	}

	best := 0.0
	for _, flags := range [2][32]bool{brighter, darker} {
		run, sum := 0, 0.0
		for i := 0; i < 32; i++ {
			if flags[i] {
				run++
				sum += contrast[i]
				if run >= fastArc && sum > best {
					best = sum
				}
			} else {
				run, sum = 0, 0
			}
		}
	}
	return int(best)
}

// patchOrientation computes the intensity-centroid angle of the patch
// around a keypoint.
func patchOrientation(gray []float64, w, h, x, y int) float64 {
	var m10, m01 float64
	for dy := -patchRadius; dy <= patchRadius; dy++ {
		sy := y + dy
		if sy < 0 || sy >= h {
			continue
		}
		for dx := -patchRadius; dx <= patchRadius; dx++ {
			sx := x + dx
			if sx < 0 || sx >= w {
				continue
			}
			v := gray[sy*w+sx]
			m10 += float64(dx) * v
			m01 += float64(dy) * v
		}
	}
	return math.Atan2(m01, m10)
}

// describePatch builds the 256-bit descriptor by comparing pattern
// point pairs rotated to the keypoint orientation.
func describePatch(gray []float64, w, h int, kp keypoint) descriptor {
	sin, cos := math.Sincos(kp.angle)
	sample := func(px, py int) float64 {
		// rotate the pattern offset into the keypoint frame
		rx := kp.x + int(math.Round(cos*float64(px)-sin*float64(py)))
		ry := kp.y + int(math.Round(sin*float64(px)+cos*float64(py)))
		if rx < 0 {
			rx = 0
		} else if rx >= w {
			rx = w - 1
		}
		if ry < 0 {
			ry = 0
		} else if ry >= h {
			ry = h - 1
		}
		return gray[ry*w+rx]
	}

	var d descriptor
	for i, p := range samplingPattern {
		if sample(p[0], p[1]) < sample(p[2], p[3]) {
			d[i/64] |= 1 << uint(i%64)
		}
	}
	return d
}

func hamming(a, b descriptor) int {
	return bits.OnesCount64(a[0]^b[0]) + bits.OnesCount64(a[1]^b[1]) +
		bits.OnesCount64(a[2]^b[2]) + bits.OnesCount64(a[3]^b[3])
}
