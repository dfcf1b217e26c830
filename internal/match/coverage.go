package match

import "time"

// Range is a half-open [Start, End) span of character positions.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Mask has one entry per character of the target string.
type Mask []bool

func EmptyMask(length int) Mask {
	return make(Mask, length)
}

func (m Mask) Count() int {
	count := 0
	for _, covered := range m {
		if covered {
			count++
		}
	}
	return count
}

// Ranges collapses the mask into maximal contiguous covered spans.
func (m Mask) Ranges() []Range {
	ranges := make([]Range, 0)
	start := -1
	for i := 0; i <= len(m); i++ {
		if i < len(m) && m[i] {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			ranges = append(ranges, Range{Start: start, End: i})
			start = -1
		}
	}
	return ranges
}

// FindRanges scans target left to right and returns the non-overlapping
// non-empty matches in order. Zero-width matches are skipped by moving the
// cursor one character past them. The whole scan shares a single timeout
// budget; running out of it is a PatternError.
func (p *Pattern) FindRanges(target string) ([]Range, error) {
	runes := []rune(target)
	ranges := make([]Range, 0)
	var deadline time.Time
	if p.budget > 0 {
		deadline = time.Now().Add(p.budget)
	}
	for cursor := 0; cursor <= len(runes); {
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return nil, &PatternError{Pattern: p.source, Err: errScanTimeout}
			}
			p.re.MatchTimeout = remaining
		}
		m, err := p.re.FindRunesMatchStartingAt(runes, cursor)
		if err != nil {
			return nil, &PatternError{Pattern: p.source, Err: err}
		}
		if m == nil {
			break
		}
		if p.sticky && m.Index != cursor {
			break
		}
		if m.Length == 0 {
			cursor = m.Index + 1
			continue
		}
		end := m.Index + m.Length
		if end > len(runes) {
			end = len(runes)
		}
		ranges = append(ranges, Range{Start: m.Index, End: end})
		cursor = end
	}
	return ranges, nil
}

func maskFromRanges(length int, ranges []Range) Mask {
	mask := EmptyMask(length)
	for _, r := range ranges {
		for i := r.Start; i < r.End && i < length; i++ {
			mask[i] = true
		}
	}
	return mask
}
