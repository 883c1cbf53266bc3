package bitap

// scorer computes the distance-weighted score for one chunk scan.
type scorer struct {
	patternLen       int
	expectedLocation int
	distance         int
	ignoreLocation   bool
}

// score combines edit-distance accuracy with positional proximity.
func (s scorer) score(errors, currentLocation int) float64 {
	accuracy := float64(errors) / float64(s.patternLen)
	if s.ignoreLocation {
		return accuracy
	}

	proximity := currentLocation - s.expectedLocation
	if proximity < 0 {
		proximity = -proximity
	}

	if s.distance == 0 {
		if proximity > 0 {
			return 1.0
		}
		return accuracy
	}

	return accuracy + float64(proximity)/float64(s.distance)
}

type scanResult struct {
	isMatch bool
	score   float64
	ranges  []Range
}

// scan runs the bit-parallel error-tolerant search of one pattern chunk
// over text. Error levels grow from 0 to the pattern length; each level's
// bit array derives from the previous level, and the loop short-circuits
// once no achievable score at the next level can beat the best so far.
func scan(text, pattern []rune, alphabet map[rune]uint32, cfg Config) scanResult {
	patternLen := len(pattern)
	textLen := len(text)

	expectedLocation := cfg.Location
	if expectedLocation < 0 {
		expectedLocation = 0
	}
	if expectedLocation > textLen {
		expectedLocation = textLen
	}

	sc := scorer{
		patternLen:       patternLen,
		expectedLocation: expectedLocation,
		distance:         cfg.Distance,
		ignoreLocation:   cfg.IgnoreLocation,
	}

	currentThreshold := cfg.Threshold
	bestLocation := expectedLocation

	// Matched-character masks cost time per position, so they are only
	// tracked when something downstream will read them.
	computeMatches := cfg.MinMatchCharLength > 1 || cfg.IncludeMatches
	var matchMask []bool
	if computeMatches {
		matchMask = make([]bool, textLen)
	}

	// Exact occurrences are cheap to find and seed the threshold the
	// error-tolerant scan has to beat.
	for {
		index := runeIndex(text, pattern, bestLocation)
		if index < 0 {
			break
		}

		score := sc.score(0, index)
		if score < currentThreshold {
			currentThreshold = score
		}
		bestLocation = index + patternLen

		if computeMatches {
			for i := 0; i < patternLen; i++ {
				matchMask[index+i] = true
			}
		}
	}

	bestLocation = -1
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << uint(patternLen-1)

	var lastBitArr []uint32

	for i := 0; i < patternLen; i++ {
		// Binary search for how far from the expected location a match
		// at this error level could sit and still beat the threshold.
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			if sc.score(i, expectedLocation+binMid) <= currentThreshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := expectedLocation - binMid + 1
		if start < 1 {
			start = 1
		}

		var finish int
		if cfg.FindAllMatches {
			finish = textLen
		} else {
			finish = expectedLocation + binMid
			if finish > textLen {
				finish = textLen
			}
			finish += patternLen
		}

		bitArr := make([]uint32, finish+2)
		bitArr[finish+1] = (1 << uint(i)) - 1

		for j := finish; j >= start; j-- {
			currentLocation := j - 1

			var charMatch uint32
			if currentLocation < textLen {
				charMatch = alphabet[text[currentLocation]]
			}
			if computeMatches && currentLocation < textLen {
				matchMask[currentLocation] = charMatch != 0
			}

			// Survived characters at this error level.
			bitArr[j] = ((bitArr[j+1] << 1) | 1) & charMatch
			if i > 0 {
				// Substitutions, insertions and deletions carried over
				// from the previous level.
				bitArr[j] |= ((lastBitArr[j+1] | lastBitArr[j]) << 1) | 1 | lastBitArr[j+1]
			}

			if bitArr[j]&mask == 0 {
				continue
			}

			finalScore = sc.score(i, currentLocation)
			if finalScore > currentThreshold {
				continue
			}

			currentThreshold = finalScore
			bestLocation = currentLocation

			// Everything before the expected location only gets worse.
			if bestLocation <= expectedLocation {
				break
			}

			// Mirror the scan window around the expected location.
			start = 2*expectedLocation - bestLocation
			if start < 1 {
				start = 1
			}
		}

		// One more error could not possibly beat the threshold.
		if sc.score(i+1, expectedLocation) > currentThreshold {
			break
		}

		lastBitArr = bitArr
	}

	result := scanResult{
		isMatch: bestLocation >= 0,
		score:   finalScore,
	}
	if result.score < 0.001 {
		result.score = 0.001
	}

	if computeMatches {
		ranges := maskToRanges(matchMask, cfg.MinMatchCharLength)
		if len(ranges) == 0 {
			result.isMatch = false
		} else if cfg.IncludeMatches {
			result.ranges = ranges
		}
	}

	return result
}

// runeIndex returns the first occurrence of pattern in text at or after
// from, or -1.
func runeIndex(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(pattern) == 0 {
		return -1
	}

outer:
	for i := from; i+len(pattern) <= len(text); i++ {
		for j, r := range pattern {
			if text[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// maskToRanges converts the per-position match mask into inclusive index
// ranges, dropping runs shorter than minLength.
func maskToRanges(mask []bool, minLength int) []Range {
	if minLength < 1 {
		minLength = 1
	}

	var ranges []Range
	start := -1

	for i, matched := range mask {
		if matched && start < 0 {
			start = i
		}
		if !matched && start >= 0 {
			if i-start >= minLength {
				ranges = append(ranges, Range{Start: start, End: i - 1})
			}
			start = -1
		}
	}

	if start >= 0 && len(mask)-start >= minLength {
		ranges = append(ranges, Range{Start: start, End: len(mask) - 1})
	}

	return ranges
}
