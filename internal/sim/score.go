package sim

import "math"

// Score weights.
const (
	scoreBase      = 45
	scoreGemMax    = 25
	scoreCycleMax  = 15
	cyclesPerPoint = 8
	scoreHitMax    = 16
	scorePerHit    = 4
	scoreTimeFull  = 14
	scoreTimeGood  = 9
	scoreTimeSlow  = 4
	timeRatioFull  = 1.0
	timeRatioGood  = 1.25
	timeRatioSlow  = 1.6
	rankThresholdS = 92
	rankThresholdA = 76
	rankThresholdB = 58
)

// Rank is the letter grade of a run.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
)

// ScoreInput carries the run statistics scoring depends on.
type ScoreInput struct {
	Success   bool
	Gems      int
	GemsTotal int
	Cycles    int
	Hits      int
	ElapsedMs float64
	TargetMs  float64
}

// Score computes the run score. Failed runs score zero. The value is not
// clamped; a perfect fast run exceeds 100.
func Score(in ScoreInput) int {
	if !in.Success {
		return 0
	}
	return scoreBase + gemPoints(in.Gems, in.GemsTotal) + cyclePoints(in.Cycles) +
		hitPoints(in.Hits) + timePoints(in.ElapsedMs, in.TargetMs)
}

func gemPoints(gems, total int) int {
	if total <= 0 {
		return scoreGemMax
	}
	ratio := math.Min(1, float64(gems)/float64(total))
	return int(math.Round(scoreGemMax * ratio))
}

func cyclePoints(cycles int) int {
	return min(scoreCycleMax, max(0, cycles)/cyclesPerPoint)
}

func hitPoints(hits int) int {
	return max(0, scoreHitMax-scorePerHit*hits)
}

func timePoints(elapsedMs, targetMs float64) int {
	if targetMs <= 0 {
		return 0
	}
	ratio := elapsedMs / targetMs
	switch {
	case ratio <= timeRatioFull:
		return scoreTimeFull
	case ratio <= timeRatioGood:
		return scoreTimeGood
	case ratio <= timeRatioSlow:
		return scoreTimeSlow
	default:
		return 0
	}
}

// RankFor maps a score to a rank. Failures always rank C.
func RankFor(score int, success bool) Rank {
	if !success {
		return RankC
	}
	switch {
	case score >= rankThresholdS:
		return RankS
	case score >= rankThresholdA:
		return RankA
	case score >= rankThresholdB:
		return RankB
	default:
		return RankC
	}
}
