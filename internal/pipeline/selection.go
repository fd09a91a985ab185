package pipeline

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/clipforge/api/internal/model"
)

// Fixed rotating pools used by the deterministic enrichment fallback.
// Indexed by segment position modulo pool size so a re-run over the
// same segments yields the same metadata.
var (
	captionPool = []string{
		"You won't believe this moment",
		"Wait for it...",
		"This changed everything",
		"The moment everyone is talking about",
		"POV: you needed to see this today",
	}
	hashtagPool = [][]string{
		{"#viral", "#fyp", "#trending"},
		{"#mustwatch", "#highlights", "#epic"},
		{"#clip", "#moments", "#foryou"},
		{"#shorts", "#reels", "#daily"},
	}
	audiencePool = []string{
		"gen-z",
		"millennials",
		"creators",
		"general",
	}
	hookPool = [][]string{
		{"strong opener", "pattern interrupt"},
		{"curiosity gap", "payoff at the end"},
		{"emotional peak", "relatable moment"},
	}
	defaultPlatforms = []model.Platform{model.PlatformTikTok, model.PlatformShorts, model.PlatformReels}
)

// topHighlightCount caps direct excitement-based selection at
// min(10, 30% of segment count), never below one segment.
func topHighlightCount(segments int) int {
	n := int(float64(segments) * 0.3)
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

// SelectTopSegments picks the highest-excitement segments without AI
// involvement. The input slice is not modified.
func SelectTopSegments(segments []model.SceneSegment) []model.ClipCandidate {
	if len(segments) == 0 {
		return nil
	}
	ranked := append([]model.SceneSegment(nil), segments...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExcitementScore > ranked[j].ExcitementScore
	})
	ranked = ranked[:topHighlightCount(len(segments))]

	out := make([]model.ClipCandidate, len(ranked))
	for i, seg := range ranked {
		out[i] = model.ClipCandidate{
			StartTime:       seg.StartTime,
			EndTime:         seg.EndTime,
			Duration:        seg.Duration(),
			ExcitementScore: seg.ExcitementScore,
			IsHighlight:     true,
			Caption:         fmt.Sprintf("Highlight %d", i+1),
		}
	}
	return out
}

// EnrichSegmentsFallback is the deterministic substitute for the hosted
// AI selector: it marks every segment a highlight and assigns metadata
// from the fixed pools keyed by segment index. Viral potential is drawn
// from rng in [0.7, 1.0).
func EnrichSegmentsFallback(segments []model.SceneSegment, rng *rand.Rand) []model.ClipCandidate {
	out := make([]model.ClipCandidate, len(segments))
	for i, seg := range segments {
		out[i] = model.ClipCandidate{
			StartTime:       seg.StartTime,
			EndTime:         seg.EndTime,
			Duration:        seg.Duration(),
			ExcitementScore: seg.ExcitementScore,
			IsHighlight:     true,
			Caption:         captionPool[i%len(captionPool)],
			Hashtags:        hashtagPool[i%len(hashtagPool)],
			ViralPotential:  0.7 + rng.Float64()*0.3,
			Platforms:       defaultPlatforms,
			TargetAudience:  audiencePool[i%len(audiencePool)],
			EngagementHooks: hookPool[i%len(hookPool)],
		}
	}
	return out
}

// boundSegments clamps segments to the requested clip duration window:
// too-short segments are dropped, too-long ones truncated to the max.
func boundSegments(segments []model.SceneSegment, minDur, maxDur float64) []model.SceneSegment {
	out := make([]model.SceneSegment, 0, len(segments))
	for _, seg := range segments {
		d := seg.Duration()
		if minDur > 0 && d < minDur {
			continue
		}
		if maxDur > 0 && d > maxDur {
			seg.EndTime = seg.StartTime + maxDur
		}
		out = append(out, seg)
	}
	return out
}

// syntheticSilence builds a minimal PCM WAV of the given length, used
// as the audio-extraction fallback so transcription and merge stay
// shape-compatible.
func syntheticSilence(durationSec float64) []byte {
	const sampleRate = 8000
	samples := int(durationSec * sampleRate)
	if samples <= 0 {
		samples = sampleRate
	}
	dataLen := samples * 2 // 16-bit mono
	buf := make([]byte, 44+dataLen)
	copy(buf[0:4], "RIFF")
	putLE32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	putLE32(buf[16:20], 16)
	putLE16(buf[20:22], 1) // PCM
	putLE16(buf[22:24], 1) // mono
	putLE32(buf[24:28], sampleRate)
	putLE32(buf[28:32], sampleRate*2)
	putLE16(buf[32:34], 2)
	putLE16(buf[34:36], 16)
	copy(buf[36:40], "data")
	putLE32(buf[40:44], uint32(dataLen))
	return buf
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// heuristicTranscript is the transcription fallback: one low-confidence
// placeholder segment per scene so time-range lookups still resolve.
// Segment text stays empty on purpose: the heuristic only knows timing,
// and empty text keeps TextBetween empty so clip generation skips the
// audio-merge step instead of burning captions nobody spoke.
func heuristicTranscript(segments []model.SceneSegment) *model.Transcript {
	out := make([]model.TranscriptSegment, len(segments))
	for i, seg := range segments {
		out[i] = model.TranscriptSegment{
			Start:      seg.StartTime,
			End:        seg.EndTime,
			Text:       "",
			Confidence: 0,
		}
	}
	return &model.Transcript{Segments: out}
}

// placeholderClip is the video-cut fallback: a small deterministic
// buffer carrying the segment bounds so downstream persistence still
// has bytes to store.
func placeholderClip(start, end float64) []byte {
	return []byte(fmt.Sprintf("CLIPFORGE-PLACEHOLDER %.3f-%.3f", start, end))
}

// sliceAudioRange returns the proportional byte sub-range of the
// extracted source audio covering [start, end]. One extraction serves
// every clip; the source audio is never re-extracted per clip.
func sliceAudioRange(audio []byte, start, end, sourceDuration float64) []byte {
	if len(audio) == 0 || sourceDuration <= 0 || end <= start {
		return nil
	}
	lo := int(start / sourceDuration * float64(len(audio)))
	hi := int(end / sourceDuration * float64(len(audio)))
	if lo < 0 {
		lo = 0
	}
	if hi > len(audio) {
		hi = len(audio)
	}
	if lo >= hi {
		return nil
	}
	return audio[lo:hi]
}
