package speech

import (
	"math"
	"strings"

	"yt-scribe/models"
)

// maxBucketSeconds caps segment length when punctuation is sparse or
// missing, so no single segment grows unreasonably long.
const maxBucketSeconds = 10.0

// Normalize converts a recognition result into the canonical segment list.
// Paragraph groupings are preferred when the provider returned them; the
// word-level timeline is the fallback. The mapping is best-effort: any
// structural surprise yields an empty list rather than an error, since an
// empty transcript is a safer failure than crashing the request.
func Normalize(result *RecognitionResult) (segments []models.Segment) {
	defer func() {
		if r := recover(); r != nil {
			segments = []models.Segment{}
		}
	}()

	alt := firstAlternative(result)
	if alt == nil {
		return []models.Segment{}
	}

	if alt.Paragraphs != nil && len(alt.Paragraphs.Paragraphs) > 0 {
		return paragraphSegments(alt.Paragraphs.Paragraphs)
	}

	return wordSegments(alt.Words)
}

func firstAlternative(result *RecognitionResult) *Alternative {
	if result == nil || len(result.Results.Channels) == 0 {
		return nil
	}
	channel := result.Results.Channels[0]
	if len(channel.Alternatives) == 0 {
		return nil
	}
	return &channel.Alternatives[0]
}

func paragraphSegments(paragraphs []Paragraph) []models.Segment {
	segments := make([]models.Segment, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		parts := make([]string, 0, len(paragraph.Sentences))
		for _, sentence := range paragraph.Sentences {
			if text := strings.TrimSpace(sentence.Text); text != "" {
				parts = append(parts, text)
			}
		}
		text := strings.Join(parts, " ")
		if text == "" {
			continue
		}
		segments = append(segments, models.Segment{
			Text:       text,
			OffsetMs:   toMillis(paragraph.Start),
			DurationMs: toMillis(paragraph.End - paragraph.Start),
		})
	}
	return segments
}

// wordSegments buckets the word timeline into segments, closing a bucket at
// sentence-terminal punctuation or before the hard time cap is crossed.
func wordSegments(words []Word) []models.Segment {
	segments := make([]models.Segment, 0)

	var (
		buf         []string
		bucketStart float64
		lastEnd     float64
	)

	flush := func(end float64) {
		if len(buf) == 0 {
			return
		}
		segments = append(segments, models.Segment{
			Text:       strings.Join(buf, " "),
			OffsetMs:   toMillis(bucketStart),
			DurationMs: toMillis(end - bucketStart),
		})
		buf = nil
	}

	for _, word := range words {
		text := word.PunctuatedWord
		if text == "" {
			text = word.Word
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		// Close the running bucket before this word would push it past
		// the cap.
		if len(buf) > 0 && word.End-bucketStart > maxBucketSeconds {
			flush(lastEnd)
		}

		if len(buf) == 0 {
			bucketStart = word.Start
		}
		buf = append(buf, text)
		lastEnd = word.End

		if endsSentence(text) {
			flush(word.End)
		}
	}

	// Flush any remaining words using the last known end time.
	flush(lastEnd)

	return segments
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}

func toMillis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
