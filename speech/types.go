package speech

// RecognitionResult is the provider's response shape: one or more channels,
// each with alternatives carrying either a word-level timeline or
// higher-level paragraph groupings. All times are seconds.
type RecognitionResult struct {
	Results RecognitionResults `json:"results"`
}

type RecognitionResults struct {
	Channels []Channel `json:"channels"`
}

type Channel struct {
	Alternatives []Alternative `json:"alternatives"`
}

type Alternative struct {
	Transcript string          `json:"transcript"`
	Words      []Word          `json:"words"`
	Paragraphs *ParagraphGroup `json:"paragraphs,omitempty"`
}

type Word struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
}

type ParagraphGroup struct {
	Transcript string      `json:"transcript"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

type Paragraph struct {
	Sentences []Sentence `json:"sentences"`
	Start     float64    `json:"start"`
	End       float64    `json:"end"`
}

type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
