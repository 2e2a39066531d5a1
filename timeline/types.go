package timeline

// RawWord is one word-level transcription event, in source order.
type RawWord struct {
	Text  string
	Start float64
}

// KeywordEvent is a vocabulary hit at a point in the recording.
type KeywordEvent struct {
	Keyword string
	Start   float64
}

// Segment attributes a contiguous time range of one recording to one
// keyword. The JSON field names are the on-disk hand-off contract between
// the transcription and assembly stages.
type Segment struct {
	Keyword string  `json:"Folder"`
	Start   float64 `json:"starttime"`
	End     float64 `json:"endtime"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }
