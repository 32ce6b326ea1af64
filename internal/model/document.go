package model

// DocumentSource tags how the raw text of a document was acquired.
type DocumentSource string

const (
	// SourceNativeText means the text came from a PDF text layer.
	SourceNativeText DocumentSource = "NATIVE_TEXT"
	// SourceOCR means the text came from an optical recognition transcript.
	SourceOCR DocumentSource = "OCR"
)

// BoundingBox is a word's position on the page, in page coordinates with
// the origin at the top-left corner.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 { return b.X1 - b.X0 }

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 { return b.Y1 - b.Y0 }

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// HorizontalOverlap returns the overlap in page units between this box and
// other along the X axis, or 0 when they do not overlap.
func (b BoundingBox) HorizontalOverlap(other BoundingBox) float64 {
	left := b.X0
	if other.X0 > left {
		left = other.X0
	}
	right := b.X1
	if other.X1 < right {
		right = other.X1
	}
	if right <= left {
		return 0
	}
	return right - left
}

// Word is a positioned token extracted from a document page.
type Word struct {
	Text string      `json:"text"`
	Box  BoundingBox `json:"box"`
}

// RawDocument is the immutable input to one extraction call: the full text
// recovered from an invoice plus, optionally, word-level position metadata.
type RawDocument struct {
	Text   string         `json:"text"`
	Words  []Word         `json:"words,omitempty"`
	Source DocumentSource `json:"source"`
}

// HasWords reports whether position metadata is available for spatial search.
func (d *RawDocument) HasWords() bool { return len(d.Words) > 0 }

// FieldCandidate is a raw string located for a logical field, before
// disambiguation. Candidates live only within one assembler invocation.
type FieldCandidate struct {
	RawValue string
	Locator  string // pattern or anchor id that produced the value
	Position *BoundingBox
}
