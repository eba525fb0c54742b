package writing

import "fmt"

// Messages holds the user-facing feedback copy. Thresholds are fixed; only wording varies.
type Messages struct {
	CharacterNotFound string
	StrokeWeak        string // stroke number
	StrokeAcceptable  string // stroke number
	StrokeVeryGood    string // stroke number
	MissingStrokes    string // missing count
	ExtraStrokes      string // extra count
	NoStrokes         string

	SuggestStart      string
	SuggestEnd        string
	SuggestDirection  string // stroke number, expected direction
	SuggestSmoothness string
	SuggestCount      string // reference stroke count
	SuggestOrder      string
	Excellent         string

	Directions map[Direction]string
}

// VietnameseMessages is the default feedback copy.
func VietnameseMessages() Messages {
	return Messages{
		CharacterNotFound: "Không tìm thấy chữ này",
		StrokeWeak:        "Nét %d: cần cải thiện độ chính xác",
		StrokeAcceptable:  "Nét %d: khá tốt, có thể cải thiện thêm",
		StrokeVeryGood:    "Nét %d: rất tốt!",
		MissingStrokes:    "Thiếu %d nét",
		ExtraStrokes:      "Thừa %d nét",
		NoStrokes:         "Chưa có nét nào",

		SuggestStart:      "Chú ý điểm bắt đầu của mỗi nét",
		SuggestEnd:        "Chú ý điểm kết thúc của mỗi nét",
		SuggestDirection:  "Nét %d nên viết theo hướng %s",
		SuggestSmoothness: "Viết nét liền mạch và đều tay hơn",
		SuggestCount:      "Chữ này có %d nét, hãy viết đủ theo đúng thứ tự",
		SuggestOrder:      "Xem lại thứ tự nét và luyện chậm hơn",
		Excellent:         "Tuyệt vời! Hãy thử chữ tiếp theo",

		Directions: map[Direction]string{
			DirectionHorizontal: "ngang",
			DirectionVertical:   "dọc",
			DirectionDiagonal:   "xiên",
			DirectionCurve:      "cong",
			DirectionHook:       "móc",
			DirectionDot:        "chấm",
		},
	}
}

// EnglishMessages is an English rendition of the feedback copy.
func EnglishMessages() Messages {
	return Messages{
		CharacterNotFound: "Character not found",
		StrokeWeak:        "Stroke %d: needs accuracy improvement",
		StrokeAcceptable:  "Stroke %d: acceptable, could improve",
		StrokeVeryGood:    "Stroke %d: very good!",
		MissingStrokes:    "Missing %d strokes",
		ExtraStrokes:      "%d extra strokes",
		NoStrokes:         "No strokes drawn",

		SuggestStart:      "Watch where each stroke starts",
		SuggestEnd:        "Watch where each stroke ends",
		SuggestDirection:  "Stroke %d should be drawn %s",
		SuggestSmoothness: "Draw each stroke in one smooth, even motion",
		SuggestCount:      "This character has %d strokes; draw all of them in order",
		SuggestOrder:      "Review the stroke order and practice more slowly",
		Excellent:         "Excellent! Try the next character",

		Directions: map[Direction]string{
			DirectionHorizontal: "horizontally",
			DirectionVertical:   "vertically",
			DirectionDiagonal:   "diagonally",
			DirectionCurve:      "as a curve",
			DirectionHook:       "with a hook",
			DirectionDot:        "as a dot",
		},
	}
}

// MessagesFor returns the copy for a language code ("vi" or "en"); unknown codes fall back to Vietnamese.
func MessagesFor(lang string) Messages {
	if lang == "en" {
		return EnglishMessages()
	}
	return VietnameseMessages()
}

func (m Messages) direction(d Direction) string {
	if name, ok := m.Directions[d]; ok {
		return name
	}
	return string(d)
}

func (m Messages) strokeLine(order, score int) string {
	switch {
	case score < PassScore:
		return fmt.Sprintf(m.StrokeWeak, order)
	case score < VeryGoodScore:
		return fmt.Sprintf(m.StrokeAcceptable, order)
	default:
		return fmt.Sprintf(m.StrokeVeryGood, order)
	}
}
