package diagnostic

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// Formatter renders a diagnostic list for an external consumer.
type Formatter interface {
	Format(list *List) ([]byte, error)
}

// JSONFormatter renders diagnostics as editor-style ranges: zero-based
// line/character pairs resolved against the component source.
type JSONFormatter struct {
	Source string
}

func NewJSONFormatter(source string) *JSONFormatter {
	return &JSONFormatter{Source: source}
}

type jsonPlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type jsonRange struct {
	Start jsonPlace `json:"start"`
	End   jsonPlace `json:"end"`
}

type jsonDiagnostic struct {
	Code     string    `json:"code"`
	Severity int       `json:"severity"`
	Message  string    `json:"message"`
	Range    jsonRange `json:"range"`
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 4
	}
}

func toRange(sp span.Span, source string) jsonRange {
	r := sp.GetRange(source)
	return jsonRange{
		Start: jsonPlace{Line: r.Start.Line, Character: r.Start.Character},
		End:   jsonPlace{Line: r.End.Line, Character: r.End.Character},
	}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(list *List) ([]byte, error) {
	if list == nil {
		return nil, errors.New("diagnostic list is nil")
	}
	out := make([]jsonDiagnostic, 0, len(list.Diagnostics))
	for _, d := range list.Diagnostics {
		out = append(out, jsonDiagnostic{
			Code:     string(d.Code),
			Severity: severityRank(d.Severity),
			Message:  d.Message,
			Range:    toRange(d.Span, f.Source),
		})
	}
	return json.Marshal(out)
}
