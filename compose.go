package xgxtrace

import (
	"fmt"
	"strconv"
	"strings"
)

// Header returns the line that introduces a filtered traceback.
func Header(framework string) string {
	return "Traceback modulo " + framework + ":"
}

// TypeLabel names the type of a failure value: TypeName() when the value
// provides one, the Go type otherwise.
func TypeLabel(v any) string {
	if tn, ok := v.(interface{ TypeName() string }); ok {
		return tn.TypeName()
	}
	return fmt.Sprintf("%T", v)
}

func messageOf(v any) string {
	switch x := v.(type) {
	case interface{ Message() string }:
		return x.Message()
	case error:
		return x.Error()
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// TextOf renders a failure value as the last line of a report:
// "<label>: <message>\n", or "<label>\n" when the message is empty.
func TextOf(v any) string {
	label := TypeLabel(v)
	msg := messageOf(v)
	if msg == "" {
		return label + "\n"
	}
	return label + ": " + msg + "\n"
}

// SplitText splits a rendered failure at the first ": " into its type label
// and detail. Without a separator the whole trimmed text is the label and the
// detail is a single newline.
func SplitText(text string) (label, detail string) {
	i := strings.Index(text, ": ")
	if i < 0 {
		return strings.TrimSpace(text), "\n"
	}
	return text[:i], text[i+2:]
}

// FormatFrames renders frames, outermost first, two lines per frame.
func FormatFrames(frames Stack) string {
	var sb strings.Builder
	writeFrames(&sb, frames)
	return sb.String()
}

func writeFrames(sb *strings.Builder, frames Stack) {
	for _, f := range frames {
		sb.WriteString(`  File "`)
		sb.WriteString(f.File)
		sb.WriteString(`", line `)
		sb.WriteString(strconv.Itoa(f.Line))
		sb.WriteString(", in ")
		sb.WriteString(f.ShortFunction())
		sb.WriteByte('\n')
		if f.Source != "" {
			sb.WriteString("    ")
			sb.WriteString(f.Source)
			sb.WriteByte('\n')
		}
	}
}

// ComposeMessage builds the message of a rewritten failure: the original
// detail, the header, the user frames, then the original text again. With no
// frames the detail is returned unchanged.
func ComposeMessage(framework, text string, frames Stack) string {
	label, detail := SplitText(text)
	if len(frames) == 0 {
		return detail
	}
	var sb strings.Builder
	sb.WriteString(detail)
	sb.WriteByte('\n')
	sb.WriteString(Header(framework))
	sb.WriteByte('\n')
	writeFrames(&sb, frames)
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(detail)
	return sb.String()
}
