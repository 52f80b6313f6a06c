package highlight

import (
	"strings"

	"github.com/zjrosen/checklight/internal/checkbox"
)

// Render returns text with every range in b styled by the registry.
// Text outside ranges is copied unchanged. A range is styled line by line so
// that a range ending in a newline never gets padded to a block.
func Render(text string, b checkbox.Buckets, r *Registry) string {
	matches := b.All()
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(matches)*16)

	pos := 0
	for _, m := range matches {
		if m.Start < pos || m.End > len(text) {
			continue
		}
		sb.WriteString(text[pos:m.Start])
		writeStyled(&sb, m.Slice(text), r, m.State)
		pos = m.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

func writeStyled(sb *strings.Builder, segment string, r *Registry, state checkbox.State) {
	style := r.Style(state)
	for i, line := range strings.Split(segment, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}
