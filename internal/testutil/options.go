package testutil

// ItemOption configures a checkbox item during builder setup.
type ItemOption func(*lineData)

// Indent prefixes the item with n spaces.
func Indent(n int) ItemOption {
	return func(l *lineData) { l.indent = n }
}

// Bullet prefixes the item with a list marker such as "- " or "1. ".
func Bullet(bullet string) ItemOption {
	return func(l *lineData) { l.bullet = bullet }
}

// Marker overrides the character between the brackets, e.g. 'X' or '-'.
func Marker(r rune) ItemOption {
	return func(l *lineData) { l.marker = r }
}
