package profile

import "strings"

// ParseTags разбирает строку тегов через запятую. Пустые элементы отбрасываются,
// повторы сохраняются. Для строки без тегов возвращает nil.
func ParseTags(input string) []string {
	var tags []string
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FormatTags собирает теги в строку для поля ввода.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
