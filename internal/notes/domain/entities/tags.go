package entities

import (
	"slices"
	"strings"
)

// DistinctTags объединяет теги, отбрасывает пустые и состоящие из пробелов,
// удаляет дубликаты и сортирует по возрастанию.
func DistinctTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}
