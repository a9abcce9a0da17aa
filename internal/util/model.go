package util

import (
	"regexp"
	"sort"
	"strings"
)

var datedModelPattern = regexp.MustCompile(`^claude-(.+)-(\d{8})$`)

// SimplifyModelName turns claude-{name}-{yyyymmdd} into {Name}
func SimplifyModelName(modelName string) string {
	matches := datedModelPattern.FindStringSubmatch(modelName)
	if len(matches) == 3 {
		modelPart := matches[1]
		if len(modelPart) > 0 {
			return strings.ToUpper(string(modelPart[0])) + modelPart[1:]
		}
		return modelPart
	}
	return modelName
}

// ModelFamily returns "opus", "sonnet", "haiku" or "" for a model identifier
func ModelFamily(modelName string) string {
	lower := strings.ToLower(modelName)
	for _, family := range []string{"opus", "sonnet", "haiku"} {
		if strings.Contains(lower, family) {
			return family
		}
	}
	return ""
}

// GetModelOrder returns the sort order for a model (lower number = higher priority)
func GetModelOrder(modelName string) int {
	switch ModelFamily(modelName) {
	case "opus":
		return 1
	case "sonnet":
		return 2
	case "haiku":
		return 3
	default:
		return 100
	}
}

// SortModels sorts model names by family, then alphabetically
func SortModels(models []string) []string {
	sorted := make([]string, len(models))
	copy(sorted, models)

	sort.Slice(sorted, func(i, j int) bool {
		orderI := GetModelOrder(sorted[i])
		orderJ := GetModelOrder(sorted[j])
		if orderI != orderJ {
			return orderI < orderJ
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}
