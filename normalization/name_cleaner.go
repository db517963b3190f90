package normalization

import (
	"regexp"
	"strings"
)

// legalSuffixes организационно-правовые хвосты, удаляемые из названий
// перед повторным поиском. Точки и запятые в шаблоне не нужны:
// пунктуация вычищается из строки до сопоставления.
var legalSuffixes = []string{
	"LIMITED LIABILITY PARTNERSHIP",
	"LIMITED LIABILITY COMPANY",
	"PUBLIC LIMITED COMPANY",
	"PRIVATE LIMITED",
	"LIMITED PARTNERSHIP",
	"JOINT STOCK COMPANY",
	"INCORPORATED",
	"CORPORATION",
	"PVT LTD",
	"PTE LTD",
	"PTY LTD",
	"COMPANY",
	"LIMITED",
	"HOLDING",
	"GMBH",
	"SARL",
	"CORP",
	"LLC",
	"LLP",
	"LTD",
	"PLC",
	"INC",
	"PVT",
	"PTE",
	"PTY",
	"SPA",
	"AG",
	"BV",
	"NV",
	"SA",
	"SE",
	"CO",
}

var (
	punctReplacer   = strings.NewReplacer(".", "", ",", "")
	whitespaceRegex = regexp.MustCompile(`\s+`)
	suffixPatterns  []*regexp.Regexp
)

func init() {
	// Длинные суффиксы первыми: "PRIVATE LIMITED" должен сработать
	// раньше, чем входящий в него "LIMITED".
	sorted := make([]string, len(legalSuffixes))
	copy(sorted, legalSuffixes)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for _, suffix := range sorted {
		pattern := `\b` + strings.ReplaceAll(regexp.QuoteMeta(suffix), " ", `\s+`) + `\b`
		suffixPatterns = append(suffixPatterns, regexp.MustCompile(pattern))
	}
}

// CleanName приводит название организации к форме для повторного поиска:
// верхний регистр, без точек и запятых, без организационно-правовых
// суффиксов (удаляются по целым словам в любой позиции строки),
// с одиночными пробелами. Детерминирована и идемпотентна:
// CleanName(CleanName(x)) == CleanName(x). Пустой вход дает пустой выход.
func CleanName(name string) string {
	cleaned := strings.ToUpper(name)
	cleaned = punctReplacer.Replace(cleaned)
	for _, pattern := range suffixPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, " ")
	}
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
