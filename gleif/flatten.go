package gleif

import (
	"fmt"
	"strconv"
	"strings"
)

// lookupPath разрешает точечный путь по дереву значений из encoding/json
// (map[string]interface{} / []interface{} / скаляры). Числовой сегмент
// индексирует срез (с нуля), нечисловой — ключ словаря. Любое
// несоответствие типа, выход за границы или отсутствующий ключ дают
// явный признак "нет значения" вместо паники.
func lookupPath(data interface{}, path string) (interface{}, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		if idx, err := strconv.Atoi(segment); err == nil {
			seq, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(seq) {
				return nil, false
			}
			current = seq[idx]
			continue
		}

		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// stringAt возвращает строковое значение по пути или Sentinel.
func stringAt(data interface{}, path string) string {
	value, ok := lookupPath(data, path)
	if !ok {
		return Sentinel
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return Sentinel
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		// Словарь или срез терминальным значением не являются.
		return Sentinel
	}
}

// formatAddress собирает адрес в одну строку: первая адресная строка,
// город, регион, индекс, страна через ", ". Непустые части соединяются,
// пустые пропускаются. Если адрес вообще не словарь — Sentinel целиком.
func formatAddress(data interface{}, path string) string {
	addr, ok := lookupPath(data, path)
	if !ok {
		return Sentinel
	}
	if _, isMap := addr.(map[string]interface{}); !isMap {
		return Sentinel
	}

	parts := make([]string, 0, 5)
	for _, p := range []string{"addressLines.0", "city", "region", "postalCode", "country"} {
		if v := stringAt(addr, p); v != Sentinel {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return Sentinel
	}
	return strings.Join(parts, ", ")
}

// Flatten нормализует одну запись реестра в плоскую строку таблицы.
// Чистая функция: любой сбой разрешения пути деградирует до Sentinel,
// наружу ошибки не выходят. Непустой query добавляет ведущее поле
// FieldSearchQuery для трассировки происхождения записи; точечные
// выборки по LEI его не проставляют.
func Flatten(rec RawRecord, query string) FlatRecord {
	tree := map[string]interface{}(rec)

	flat := FlatRecord{
		FieldLEI:                stringAt(tree, "id"),
		FieldLegalName:          stringAt(tree, "attributes.entity.legalName.name"),
		FieldOtherName:          stringAt(tree, "attributes.entity.otherNames.0.name"),
		FieldEntityStatus:       stringAt(tree, "attributes.entity.status"),
		FieldLegalAddress:       formatAddress(tree, "attributes.entity.legalAddress"),
		FieldRegistrationStatus: stringAt(tree, "attributes.registration.status"),
		FieldManagingLOU:        stringAt(tree, "attributes.registration.managingLou"),
		FieldInitialRegDate:     stringAt(tree, "attributes.registration.initialRegistrationDate"),
		FieldNextRenewalDate:    stringAt(tree, "attributes.registration.nextRenewalDate"),
		FieldEntityCreationDate: stringAt(tree, "attributes.entity.entityCreationDate"),
		FieldEntityExpiration:   stringAt(tree, "attributes.entity.entityExpirationDate"),
		FieldRegisteredAt:       stringAt(tree, "attributes.entity.registeredAt.id"),
		FieldRegisteredAs:       stringAt(tree, "attributes.entity.registeredAs"),
		FieldValidationAuthID:   stringAt(tree, "attributes.registration.validationAuthority.validationAuthorityEntityID"),
	}

	for i := 1; i <= 5; i++ {
		path := fmt.Sprintf("attributes.registration.otherValidationAuthorities.%d.validationAuthorityEntityID", i-1)
		flat[fmt.Sprintf("Other Validation Authority Entity ID %d", i)] = stringAt(tree, path)
	}

	if query != "" {
		flat[FieldSearchQuery] = query
	}
	return flat
}
