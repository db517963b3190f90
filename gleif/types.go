package gleif

// RawRecord сырая запись LEI из ответа GLEIF API (JSON:API).
// Структура вложенная и нестабильная: любой путь может отсутствовать
// на любой глубине, поэтому запись хранится как динамическое дерево.
type RawRecord map[string]interface{}

// Sentinel значение-заглушка для отсутствующих или недостижимых полей.
const Sentinel = "N/A"

// FieldSearchQuery служебное поле с исходным поисковым запросом.
// Присутствует только у записей, найденных поиском по названию
// или по идентификатору валидирующего органа.
const FieldSearchQuery = "Search Query"

// Названия выходных полей плоской записи.
const (
	FieldLEI                = "LEI"
	FieldLegalName          = "Legal Name"
	FieldOtherName          = "Other Name"
	FieldEntityStatus       = "Entity Status"
	FieldLegalAddress       = "Legal Address"
	FieldRegistrationStatus = "Registration Status"
	FieldManagingLOU        = "Managing LOU"
	FieldInitialRegDate     = "Initial Registration Date"
	FieldNextRenewalDate    = "LEI Next Renewal Date"
	FieldEntityCreationDate = "Entity Creation Date"
	FieldEntityExpiration   = "Entity Expiration Date"
	FieldRegisteredAt       = "Registered At (Register)"
	FieldRegisteredAs       = "Registered As"
	FieldValidationAuthID   = "Validation Authority Entity ID (primary)"
)

// FieldOrder фиксированный порядок полей плоской записи.
// Используется при выгрузке в CSV/Excel: порядок колонок стабилен
// между запусками. Поле FieldSearchQuery, если присутствует,
// выводится первой колонкой (см. export.Header).
var FieldOrder = []string{
	FieldLEI,
	FieldLegalName,
	FieldOtherName,
	FieldEntityStatus,
	FieldLegalAddress,
	FieldRegistrationStatus,
	FieldManagingLOU,
	FieldInitialRegDate,
	FieldNextRenewalDate,
	FieldEntityCreationDate,
	FieldEntityExpiration,
	FieldRegisteredAt,
	FieldRegisteredAs,
	FieldValidationAuthID,
	"Other Validation Authority Entity ID 1",
	"Other Validation Authority Entity ID 2",
	"Other Validation Authority Entity ID 3",
	"Other Validation Authority Entity ID 4",
	"Other Validation Authority Entity ID 5",
}

// FlatRecord плоская запись LEI: фиксированный набор полей из FieldOrder
// плюс опциональное поле FieldSearchQuery. Создается Flatten и после
// этого не изменяется.
type FlatRecord map[string]string

// LEI возвращает идентификатор записи (ключ дедупликации).
func (r FlatRecord) LEI() string {
	return r[FieldLEI]
}

// HasSearchQuery сообщает, помечена ли запись поисковым запросом.
func (r FlatRecord) HasSearchQuery() bool {
	_, ok := r[FieldSearchQuery]
	return ok
}
