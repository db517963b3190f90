package batch

// Mode режим пакетного поиска.
type Mode string

const (
	// ModeLEI точечная выборка по кодам LEI.
	ModeLEI Mode = "lei"
	// ModeNames поиск по юридическим названиям с фолбэком.
	ModeNames Mode = "name"
	// ModeValidationIDs поиск по идентификаторам валидирующих органов.
	ModeValidationIDs Mode = "id"
)

// Valid сообщает, известен ли режим.
func (m Mode) Valid() bool {
	switch m {
	case ModeLEI, ModeNames, ModeValidationIDs:
		return true
	}
	return false
}
