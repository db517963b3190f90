// Package importer читает входные списки из загруженных CSV-файлов
// и отфильтровывает непригодные значения по правилам режима поиска.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Минимальные требования к значениям входных списков.
const (
	// LEILength длина кода LEI после трима и приведения к верхнему регистру.
	LEILength = 20
	// MinNameLength минимальная длина юридического названия.
	MinNameLength = 3
)

// ParseError ошибка разбора загруженного файла. Фатальна только для
// этой загрузки: процесс продолжает обслуживать остальные.
type ParseError struct {
	Err error
}

// Error реализует интерфейс error
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse uploaded CSV: %v", e.Err)
}

// Unwrap возвращает вложенную ошибку
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReadFirstColumn читает значения первой колонки CSV. Первая строка
// считается заголовком и отбрасывается. Кодировка подбирается как в
// выгрузках 1С: BOM UTF-8/UTF-16, валидный UTF-8 как есть,
// иначе попытка Windows-1251.
func ReadFirstColumn(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	decoded, err := decodeCharset(raw)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	values := make([]string, 0, 64)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		line++
		if line == 1 {
			// Строка заголовка.
			continue
		}
		if len(record) == 0 {
			continue
		}
		if v := strings.TrimSpace(record[0]); v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

// decodeCharset приводит содержимое файла к UTF-8.
func decodeCharset(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}), bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		decoded, err := decoder.Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode UTF-16: %w", err)
		}
		return decoded, nil
	case utf8.Valid(data):
		return data, nil
	default:
		decoder := charmap.Windows1251.NewDecoder()
		decoded, err := decoder.Bytes(data)
		if err != nil || !utf8.Valid(decoded) {
			return nil, fmt.Errorf("unsupported file encoding")
		}
		return decoded, nil
	}
}

// FilterLEIs оставляет только значения, похожие на код LEI:
// ровно 20 символов после трима, в верхнем регистре.
func FilterLEIs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if len(v) == LEILength {
			out = append(out, v)
		}
	}
	return out
}

// FilterNames оставляет названия длиной не короче MinNameLength.
func FilterNames(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if utf8.RuneCountInString(v) >= MinNameLength {
			out = append(out, v)
		}
	}
	return out
}

// FilterValidationIDs оставляет непустые идентификаторы.
func FilterValidationIDs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
