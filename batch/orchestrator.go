// Package batch содержит оркестратор пакетных операций поиска LEI:
// последовательный обход входного списка, многоступенчатый фолбэк для
// поиска по названию, дедупликация по LEI и паузы под лимит реестра.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"leiserver/gleif"
	"leiserver/normalization"
)

// Значения по умолчанию для пакетной обработки.
const (
	DefaultPageSize          = 10
	DefaultRequestsPerMinute = 60
	DefaultPause             = time.Second
	DefaultSubstringTokens   = 3
)

// Стадии поиска по названию.
const (
	StageExact     = "exact"
	StageCleaned   = "cleaned"
	StageSubstring = "substring"
)

// Fetcher выполняет один фильтрованный запрос к реестру.
// Реализуется gleif.Client; в тестах подменяется фейком.
type Fetcher interface {
	Fetch(ctx context.Context, filters map[string]string) ([]gleif.RawRecord, error)
}

// ProgressFunc вызывается один раз на каждый входной элемент.
// Позволяет любому хосту (CLI, HTTP, тесты) рисовать прогресс,
// не втягивая UI в ядро.
type ProgressFunc func(index, total int, label string)

// Severity уровень диагностики.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic диагностическое сообщение, привязанное к запросу.
// Диагностики не прерывают пакет: результат отдается вместе с ними.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Query    string   `json:"query"`
	Message  string   `json:"message"`
}

// Result результат одной пакетной операции: записи без повторов по LEI
// в порядке первого появления плюс накопленные диагностики.
type Result struct {
	Records     []gleif.FlatRecord `json:"records"`
	Diagnostics []Diagnostic       `json:"diagnostics"`
}

// Config конфигурация оркестратора
type Config struct {
	// PageSize значение page[size] для полнотекстовых запросов.
	PageSize int
	// RequestsPerMinute бюджет запросов в минуту. Списки длиннее
	// бюджета обрабатываются с паузой перед каждым элементом,
	// кроме первого.
	RequestsPerMinute int
	// Pause длительность межэлементной паузы.
	Pause time.Duration
	// SubstringTokens число первых токенов для усеченного запроса
	// третьей стадии. Эвристика, не закон: выносится в конфиг.
	SubstringTokens int
	// Cache опциональный кэш точечных выборок по LEI.
	Cache *gleif.RecordCache
	// Logger структурированный логгер; по умолчанию slog.Default.
	Logger *slog.Logger
	// Progress опциональный колбэк прогресса.
	Progress ProgressFunc
}

// Orchestrator драйвер пакетных операций. Выполнение строго
// последовательное: один запрос к реестру в один момент времени.
type Orchestrator struct {
	client   Fetcher
	config   Config
	logger   *slog.Logger
	progress ProgressFunc
	sleep    func(time.Duration)
}

// NewOrchestrator создает новый оркестратор
func NewOrchestrator(client Fetcher, config Config) *Orchestrator {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if config.Pause <= 0 {
		config.Pause = DefaultPause
	}
	if config.SubstringTokens <= 0 {
		config.SubstringTokens = DefaultSubstringTokens
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "batch_orchestrator")
	}

	return &Orchestrator{
		client:   client,
		config:   config,
		logger:   logger,
		progress: config.Progress,
		sleep:    time.Sleep,
	}
}

// run состояние одной пакетной операции: набор уже виденных LEI и
// накапливаемый результат. Живет в пределах одного вызова.
type run struct {
	seen   map[string]struct{}
	result *Result
}

func newRun() *run {
	return &run{
		seen: make(map[string]struct{}),
		result: &Result{
			Records:     []gleif.FlatRecord{},
			Diagnostics: []Diagnostic{},
		},
	}
}

// add добавляет запись, если ее LEI еще не встречался.
// Первое вхождение побеждает; повторы молча отбрасываются.
func (r *run) add(rec gleif.FlatRecord) bool {
	lei := rec.LEI()
	if _, dup := r.seen[lei]; dup {
		return false
	}
	r.seen[lei] = struct{}{}
	r.result.Records = append(r.result.Records, rec)
	return true
}

func (r *run) diag(severity Severity, query, message string) {
	r.result.Diagnostics = append(r.result.Diagnostics, Diagnostic{
		Severity: severity,
		Query:    query,
		Message:  message,
	})
}

// FetchByIDs выполняет точечные выборки по списку LEI: отдельный
// запрос filter[lei] на каждый идентификатор, без тега Search Query.
// Пустой вход — пустой результат без обращений к реестру.
func (o *Orchestrator) FetchByIDs(ctx context.Context, ids []string) *Result {
	r := newRun()
	total := len(ids)

	for i, raw := range ids {
		if o.interrupted(ctx, r) {
			break
		}
		o.pauseBetweenItems(i, total)

		id := strings.ToUpper(strings.TrimSpace(raw))
		o.reportProgress(i, total, id)

		if o.config.Cache != nil {
			if rec, ok := o.config.Cache.Get(id); ok {
				r.add(rec)
				continue
			}
		}

		records, err := o.client.Fetch(ctx, map[string]string{
			gleif.FilterLEI:     id,
			gleif.ParamPageSize: "1",
		})
		if err != nil {
			o.reportQueryError(r, id, err)
			continue
		}
		if len(records) == 0 {
			r.diag(SeverityWarning, id, "no records found for the given query")
			continue
		}
		for _, rec := range records {
			flat := gleif.Flatten(rec, "")
			if r.add(flat) && o.config.Cache != nil {
				o.config.Cache.Set(flat.LEI(), flat)
			}
		}
	}

	o.logger.Info("batch completed",
		"operation", "fetch_by_ids",
		"input", total,
		"records", len(r.result.Records),
		"diagnostics", len(r.result.Diagnostics))
	return r.result
}

// SearchByNames выполняет поиск по названиям с трехступенчатым фолбэком
// на каждое название: exact -> cleaned -> substring. Стадия считается
// успешной, только если дала хотя бы один не виденный ранее LEI;
// успех прекращает дальнейшие стадии для этого названия.
func (o *Orchestrator) SearchByNames(ctx context.Context, names []string) *Result {
	r := newRun()
	total := len(names)

	for i, raw := range names {
		if o.interrupted(ctx, r) {
			break
		}
		o.pauseBetweenItems(i, total)

		name := strings.TrimSpace(raw)
		o.reportProgress(i, total, name)

		if !o.searchOneName(ctx, r, name) {
			r.diag(SeverityWarning, name, "no records found after all fallback stages")
		}
	}

	o.logger.Info("batch completed",
		"operation", "search_by_names",
		"input", total,
		"records", len(r.result.Records),
		"diagnostics", len(r.result.Diagnostics))
	return r.result
}

// searchOneName прогоняет стадии фолбэка для одного названия.
// Явный трехзвенный поток управления вместо нелокального флага:
// каждая стадия либо нашла новые записи (стоп), либо нет (дальше).
func (o *Orchestrator) searchOneName(ctx context.Context, r *run, name string) bool {
	// Стадия 1: точный запрос названием как есть.
	if o.runNameStage(ctx, r, name, name, StageExact) {
		return true
	}

	// Стадия 2: очищенное название. Пропускается, если чистка ничего
	// не убрала — повторный запрос той же строкой был бы потрачен зря.
	cleaned := normalization.CleanName(name)
	if cleaned != "" && cleaned != strings.ToUpper(name) {
		if o.runNameStage(ctx, r, name, cleaned, StageCleaned) {
			return true
		}
	}

	// Стадия 3: усечение до первых N токенов очищенного названия.
	// Два токена и меньше не усекаются: слишком мало специфики.
	tokens := strings.Fields(normalization.CleanName(name))
	if len(tokens) > 2 {
		n := o.config.SubstringTokens
		if n > len(tokens) {
			n = len(tokens)
		}
		truncated := strings.Join(tokens[:n], " ")
		if o.runNameStage(ctx, r, name, truncated, StageSubstring) {
			return true
		}
	}

	return false
}

// runNameStage выполняет один полнотекстовый запрос стадии и добавляет
// находки с тегом "<исходное название> (<стадия>)". Возвращает true,
// только если добавлен хотя бы один новый LEI.
func (o *Orchestrator) runNameStage(ctx context.Context, r *run, original, query, stage string) bool {
	records, err := o.client.Fetch(ctx, map[string]string{
		gleif.FilterFulltext: query,
		gleif.ParamPageSize:  strconv.Itoa(o.config.PageSize),
	})
	if err != nil {
		if !gleif.IsNoMatches(err) {
			o.reportQueryError(r, query, err)
		}
		return false
	}

	tag := fmt.Sprintf("%s (%s)", original, stage)
	found := false
	for _, rec := range records {
		if r.add(gleif.Flatten(rec, tag)) {
			found = true
		}
	}
	return found
}

// SearchByValidationIDs ищет записи по идентификаторам валидирующих
// органов. Механика как у FetchByIDs (по одному запросу на элемент),
// но через полнотекстовый фильтр: у реестра нет точного поля под
// такие идентификаторы. Находки помечаются исходным запросом.
func (o *Orchestrator) SearchByValidationIDs(ctx context.Context, ids []string) *Result {
	r := newRun()
	total := len(ids)

	for i, raw := range ids {
		if o.interrupted(ctx, r) {
			break
		}
		o.pauseBetweenItems(i, total)

		id := strings.TrimSpace(raw)
		o.reportProgress(i, total, id)

		records, err := o.client.Fetch(ctx, map[string]string{
			gleif.FilterFulltext: id,
			gleif.ParamPageSize:  strconv.Itoa(o.config.PageSize),
		})
		if err != nil {
			o.reportQueryError(r, id, err)
			continue
		}
		if len(records) == 0 {
			r.diag(SeverityWarning, id, "no records found for the given query")
			continue
		}
		for _, rec := range records {
			r.add(gleif.Flatten(rec, id))
		}
	}

	o.logger.Info("batch completed",
		"operation", "search_by_validation_ids",
		"input", total,
		"records", len(r.result.Records),
		"diagnostics", len(r.result.Diagnostics))
	return r.result
}

// pauseBetweenItems выдерживает паузу перед каждым элементом, кроме
// первого, когда размер списка превышает минутный бюджет запросов.
func (o *Orchestrator) pauseBetweenItems(index, total int) {
	if total > o.config.RequestsPerMinute && index > 0 {
		o.sleep(o.config.Pause)
	}
}

// interrupted проверяет контекст перед очередной итерацией.
// Прерывание не ошибка операции: накопленный результат возвращается
// с диагностикой о досрочной остановке.
func (o *Orchestrator) interrupted(ctx context.Context, r *run) bool {
	if err := ctx.Err(); err != nil {
		r.diag(SeverityError, "", fmt.Sprintf("batch interrupted: %v", err))
		return true
	}
	return false
}

func (o *Orchestrator) reportProgress(index, total int, label string) {
	if o.progress != nil {
		o.progress(index, total, label)
	}
}

// reportQueryError переводит ошибку клиента в диагностику.
// Пакет продолжается в любом случае.
func (o *Orchestrator) reportQueryError(r *run, query string, err error) {
	switch {
	case gleif.IsNoMatches(err):
		r.diag(SeverityWarning, query, "no records found for the given query")
	case gleif.IsBadQuery(err):
		r.diag(SeverityWarning, query, fmt.Sprintf("query parameters rejected: %v", err))
	default:
		r.diag(SeverityError, query, fmt.Sprintf("registry request failed: %v", err))
		o.logger.Error("registry request failed", "query", query, "error", err)
	}
}
