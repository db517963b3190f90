package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"leiserver/batch"
	"leiserver/export"
	"leiserver/gleif"
	"leiserver/importer"
)

// BatchResponse структура JSON ответа пакетной операции
type BatchResponse struct {
	Mode        batch.Mode         `json:"mode"`
	Input       int                `json:"input"`
	Count       int                `json:"count"`
	Records     []gleif.FlatRecord `json:"records"`
	Diagnostics []batch.Diagnostic `json:"diagnostics"`
}

// ValuesRequest JSON тело со списком значений (альтернатива загрузке CSV)
type ValuesRequest struct {
	Values []string `json:"values"`
}

// BatchHandler обработчики пакетных операций поиска LEI
type BatchHandler struct {
	orchestrator *batch.Orchestrator
	logger       *slog.Logger
}

// NewBatchHandler создает новый обработчик пакетных операций
func NewBatchHandler(orchestrator *batch.Orchestrator, logger *slog.Logger) *BatchHandler {
	if logger == nil {
		logger = slog.Default().With("component", "batch_handler")
	}
	return &BatchHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// HandleBatchByLEI обработчик точечной выборки по кодам LEI
// @Summary Пакетная выборка записей по кодам LEI
// @Description Принимает CSV файл (первая колонка) или JSON список значений; возвращает плоские записи реестра GLEIF
// @Tags batch
// @Accept multipart/form-data,json
// @Produce json,text/csv
// @Param format query string false "Формат ответа: json, csv, excel"
// @Success 200 {object} BatchResponse "Результат выборки"
// @Failure 400 {object} ErrorResponse "Нет пригодных значений или кривой файл"
// @Router /api/batch/lei [post]
func (h *BatchHandler) HandleBatchByLEI(c *gin.Context) {
	h.runBatch(c, batch.ModeLEI)
}

// HandleBatchByNames обработчик поиска по юридическим названиям
// @Summary Пакетный поиск записей по названиям с трехступенчатым фолбэком
// @Tags batch
// @Accept multipart/form-data,json
// @Produce json,text/csv
// @Param format query string false "Формат ответа: json, csv, excel"
// @Success 200 {object} BatchResponse "Результат поиска"
// @Failure 400 {object} ErrorResponse "Нет пригодных значений или кривой файл"
// @Router /api/batch/names [post]
func (h *BatchHandler) HandleBatchByNames(c *gin.Context) {
	h.runBatch(c, batch.ModeNames)
}

// HandleBatchByValidationIDs обработчик поиска по идентификаторам валидирующих органов
// @Summary Пакетный поиск записей по идентификаторам валидирующих органов
// @Tags batch
// @Accept multipart/form-data,json
// @Produce json,text/csv
// @Param format query string false "Формат ответа: json, csv, excel"
// @Success 200 {object} BatchResponse "Результат поиска"
// @Failure 400 {object} ErrorResponse "Нет пригодных значений или кривой файл"
// @Router /api/batch/validation-ids [post]
func (h *BatchHandler) HandleBatchByValidationIDs(c *gin.Context) {
	h.runBatch(c, batch.ModeValidationIDs)
}

// runBatch общий поток: прочитать вход, отфильтровать по режиму,
// прогнать пакет, отрендерить в запрошенном формате.
func (h *BatchHandler) runBatch(c *gin.Context, mode batch.Mode) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatJSON)))
	if !format.Valid() {
		SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
		return
	}

	values, err := h.readValues(c)
	if err != nil {
		var parseErr *importer.ParseError
		if errors.As(err, &parseErr) {
			SendJSONError(c, http.StatusBadRequest, parseErr.Error())
			return
		}
		SendJSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	filtered := filterForMode(mode, values)
	if len(filtered) == 0 {
		SendJSONError(c, http.StatusBadRequest, "no usable input values after filtering")
		return
	}

	ctx := c.Request.Context()
	var result *batch.Result
	switch mode {
	case batch.ModeLEI:
		result = h.orchestrator.FetchByIDs(ctx, filtered)
	case batch.ModeNames:
		result = h.orchestrator.SearchByNames(ctx, filtered)
	case batch.ModeValidationIDs:
		result = h.orchestrator.SearchByValidationIDs(ctx, filtered)
	}

	h.render(c, format, mode, len(filtered), result)
}

// readValues достает входной список: multipart файл "file" или JSON тело.
func (h *BatchHandler) readValues(c *gin.Context) ([]string, error) {
	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		return importer.ReadFirstColumn(file)
	}

	var req ValuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("expected a CSV file upload or a JSON values list: %w", err)
	}
	return req.Values, nil
}

func filterForMode(mode batch.Mode, values []string) []string {
	switch mode {
	case batch.ModeLEI:
		return importer.FilterLEIs(values)
	case batch.ModeNames:
		return importer.FilterNames(values)
	default:
		return importer.FilterValidationIDs(values)
	}
}

// render отдает результат в запрошенном формате.
// CSV и Excel уходят вложением под именем файла режима.
func (h *BatchHandler) render(c *gin.Context, format export.Format, mode batch.Mode, input int, result *batch.Result) {
	switch format {
	case export.FormatCSV:
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, result.Records); err != nil {
			h.logger.Error("csv rendering failed", "error", err)
			SendJSONError(c, http.StatusInternalServerError, "failed to render CSV")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(mode, format)))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case export.FormatExcel:
		var buf bytes.Buffer
		if err := export.WriteExcel(&buf, result.Records); err != nil {
			h.logger.Error("excel rendering failed", "error", err)
			SendJSONError(c, http.StatusInternalServerError, "failed to render Excel")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(mode, format)))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		SendJSONResponse(c, http.StatusOK, BatchResponse{
			Mode:        mode,
			Input:       input,
			Count:       len(result.Records),
			Records:     result.Records,
			Diagnostics: result.Diagnostics,
		})
	}
}
