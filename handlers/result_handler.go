package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(rs services.ResultService) *ResultHandler {
	return &ResultHandler{
		resultService: rs,
	}
}

// CreateResult godoc
// @Summary Добавить результат
// @Description Результат без названия события считается итоговым и сразу приносит очки факультетам.
// @Tags results
// @Accept json
// @Produce json
// @Param input body services.CreateResultInput true "Результат с местами"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Вид спорта не найден"
// @Failure 422 {object} map[string]string "Некорректные места или очки"
// @Security BearerAuth
// @Router /api/admin/results [post]
func (h *ResultHandler) CreateResult(w http.ResponseWriter, r *http.Request) {
	var input services.CreateResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.CreateResult(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetResult godoc
// @Summary Получить результат
// @Tags results
// @Produce json
// @Param resultID path int true "Result ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/results/{resultID} [get]
func (h *ResultHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.GetResult(r.Context(), resultID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseResultFilter(r *http.Request) (models.ResultFilter, error) {
	var filter models.ResultFilter
	q := r.URL.Query()

	sportID, err := getOptionalIntQuery(r, "sport_id")
	if err != nil {
		return filter, err
	}
	filter.SportID = sportID

	if v := strings.TrimSpace(q.Get("gender")); v != "" {
		gender := models.Gender(v)
		filter.Gender = &gender
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		category := models.ResultCategory(v)
		filter.Category = &category
	}
	if v := strings.TrimSpace(q.Get("date")); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("invalid date query parameter: %q", v)
		}
		filter.EventDate = &date
	}
	if v := strings.TrimSpace(q.Get("overall")); v != "" {
		overall, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid overall query parameter: %q", v)
		}
		filter.OverallOnly = overall
	}

	limit, err := getOptionalIntQuery(r, "limit")
	if err != nil {
		return filter, err
	}
	if limit != nil {
		filter.Limit = *limit
	}
	offset, err := getOptionalIntQuery(r, "offset")
	if err != nil {
		return filter, err
	}
	if offset != nil {
		filter.Offset = *offset
	}
	return filter, nil
}

// ListResults godoc
// @Summary Список результатов
// @Tags results
// @Produce json
// @Param sport_id query int false "Вид спорта"
// @Param gender query string false "men, women или mixed"
// @Param category query string false "team, individual, athletics, swimming"
// @Param date query string false "YYYY-MM-DD"
// @Param overall query bool false "Только итоговые результаты"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/results [get]
func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	filter, err := parseResultFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultService.ListResults(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateResult godoc
// @Summary Изменить результат
// @Description Частичное обновление. Очки пересчитываются, если меняется событие, пол или политика начисления.
// @Tags results
// @Accept json
// @Produce json
// @Param resultID path int true "Result ID"
// @Param input body services.UpdateResultInput true "Изменяемые поля"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/results/{resultID} [put]
func (h *ResultHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.UpdateResult(r.Context(), resultID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
