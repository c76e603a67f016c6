package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/sportsmeet/models"
	"github.com/Dosada05/sportsmeet/services"
)

type PointsHandler struct {
	pointsService services.PointsService
}

func NewPointsHandler(ps services.PointsService) *PointsHandler {
	return &PointsHandler{
		pointsService: ps,
	}
}

// readOptionalPolicy returns nil for an empty body, including a chunked one
// without data.
func readOptionalPolicy(w http.ResponseWriter, r *http.Request) (*models.PointsPolicy, error) {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil, nil
	}
	var policy models.PointsPolicy
	if err := readJSON(w, r, &policy); err != nil {
		if errors.Is(err, errEmptyBody) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (h *PointsHandler) writeAllocation(w http.ResponseWriter, r *http.Request, alloc *models.PointsAllocation) {
	response := jsonResponse{
		"applied":    !alloc.Empty(),
		"allocation": alloc,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApplyPoints godoc
// @Summary Начислить очки за результат
// @Description Тело необязательно: без него используется сохраненная политика результата.
// @Tags points
// @Accept json
// @Produce json
// @Param resultID path int true "Result ID"
// @Param policy body models.PointsPolicy false "Политика начисления"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/results/{resultID}/points/apply [post]
func (h *PointsHandler) ApplyPoints(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	policy, err := readOptionalPolicy(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	alloc, err := h.pointsService.ApplyPointsForResult(r.Context(), resultID, policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeAllocation(w, r, alloc)
}

// RemovePoints godoc
// @Summary Снять очки за результат
// @Tags points
// @Accept json
// @Produce json
// @Param resultID path int true "Result ID"
// @Param policy body models.PointsPolicy false "Политика начисления"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/admin/results/{resultID}/points/remove [post]
func (h *PointsHandler) RemovePoints(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	policy, err := readOptionalPolicy(w, r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	alloc, err := h.pointsService.RemovePointsForResult(r.Context(), resultID, policy)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeAllocation(w, r, alloc)
}

// ReplacePlacements godoc
// @Summary Заменить места и пересчитать очки
// @Tags points
// @Accept json
// @Produce json
// @Param resultID path int true "Result ID"
// @Param input body services.ReplacePlacementsInput true "Новые места"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/results/{resultID}/placements [put]
func (h *PointsHandler) ReplacePlacements(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReplacePlacementsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.pointsService.ReplacePlacementsAndReapply(r.Context(), resultID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteResult godoc
// @Summary Удалить результат
// @Description Очки снимаются перед удалением. Если снять не удалось, результат все равно удаляется, а ответ содержит points_reversed=false.
// @Tags results
// @Produce json
// @Param resultID path int true "Result ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/results/{resultID} [delete]
func (h *PointsHandler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	resultID, err := getIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.pointsService.DeleteResult(r.Context(), resultID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Recalculate godoc
// @Summary Пересчитать все очки
// @Tags points
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/admin/points/recalculate [post]
func (h *PointsHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.pointsService.RecalculateAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
