package handlers

import (
	"net/http"

	"github.com/Dosada05/sportsmeet/services"
)

type SportHandler struct {
	sportService services.SportService
}

func NewSportHandler(ss services.SportService) *SportHandler {
	return &SportHandler{
		sportService: ss,
	}
}

// CreateSport godoc
// @Summary Добавить вид спорта
// @Tags sports
// @Accept json
// @Produce json
// @Param input body services.CreateSportInput true "Вид спорта"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/sports [post]
func (h *SportHandler) CreateSport(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sport, err := h.sportService.CreateSport(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sport": sport}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetSportByID godoc
// @Summary Получить вид спорта
// @Tags sports
// @Produce json
// @Param sportID path int true "Sport ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/sports/{sportID} [get]
func (h *SportHandler) GetSportByID(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sport, err := h.sportService.GetSportByID(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sport": sport}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAllSports godoc
// @Summary Список видов спорта
// @Tags sports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/sports [get]
func (h *SportHandler) GetAllSports(w http.ResponseWriter, r *http.Request) {
	sports, err := h.sportService.GetAllSports(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sports": sports}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateSport godoc
// @Summary Изменить вид спорта
// @Tags sports
// @Accept json
// @Produce json
// @Param sportID path int true "Sport ID"
// @Param input body services.UpdateSportInput true "Вид спорта"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/sports/{sportID} [put]
func (h *SportHandler) UpdateSport(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updatedSport, err := h.sportService.UpdateSport(r.Context(), sportID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sport": updatedSport}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteSport godoc
// @Summary Удалить вид спорта
// @Tags sports
// @Param sportID path int true "Sport ID"
// @Success 204
// @Failure 409 {object} map[string]string "Есть результаты по этому виду"
// @Security BearerAuth
// @Router /api/admin/sports/{sportID} [delete]
func (h *SportHandler) DeleteSport(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	err = h.sportService.DeleteSport(r.Context(), sportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadSportLogo godoc
// @Summary Загрузить логотип вида спорта
// @Tags sports
// @Accept multipart/form-data
// @Produce json
// @Param sportID path int true "Sport ID"
// @Param logo formData file true "Изображение"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /api/admin/sports/{sportID}/logo [post]
func (h *SportHandler) UploadSportLogo(w http.ResponseWriter, r *http.Request) {
	sportID, err := getIDFromURL(r, "sportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, closeFile, err := readFormFile(r, "logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeFile()

	sport, err := h.sportService.UploadSportLogo(r.Context(), sportID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"sport": sport}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
