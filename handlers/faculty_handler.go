package handlers

import (
	"net/http"

	"github.com/Dosada05/sportsmeet/services"
)

type FacultyHandler struct {
	facultyService services.FacultyService
}

func NewFacultyHandler(fs services.FacultyService) *FacultyHandler {
	return &FacultyHandler{
		facultyService: fs,
	}
}

// CreateFaculty godoc
// @Summary Добавить факультет
// @Tags faculties
// @Accept json
// @Produce json
// @Param input body services.FacultyInput true "Факультет"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Имя уже занято"
// @Security BearerAuth
// @Router /api/admin/faculties [post]
func (h *FacultyHandler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var input services.FacultyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	faculty, err := h.facultyService.CreateFaculty(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"faculty": faculty}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFacultyByID godoc
// @Summary Получить факультет
// @Tags faculties
// @Produce json
// @Param facultyID path int true "Faculty ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/faculties/{facultyID} [get]
func (h *FacultyHandler) GetFacultyByID(w http.ResponseWriter, r *http.Request) {
	facultyID, err := getIDFromURL(r, "facultyID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	faculty, err := h.facultyService.GetFacultyByID(r.Context(), facultyID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"faculty": faculty}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAllFaculties godoc
// @Summary Список факультетов
// @Tags faculties
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/faculties [get]
func (h *FacultyHandler) GetAllFaculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.facultyService.GetAllFaculties(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"faculties": faculties}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateFaculty godoc
// @Summary Изменить факультет
// @Tags faculties
// @Accept json
// @Produce json
// @Param facultyID path int true "Faculty ID"
// @Param input body services.FacultyInput true "Факультет"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/admin/faculties/{facultyID} [put]
func (h *FacultyHandler) UpdateFaculty(w http.ResponseWriter, r *http.Request) {
	facultyID, err := getIDFromURL(r, "facultyID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FacultyInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	faculty, err := h.facultyService.UpdateFaculty(r.Context(), facultyID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"faculty": faculty}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteFaculty godoc
// @Summary Удалить факультет
// @Tags faculties
// @Param facultyID path int true "Faculty ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Факультет указан в результатах"
// @Security BearerAuth
// @Router /api/admin/faculties/{facultyID} [delete]
func (h *FacultyHandler) DeleteFaculty(w http.ResponseWriter, r *http.Request) {
	facultyID, err := getIDFromURL(r, "facultyID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.facultyService.DeleteFaculty(r.Context(), facultyID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadFacultyLogo godoc
// @Summary Загрузить логотип факультета
// @Tags faculties
// @Accept multipart/form-data
// @Produce json
// @Param facultyID path int true "Faculty ID"
// @Param logo formData file true "Изображение"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /api/admin/faculties/{facultyID}/logo [post]
func (h *FacultyHandler) UploadFacultyLogo(w http.ResponseWriter, r *http.Request) {
	facultyID, err := getIDFromURL(r, "facultyID")
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

	faculty, err := h.facultyService.UploadFacultyLogo(r.Context(), facultyID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"faculty": faculty}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
