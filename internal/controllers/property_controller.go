package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hauswerk/property-service/internal/constants"
	"github.com/hauswerk/property-service/internal/dtos"
	"github.com/hauswerk/property-service/internal/services"
	"github.com/hauswerk/property-service/internal/utils"
	"github.com/hauswerk/property-service/internal/validation"
)

type PropertyController struct {
	propertyService   *services.PropertyService
	fileService       *services.FileService
	extractionService *services.ExtractionService
}

func NewPropertyController(
	ps *services.PropertyService,
	fs *services.FileService,
	es *services.ExtractionService,
) *PropertyController {
	return &PropertyController{
		propertyService:   ps,
		fileService:       fs,
		extractionService: es,
	}
}

var propertyValidate = validator.New()

// respondDomainError maps service-layer failures onto the error
// envelope: validation failures carry the ordered field labels, a
// missing property answers 404, anything else is a storage failure.
func respondDomainError(w http.ResponseWriter, err error, publicMessage string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", vErr.Fields, err)
	case errors.Is(err, utils.ErrPropertyNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil, err)
	default:
		utils.Logger.WithError(err).Error(publicMessage)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}

// ----------------------------------------------------------------
// POST /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}

	created, err := c.propertyService.Create(r.Context(), req)
	if err != nil {
		respondDomainError(w, err, "Could not create property")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

// ----------------------------------------------------------------
// GET /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.propertyService.List(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to retrieve properties", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err)
		return
	}

	prop, err := c.propertyService.Get(r.Context(), id)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to retrieve property", nil, err)
		return
	}
	if prop == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil, nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}

// ----------------------------------------------------------------
// PUT /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err)
		return
	}

	var payload dtos.PropertyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}

	updated, err := c.propertyService.Update(r.Context(), id, payload)
	if err != nil {
		respondDomainError(w, err, "Could not update property")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// ----------------------------------------------------------------
// DELETE /api/v1/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property id", nil, err)
		return
	}

	if err := c.propertyService.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err, "Could not delete property")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------
// POST /api/v1/properties/upload
// ----------------------------------------------------------------
func (c *PropertyController) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSizeBytes); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to parse form", nil, err)
		return
	}
	form := r.MultipartForm

	if fileHeaders := form.File["file"]; len(fileHeaders) == 0 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "No file provided", nil, nil)
		return
	}
	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to open file", nil, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read file", nil, err)
		return
	}

	name, err := c.fileService.Save(header.Filename, data)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeStorageFailure, "Could not store file", nil, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.UploadFileResponse{
		Message:  "File uploaded successfully",
		Filename: name,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/properties/extract
// ----------------------------------------------------------------
func (c *PropertyController) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := propertyValidate.StructCtx(r.Context(), req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Validation failed", validationErrors.Error(), nil)
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request data", nil, err)
		}
		return
	}

	data, err := c.extractionService.Extract(r.Context(), req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrFileNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "File not found", nil, err)
		case errors.Is(err, utils.ErrExtractionFailed):
			utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeExtractionFailure, "Could not extract data from document", nil, err)
		default:
			utils.Logger.WithError(err).Error("Extraction error")
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Extraction failed", nil, err)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.ExtractResponse{
		Message: "Data extracted successfully",
		Data:    *data,
	})
}
