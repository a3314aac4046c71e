package handlers

import (
	"net/http"

	"github.com/securefold/server/internal/models"
	"github.com/securefold/server/internal/utils"
)

// POST /api/v1/documents
// CreateDocument godoc
// @Summary Upload an identity document
// @Description Stores a base64-encoded document image for a user
// @Tags Documents
// @Accept json
// @Produce json
// @Success 200 {object} models.Document
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/documents [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID      string `json:"user_id"`
		DocType     string `json:"doc_type"`
		Name        string `json:"name"`
		ImageBase64 string `json:"image_base64"`
	}

	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}
	if input.UserID == "" || input.DocType == "" || input.Name == "" {
		badRequest(w, "Invalid input")
		return
	}
	userID, ok := parseID(input.UserID)
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}
	if !models.IsValidDocType(input.DocType) {
		badRequest(w, "Invalid document type")
		return
	}

	// Documents must belong to an existing user.
	if _, err := h.Users.GetByID(r.Context(), userID); err != nil {
		storeError(w, err, "User not found")
		return
	}

	doc, err := h.Documents.Create(r.Context(), userID, input.DocType, input.Name, input.ImageBase64)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Success: false,
			Message: "Database error",
		})
		return
	}
	utils.JSONObject(w, http.StatusOK, doc)
}

// GET /api/v1/documents/{user_id}
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.PathValue("user_id"))
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	docs, err := h.Documents.ListByUser(r.Context(), userID)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	utils.JSONObject(w, http.StatusOK, docs)
}

// GET /api/v1/documents/{user_id}/{doc_type}
func (h *Handler) ListDocumentsByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseID(r.PathValue("user_id"))
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	docs, err := h.Documents.ListByUserAndType(r.Context(), userID, r.PathValue("doc_type"))
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	utils.JSONObject(w, http.StatusOK, docs)
}

// DELETE /api/v1/documents/{id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		notFound(w, "Document not found")
		return
	}

	if err := h.Documents.Delete(r.Context(), id); err != nil {
		storeError(w, err, "Document not found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Document deleted",
	})
}

// PUT /api/v1/documents/{id}
// Partial update: only fields present in the body are overwritten.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		notFound(w, "Document not found")
		return
	}

	var input struct {
		Name        *string `json:"name"`
		ImageBase64 *string `json:"image_base64"`
	}
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid input")
		return
	}

	if err := h.Documents.Update(r.Context(), id, input.Name, input.ImageBase64); err != nil {
		storeError(w, err, "Document not found")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Document updated",
	})
}
