package handler

import (
	"io"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FileHandler handles upload and file management requests
type FileHandler struct {
	service service.FileService
}

// NewFileHandler creates a new FileHandler instance
func NewFileHandler(service service.FileService) *FileHandler {
	return &FileHandler{service: service}
}

// Upload godoc
// @Summary Upload study material
// @Description Stores a PDF, DOCX or TXT file and starts text extraction in the background
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document (pdf, docx, txt; max 10MB)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 413 {object} middleware.ErrorResponse
// @Router /upload [post]
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("No file uploaded. Send the document in the 'file' form field.")
	}

	f, err := header.Open()
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}

	file, err := h.service.Upload(c.UserContext(), header.Filename, content)
	if err != nil {
		logger.Get().Warn("Upload rejected", zap.String("filename", header.Filename), zap.Error(err))
		return err
	}
	return c.JSON(dto.NewUploadResponse(file))
}

// ListFiles godoc
// @Summary List uploaded files
// @Tags files
// @Produce json
// @Success 200 {array} dto.FileInfo
// @Router /files [get]
func (h *FileHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.service.ListFiles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFileInfoList(files))
}

// GetFile godoc
// @Summary Get file information
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} dto.FileInfo
// @Failure 404 {object} middleware.ErrorResponse
// @Router /files/{id} [get]
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	file, err := h.service.GetFile(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewFileInfo(file))
}

// GetText godoc
// @Summary Get extracted text
// @Description Returns the normalized text of a file, extracting it first if needed
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} dto.ExtractedTextResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /files/{id}/text [get]
func (h *FileHandler) GetText(c *fiber.Ctx) error {
	text, err := h.service.GetText(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewExtractedTextResponse(text))
}

// DeleteFile godoc
// @Summary Delete a file
// @Description Deletes the file, its extracted text and every quiz generated from it
// @Tags files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /files/{id} [delete]
func (h *FileHandler) DeleteFile(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteFile(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "File " + id + " deleted successfully"})
}
