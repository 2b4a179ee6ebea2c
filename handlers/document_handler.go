package handlers

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const documentFolder = "corporate_training_documents"

// documentUploader stores an uploaded file; tests replace it.
var documentUploader = func(ctx context.Context, r io.Reader, publicID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	res, err := cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       documentFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

func allowedExtension(ext string) bool {
	for _, allowed := range config.Strings("ALLOWED_EXTENSIONS") {
		if strings.EqualFold(strings.TrimPrefix(allowed, "."), ext) {
			return true
		}
	}
	return false
}

func UploadDocument(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	if id.CompanyID == nil {
		return respondError(c, services.Invalid("you must belong to a company to upload documents"))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respondError(c, services.Invalid("file is required"))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if ext == "" || !allowedExtension(ext) {
		return respondError(c, services.Invalid(fmt.Sprintf("file type not allowed, allowed: %s", config.Config("ALLOWED_EXTENSIONS"))))
	}
	if limit := int64(config.Int("MAX_UPLOAD_BYTES")); file.Size > limit {
		return respondError(c, services.Invalid(fmt.Sprintf("file too large, maximum %d bytes", limit)))
	}

	src, err := file.Open()
	if err != nil {
		return respondError(c, errors.Wrap(err, "open upload"))
	}
	defer src.Close()

	publicID := fmt.Sprintf("%d_%s", *id.CompanyID, uuid.New().String())
	fileURL, err := documentUploader(c.UserContext(), src, publicID)
	if err != nil {
		utils.Log.WithError(err).WithField("company_id", *id.CompanyID).Error("🔥 document upload failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to store file"})
	}

	title := c.FormValue("title")
	if title == "" {
		title = file.Filename
	}
	doc := models.Document{
		CompanyID:  *id.CompanyID,
		Title:      title,
		FileURL:    fileURL,
		FileType:   ext,
		FileSize:   file.Size,
		UploadedBy: id.UserID,
	}
	if mime := file.Header.Get("Content-Type"); mime != "" {
		doc.MimeType = &mime
	}
	if err := database.DB.Create(&doc).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func ListDocuments(c *fiber.Ctx) error {
	id := middleware.CurrentIdentity(c)
	skip, limit := utils.Pagination(c, 100)

	docs := []models.Document{}
	q := database.DB.Model(&models.Document{})
	if !id.IsSystemAdmin() {
		if id.CompanyID == nil {
			return c.JSON(docs)
		}
		q = q.Where("company_id = ?", *id.CompanyID)
	}
	if err := q.Order("created_at desc").Order("id desc").Offset(skip).Limit(limit).Find(&docs).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(docs)
}

func GetDocument(c *fiber.Ctx) error {
	documentID, err := paramID(c, "documentId")
	if err != nil {
		return respondError(c, err)
	}
	var doc models.Document
	if err := database.DB.First(&doc, documentID).Error; err != nil {
		return respondError(c, notFound(err, "document"))
	}
	if !services.CanAccessCompany(middleware.CurrentIdentity(c), doc.CompanyID) {
		return respondError(c, services.Forbidden("you cannot access this document"))
	}
	return c.JSON(doc)
}

// GenerateUploadSignature signs a direct browser upload into the caller's
// company folder.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	folder := documentFolder
	if id := middleware.CurrentIdentity(c); id.CompanyID != nil {
		folder = fmt.Sprintf("%s/%d", documentFolder, *id.CompanyID)
	}

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare signature params"})
	}
	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   cld.Config.Cloud.APIKey,
		"folder":    folder,
	})
}
