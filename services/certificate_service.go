package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/templates"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const certificateTemplate = "certificate.html"

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

// FileUploader stores a file and returns its public URL.
type FileUploader func(ctx context.Context, data []byte, publicID string) (string, error)

type CertificateIssuer struct {
	db     *gorm.DB
	render PDFRenderer
	upload FileUploader
	now    func() time.Time
}

func NewCertificateIssuer(db *gorm.DB) *CertificateIssuer {
	return NewCertificateIssuerWith(db, RenderPDF, UploadCertificate)
}

func NewCertificateIssuerWith(db *gorm.DB, render PDFRenderer, upload FileUploader) *CertificateIssuer {
	return &CertificateIssuer{db: db, render: render, upload: upload, now: time.Now}
}

// CheckCertificateEligibility requires an enrollment and a passed attempt
// for every active quiz of the course.
func CheckCertificateEligibility(db *gorm.DB, userID, courseID uint) error {
	var enrolled int64
	if err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled).Error; err != nil {
		return persistence("check enrollment", err)
	}
	if enrolled == 0 {
		return Forbidden("you are not enrolled in this course")
	}

	quizIDs, err := activeQuizIDs(db, courseID)
	if err != nil {
		return persistence("load course quizzes", err)
	}
	passed, err := passedQuizIDs(db, userID, quizIDs)
	if err != nil {
		return persistence("load passed attempts", err)
	}
	if missing := len(quizIDs) - len(passed); missing > 0 {
		return Invalid(fmt.Sprintf("%d quiz(zes) still to pass", missing))
	}
	return nil
}

// Issue returns the user's certificate for the course, creating it when the
// user is eligible. The bool reports whether a new certificate was made.
func (ci *CertificateIssuer) Issue(ctx context.Context, user models.User, course models.Course) (*models.Certificate, bool, error) {
	var existing models.Certificate
	err := ci.db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, persistence("load certificate", err)
	}

	if err := CheckCertificateEligibility(ci.db, user.ID, course.ID); err != nil {
		return nil, false, err
	}

	issued := ci.now().UTC()
	html, err := certificateHTML(holderName(user), course.Title, issued)
	if err != nil {
		return nil, false, errors.Wrap(err, "render certificate html")
	}
	pdf, err := ci.render(ctx, html)
	if err != nil {
		return nil, false, errors.Wrap(err, "render certificate pdf")
	}
	publicID := fmt.Sprintf("certificates/%d_%d_%s", user.ID, course.ID, uuid.New().String())
	url, err := ci.upload(ctx, pdf, publicID)
	if err != nil {
		return nil, false, errors.Wrap(err, "upload certificate")
	}

	cert := models.Certificate{
		UserID:         user.ID,
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		CertificateURL: url,
		IssuedAt:       issued,
	}
	err = ci.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}
		return tx.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ?", user.ID, course.ID).
			Updates(map[string]interface{}{"progress": 100.0, "completed_at": issued}).Error
	})
	if err != nil {
		return nil, false, persistence("store certificate", err)
	}

	utils.Log.WithFields(logrus.Fields{"user_id": user.ID, "course_id": course.ID, "certificate_id": cert.ID}).
		Info("✅ certificate issued")
	return &cert, true, nil
}

func holderName(u models.User) string {
	if u.Profile != nil {
		if name := strings.TrimSpace(u.Profile.FirstName + " " + u.Profile.LastName); name != "" {
			return name
		}
	}
	return u.Email
}

func certificateHTML(holder, courseTitle string, issued time.Time) (string, error) {
	tmpl, err := template.ParseFS(templates.FS, certificateTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		HolderName     string
		CourseTitle    string
		CompanyName    string
		CompletionDate string
	}{
		HolderName:     holder,
		CourseTitle:    courseTitle,
		CompanyName:    config.Config("APP_NAME"),
		CompletionDate: issued.Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// RenderPDF prints HTML to PDF in a headless Chrome.
func RenderPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// UploadCertificate stores a PDF as a raw Cloudinary asset.
func UploadCertificate(ctx context.Context, fileBytes []byte, publicID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "corporate_training_certificates",
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
