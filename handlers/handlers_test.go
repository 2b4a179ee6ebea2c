package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	config.Conf.Set("JWT_SECRET", "handlers-test-secret")
	db, err := database.OpenMemory()
	require.NoError(t, err)
	database.DB = db

	app := fiber.New()
	courses := app.Group("/courses", middleware.Protected())
	courses.Get("/my-certificates", ListMyCertificates)
	courses.Post("/:courseId/certificate", IssueCertificate)

	documents := app.Group("/documents", middleware.Protected())
	documents.Post("/upload", UploadDocument)
	documents.Get("/:documentId", GetDocument)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role, companyID *uint) (models.User, string) {
	t.Helper()
	u := models.User{Email: email, HashedPassword: "x", Role: role, CompanyID: companyID, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	pair, err := services.IssueTokens(u)
	require.NoError(t, err)
	return u, pair.AccessToken
}

func send(t *testing.T, app *fiber.App, req *http.Request, token string) (int, []byte) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "course not found", publicMessage(services.NotFound("course")))
	assert.Equal(t, "already enrolled in this course", publicMessage(services.Invalid("already enrolled in this course")))
	assert.Equal(t, "forbidden", publicMessage(services.ErrForbidden))
	assert.Equal(t, "not found", publicMessage(gorm.ErrRecordNotFound))
}

func TestRespondErrorStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{services.NotFound("quiz"), fiber.StatusNotFound, "quiz not found"},
		{services.Forbidden("nope"), fiber.StatusForbidden, "nope"},
		{errors.Wrap(services.ErrConflict, "taken"), fiber.StatusConflict, "taken"},
		{services.Invalid("bad"), fiber.StatusBadRequest, "bad"},
		{errors.Wrap(services.ErrUnauthorized, "expired"), fiber.StatusUnauthorized, "expired"},
		{errors.New("db is down"), fiber.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return respondError(c, err) })

		resp, rerr := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, rerr)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.body, body["error"])
	}
}

func TestDecodeOptions(t *testing.T) {
	hooks := utils.Log.ReplaceHooks(make(logrus.LevelHooks))
	t.Cleanup(func() { utils.Log.ReplaceHooks(hooks) })
	hook := logtest.NewLocal(utils.Log)

	valid := `["Red","Blue"]`
	assert.Equal(t, []string{"Red", "Blue"}, decodeOptions(1, &valid))
	assert.Equal(t, []string{}, decodeOptions(2, nil))
	assert.Empty(t, hook.AllEntries())

	corrupt := `["Red",`
	assert.Equal(t, []string{}, decodeOptions(3, &corrupt))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, uint(3), hook.LastEntry().Data["question_id"])
}

func TestIssueCertificate(t *testing.T) {
	app, db := setup(t)

	company := models.Company{Name: "Acme", IsActive: true}
	require.NoError(t, db.Create(&company).Error)
	author, _ := createUser(t, db, "i@acme.test", models.RoleInstructor, &company.ID)
	learner, token := createUser(t, db, "s@acme.test", models.RoleStudent, &company.ID)
	require.NoError(t, db.Create(&models.Profile{UserID: learner.ID, FirstName: "Jane", LastName: "Doe"}).Error)

	course := models.Course{CompanyID: company.ID, Title: "Fire Safety", InstructorID: author.ID, IsActive: true}
	require.NoError(t, db.Create(&course).Error)
	module := models.Module{CourseID: course.ID, Title: "Exits", IsActive: true}
	require.NoError(t, db.Create(&module).Error)
	quiz := models.Quiz{ModuleID: module.ID, Title: "Exits quiz", PassingScore: 18, IsActive: true}
	require.NoError(t, db.Create(&quiz).Error)

	original := courseCertificates
	t.Cleanup(func() { courseCertificates = original })

	renders := 0
	courseCertificates = func() *services.CertificateIssuer {
		return services.NewCertificateIssuerWith(database.DB,
			func(_ context.Context, html string) ([]byte, error) {
				renders++
				return []byte("%PDF-1.4"), nil
			},
			func(_ context.Context, _ []byte, publicID string) (string, error) {
				return "https://files.test/" + publicID + ".pdf", nil
			})
	}

	path := fmt.Sprintf("/courses/%d/certificate", course.ID)

	status, _ := send(t, app, httptest.NewRequest("POST", path, nil), token)
	assert.Equal(t, fiber.StatusForbidden, status)

	require.NoError(t, db.Create(&models.Enrollment{UserID: learner.ID, CourseID: course.ID}).Error)
	status, data := send(t, app, httptest.NewRequest("POST", path, nil), token)
	assert.Equal(t, fiber.StatusBadRequest, status, string(data))

	done := time.Now()
	require.NoError(t, db.Create(&models.Attempt{UserID: learner.ID, QuizID: quiz.ID, Score: 20, IsPassed: true, StartedAt: done, CompletedAt: &done}).Error)

	status, data = send(t, app, httptest.NewRequest("POST", path, nil), token)
	require.Equal(t, fiber.StatusCreated, status, string(data))
	var cert models.Certificate
	require.NoError(t, json.Unmarshal(data, &cert))
	assert.Equal(t, "Fire Safety", cert.CourseTitle)
	assert.Contains(t, cert.CertificateURL, "https://files.test/")

	status, _ = send(t, app, httptest.NewRequest("POST", path, nil), token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, renders)

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", learner.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.NotNil(t, enrollment.CompletedAt)

	assert.Eventually(t, func() bool {
		var n int64
		db.Model(&models.Notification{}).Where("user_id = ?", learner.ID).Count(&n)
		return n == 1
	}, 2*time.Second, 20*time.Millisecond)

	status, data = send(t, app, httptest.NewRequest("GET", "/courses/my-certificates", nil), token)
	require.Equal(t, fiber.StatusOK, status)
	var certs []models.Certificate
	require.NoError(t, json.Unmarshal(data, &certs))
	assert.Len(t, certs, 1)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("title", "Evacuation plan"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/documents/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	app, db := setup(t)

	acme := models.Company{Name: "Acme", IsActive: true}
	require.NoError(t, db.Create(&acme).Error)
	globex := models.Company{Name: "Globex", IsActive: true}
	require.NoError(t, db.Create(&globex).Error)
	_, token := createUser(t, db, "i@acme.test", models.RoleInstructor, &acme.ID)
	_, outsider := createUser(t, db, "i@globex.test", models.RoleInstructor, &globex.ID)
	_, loner := createUser(t, db, "l@nowhere.test", models.RoleStudent, nil)

	original := documentUploader
	t.Cleanup(func() { documentUploader = original })

	var uploaded []string
	documentUploader = func(_ context.Context, r io.Reader, publicID string) (string, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		uploaded = append(uploaded, string(data))
		return "https://files.test/" + publicID, nil
	}

	status, _ := send(t, app, uploadRequest(t, "plan.pdf", []byte("pdf")), loner)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = send(t, app, uploadRequest(t, "setup.exe", []byte("MZ")), token)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Empty(t, uploaded)

	status, data := send(t, app, uploadRequest(t, "Plan.PDF", []byte("%PDF-1.4 plan")), token)
	require.Equal(t, fiber.StatusCreated, status, string(data))
	var doc models.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, acme.ID, doc.CompanyID)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, "Evacuation plan", doc.Title)
	assert.EqualValues(t, len("%PDF-1.4 plan"), doc.FileSize)
	assert.Equal(t, []string{"%PDF-1.4 plan"}, uploaded)

	path := fmt.Sprintf("/documents/%d", doc.ID)
	status, _ = send(t, app, httptest.NewRequest("GET", path, nil), token)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = send(t, app, httptest.NewRequest("GET", path, nil), outsider)
	assert.Equal(t, fiber.StatusForbidden, status)

	documentUploader = func(context.Context, io.Reader, string) (string, error) {
		return "", errors.New("cloud unavailable")
	}
	status, _ = send(t, app, uploadRequest(t, "notes.txt", []byte("hello")), token)
	assert.Equal(t, fiber.StatusBadGateway, status)
}
