package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anjiri1684/corporate_training/models"
)

type fakeOutput struct {
	renders int
	uploads []string
	html    string
}

func testIssuer(db *gorm.DB, out *fakeOutput) *CertificateIssuer {
	return &CertificateIssuer{
		db: db,
		render: func(_ context.Context, html string) ([]byte, error) {
			out.renders++
			out.html = html
			return []byte("%PDF-1.4"), nil
		},
		upload: func(_ context.Context, data []byte, publicID string) (string, error) {
			out.uploads = append(out.uploads, publicID)
			return "https://files.test/" + publicID + ".pdf", nil
		},
		now: func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func TestCertificateEligibility(t *testing.T) {
	db := openDB(t)
	f := newFixture(t, db, 2)

	err := CheckCertificateEligibility(db, f.student.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Enroll(db, f.student.ID, f.course)
	require.NoError(t, err)

	recordAttempt(t, db, f.student.ID, f.quizzes[0].ID, true)
	recordAttempt(t, db, f.student.ID, f.quizzes[1].ID, false)
	err = CheckCertificateEligibility(db, f.student.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	recordAttempt(t, db, f.student.ID, f.quizzes[1].ID, true)
	assert.NoError(t, CheckCertificateEligibility(db, f.student.ID, f.course.ID))
}

func TestCertificateIssue(t *testing.T) {
	db := openDB(t)
	f := newFixture(t, db, 1)
	_, err := Enroll(db, f.student.ID, f.course)
	require.NoError(t, err)
	recordAttempt(t, db, f.student.ID, f.quizzes[0].ID, true)

	f.student.Profile = &models.Profile{FirstName: "Jane", LastName: "Doe"}
	out := &fakeOutput{}
	issuer := testIssuer(db, out)

	cert, created, err := issuer.Issue(context.Background(), f.student, f.course)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Safety", cert.CourseTitle)
	assert.Contains(t, cert.CertificateURL, "https://files.test/certificates/")
	assert.Contains(t, out.html, "Jane Doe")
	assert.Contains(t, out.html, "March 1, 2026")

	var enrollment models.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", f.student.ID, f.course.ID).First(&enrollment).Error)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.NotNil(t, enrollment.CompletedAt)

	again, created, err := issuer.Issue(context.Background(), f.student, f.course)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.ID, again.ID)
	assert.Equal(t, 1, out.renders)
	assert.Len(t, out.uploads, 1)
}

func TestCertificateIssueUploadFailureStoresNothing(t *testing.T) {
	db := openDB(t)
	f := newFixture(t, db, 0)
	_, err := Enroll(db, f.student.ID, f.course)
	require.NoError(t, err)

	issuer := testIssuer(db, &fakeOutput{})
	issuer.upload = func(context.Context, []byte, string) (string, error) {
		return "", errors.New("cloud down")
	}

	_, _, err = issuer.Issue(context.Background(), f.student, f.course)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&n).Error)
	assert.Zero(t, n)
}
