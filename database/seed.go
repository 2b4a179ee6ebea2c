package database

import (
	"encoding/json"
	"io"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type CourseFile struct {
	Company struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"company"`
	Course struct {
		Title           string `yaml:"title"`
		Description     string `yaml:"description"`
		InstructorEmail string `yaml:"instructor_email"`
	} `yaml:"course"`
	Modules []ModuleFile `yaml:"modules"`
}

type ModuleFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
	Contents    []struct {
		Type    string `yaml:"type"`
		Content string `yaml:"content"`
		Order   int    `yaml:"order"`
	} `yaml:"contents"`
	Quiz *QuizFile `yaml:"quiz"`
}

type QuizFile struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	PassingScore *float64 `yaml:"passing_score"`
	Questions    []struct {
		Text          string   `yaml:"text"`
		Type          string   `yaml:"type"`
		CorrectAnswer string   `yaml:"correct_answer"`
		Options       []string `yaml:"options"`
		Points        *float64 `yaml:"points"`
		Order         int      `yaml:"order"`
	} `yaml:"questions"`
}

func ParseCourseFile(r io.Reader) (*CourseFile, error) {
	var cf CourseFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return nil, errors.Wrap(err, "decode course file")
	}
	if cf.Company.Name == "" || cf.Course.Title == "" || cf.Course.InstructorEmail == "" {
		return nil, errors.New("company.name, course.title and course.instructor_email are required")
	}
	return &cf, nil
}

// ImportCourse writes the whole tree in one transaction. The company is
// reused when one with the same name exists; the instructor must exist.
func ImportCourse(db *gorm.DB, cf *CourseFile) (*models.Course, error) {
	var course models.Course
	err := db.Transaction(func(tx *gorm.DB) error {
		var instructor models.User
		if err := tx.Where("email = ?", cf.Course.InstructorEmail).First(&instructor).Error; err != nil {
			return errors.Wrapf(err, "instructor %s", cf.Course.InstructorEmail)
		}

		company := models.Company{Name: cf.Company.Name, IsActive: true}
		if cf.Company.Description != "" {
			company.Description = &cf.Company.Description
		}
		if err := tx.Where(models.Company{Name: cf.Company.Name}).FirstOrCreate(&company).Error; err != nil {
			return errors.Wrap(err, "company")
		}

		course = models.Course{
			CompanyID:    company.ID,
			Title:        cf.Course.Title,
			InstructorID: instructor.ID,
			IsActive:     true,
		}
		if cf.Course.Description != "" {
			course.Description = &cf.Course.Description
		}
		if err := tx.Create(&course).Error; err != nil {
			return errors.Wrap(err, "course")
		}

		for _, mf := range cf.Modules {
			if err := importModule(tx, course.ID, mf); err != nil {
				return errors.Wrapf(err, "module %q", mf.Title)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func importModule(tx *gorm.DB, courseID uint, mf ModuleFile) error {
	module := models.Module{CourseID: courseID, Title: mf.Title, Order: mf.Order, IsActive: true}
	if mf.Description != "" {
		module.Description = &mf.Description
	}
	if err := tx.Create(&module).Error; err != nil {
		return err
	}

	for _, c := range mf.Contents {
		content := c.Content
		row := models.ModuleContent{ModuleID: module.ID, ContentType: c.Type, Content: &content, Order: c.Order}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	if mf.Quiz == nil {
		return nil
	}
	quiz := models.Quiz{
		ModuleID:       module.ID,
		Title:          mf.Quiz.Title,
		PassingScore:   config.Float("DEFAULT_PASSING_SCORE"),
		TotalQuestions: len(mf.Quiz.Questions),
		IsActive:       true,
	}
	if mf.Quiz.PassingScore != nil {
		quiz.PassingScore = *mf.Quiz.PassingScore
	}
	if mf.Quiz.Description != "" {
		quiz.Description = &mf.Quiz.Description
	}
	if err := tx.Create(&quiz).Error; err != nil {
		return err
	}

	for _, qf := range mf.Quiz.Questions {
		q := models.Question{
			QuizID:        quiz.ID,
			QuestionText:  qf.Text,
			QuestionType:  qf.Type,
			CorrectAnswer: qf.CorrectAnswer,
			Points:        1,
			Order:         qf.Order,
		}
		if q.QuestionType == "" {
			q.QuestionType = models.QuestionMultipleChoice
		}
		if qf.Points != nil {
			q.Points = *qf.Points
		}
		if len(qf.Options) > 0 {
			raw, err := json.Marshal(qf.Options)
			if err != nil {
				return err
			}
			opts := string(raw)
			q.Options = &opts
		}
		if err := tx.Create(&q).Error; err != nil {
			return err
		}
	}
	return nil
}
