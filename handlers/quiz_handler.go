package handlers

import (
	"encoding/json"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/services"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizRequest struct {
	ModuleID       uint     `json:"module_id" validate:"required"`
	Title          string   `json:"title" validate:"required,max=255"`
	Description    *string  `json:"description"`
	PassingScore   *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=20"`
	TotalQuestions *int     `json:"total_questions" validate:"omitempty,gte=0"`
}

type UpdateQuizRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string  `json:"description"`
	PassingScore   *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=20"`
	TotalQuestions *int     `json:"total_questions" validate:"omitempty,gte=0"`
	IsActive       *bool    `json:"is_active"`
}

func (r UpdateQuizRequest) changes() map[string]interface{} {
	out := make(map[string]interface{})
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.PassingScore != nil {
		out["passing_score"] = *r.PassingScore
	}
	if r.TotalQuestions != nil {
		out["total_questions"] = *r.TotalQuestions
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}

type QuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false text"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
	Points        *float64 `json:"points" validate:"omitempty,gte=0"`
	Order         int      `json:"order" validate:"gte=0"`
}

type UpdateQuestionRequest struct {
	QuestionText  *string   `json:"question_text" validate:"omitempty,min=1"`
	QuestionType  *string   `json:"question_type" validate:"omitempty,oneof=multiple_choice true_false text"`
	CorrectAnswer *string   `json:"correct_answer"`
	Options       *[]string `json:"options"`
	Points        *float64  `json:"points" validate:"omitempty,gte=0"`
	Order         *int      `json:"order" validate:"omitempty,gte=0"`
}

func (r UpdateQuestionRequest) changes() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	if r.QuestionText != nil {
		out["question_text"] = *r.QuestionText
	}
	if r.QuestionType != nil {
		out["question_type"] = *r.QuestionType
	}
	if r.CorrectAnswer != nil {
		out["correct_answer"] = *r.CorrectAnswer
	}
	if r.Options != nil {
		opts, err := encodeOptions(*r.Options)
		if err != nil {
			return nil, err
		}
		out["options"] = opts
	}
	if r.Points != nil {
		out["points"] = *r.Points
	}
	if r.Order != nil {
		out["sort_order"] = *r.Order
	}
	return out, nil
}

type SubmitAttemptRequest struct {
	QuizID  uint            `json:"quiz_id" validate:"required"`
	Answers map[uint]string `json:"answers"`
}

// TakerQuestion is a question as shown to someone answering the quiz.
type TakerQuestion struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Points       float64  `json:"points"`
	Order        int      `json:"order"`
}

func encodeOptions(options []string) (*string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

func decodeOptions(questionID uint, raw *string) []string {
	out := []string{}
	if raw != nil && *raw != "" {
		if err := json.Unmarshal([]byte(*raw), &out); err != nil {
			utils.Log.WithField("question_id", questionID).WithError(err).Warn("stored question options are not valid JSON")
			return []string{}
		}
	}
	return out
}

type quizContext struct {
	quiz   models.Quiz
	module models.Module
	course models.Course
}

func loadQuizContext(quizID uint) (*quizContext, error) {
	var qc quizContext
	if err := database.DB.First(&qc.quiz, quizID).Error; err != nil {
		return nil, notFound(err, "quiz")
	}
	module, course, err := moduleWithCourse(qc.quiz.ModuleID)
	if err != nil {
		return nil, err
	}
	qc.module, qc.course = *module, *course
	return &qc, nil
}

func quizFromParam(c *fiber.Ctx, manage bool) (*quizContext, error) {
	quizID, err := paramID(c, "quizId")
	if err != nil {
		return nil, err
	}
	qc, err := loadQuizContext(quizID)
	if err != nil {
		return nil, err
	}
	id := middleware.CurrentIdentity(c)
	if manage {
		err = services.CheckManageCourse(id, qc.course)
	} else {
		err = checkModuleView(id, qc.module, qc.course)
	}
	if err != nil {
		return nil, err
	}
	return qc, nil
}

func GetModuleQuiz(c *fiber.Ctx) error {
	module, _, err := viewableModule(c)
	if err != nil {
		return respondError(c, err)
	}
	var quiz models.Quiz
	if err := database.DB.Where("module_id = ? AND is_active = ?", module.ID, true).
		Order("id").First(&quiz).Error; err != nil {
		return respondError(c, notFound(err, "quiz"))
	}
	return c.JSON(quiz)
}

func CreateQuiz(c *fiber.Ctx) error {
	var req QuizRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	_, course, err := moduleWithCourse(req.ModuleID)
	if err != nil {
		return respondError(c, err)
	}
	if err := services.CheckManageCourse(middleware.CurrentIdentity(c), *course); err != nil {
		return respondError(c, err)
	}

	quiz := models.Quiz{
		ModuleID:       req.ModuleID,
		Title:          req.Title,
		Description:    req.Description,
		PassingScore:   config.Float("DEFAULT_PASSING_SCORE"),
		TotalQuestions: 20,
		IsActive:       true,
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.TotalQuestions != nil {
		quiz.TotalQuestions = *req.TotalQuestions
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func UpdateQuiz(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, true)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateQuizRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	if changes := req.changes(); len(changes) > 0 {
		if err := database.DB.Model(&qc.quiz).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(&qc.quiz, qc.quiz.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(qc.quiz)
}

func DeleteQuiz(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, true)
	if err != nil {
		return respondError(c, err)
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", qc.quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&qc.quiz).Error
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetQuizQuestions hides correct answers unless the caller manages the course.
func GetQuizQuestions(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, false)
	if err != nil {
		return respondError(c, err)
	}
	questions, err := database.QuizQuestions(database.DB, qc.quiz.ID)
	if err != nil {
		return respondError(c, err)
	}

	if services.CanManageCourse(middleware.CurrentIdentity(c), qc.course) {
		return c.JSON(questions)
	}
	out := make([]TakerQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, TakerQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Options:      decodeOptions(q.ID, q.Options),
			Points:       q.Points,
			Order:        q.Order,
		})
	}
	return c.JSON(out)
}

func AddQuestion(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, true)
	if err != nil {
		return respondError(c, err)
	}
	var req QuestionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	opts, err := encodeOptions(req.Options)
	if err != nil {
		return respondError(c, err)
	}

	question := models.Question{
		QuizID:        qc.quiz.ID,
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		CorrectAnswer: req.CorrectAnswer,
		Options:       opts,
		Points:        1,
		Order:         req.Order,
	}
	if question.QuestionType == "" {
		question.QuestionType = models.QuestionMultipleChoice
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if err := database.DB.Create(&question).Error; err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

func loadQuestion(c *fiber.Ctx, quizID uint) (*models.Question, error) {
	questionID, err := paramID(c, "questionId")
	if err != nil {
		return nil, err
	}
	var q models.Question
	if err := database.DB.Where("quiz_id = ?", quizID).First(&q, questionID).Error; err != nil {
		return nil, notFound(err, "question")
	}
	return &q, nil
}

func UpdateQuestion(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, true)
	if err != nil {
		return respondError(c, err)
	}
	question, err := loadQuestion(c, qc.quiz.ID)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateQuestionRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	changes, err := req.changes()
	if err != nil {
		return respondError(c, err)
	}
	if len(changes) > 0 {
		if err := database.DB.Model(question).Updates(changes).Error; err != nil {
			return respondError(c, err)
		}
	}
	if err := database.DB.First(question, question.ID).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

func DeleteQuestion(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, true)
	if err != nil {
		return respondError(c, err)
	}
	question, err := loadQuestion(c, qc.quiz.ID)
	if err != nil {
		return respondError(c, err)
	}
	if err := database.DB.Delete(question).Error; err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitAttempt grades a submission. Any caller who can see the course may
// answer, any number of times; enrollment is not required.
func SubmitAttempt(c *fiber.Ctx) error {
	var req SubmitAttemptRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	qc, err := loadQuizContext(req.QuizID)
	if err != nil {
		return respondError(c, err)
	}
	id := middleware.CurrentIdentity(c)
	if err := checkModuleView(id, qc.module, qc.course); err != nil {
		return respondError(c, err)
	}

	scorer := services.NewAttemptScorer(database.NewQuizStore(database.DB))
	result, err := scorer.SubmitAttempt(c.UserContext(), qc.quiz.ID, req.Answers, id.UserID)
	if err != nil {
		if services.IsPersistence(err) {
			utils.Log.WithError(err).WithField("quiz_id", qc.quiz.ID).Error("attempt could not be stored")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record attempt"})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func ListMyAttempts(c *fiber.Ctx) error {
	qc, err := quizFromParam(c, false)
	if err != nil {
		return respondError(c, err)
	}
	attempts := []models.Attempt{}
	if err := database.DB.Where("quiz_id = ? AND user_id = ?", qc.quiz.ID, middleware.CurrentIdentity(c).UserID).
		Order("started_at desc").Order("id desc").
		Find(&attempts).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(attempts)
}

// GetAttempt is visible to the attempt's owner and to managers of the course.
func GetAttempt(c *fiber.Ctx) error {
	attemptID, err := paramID(c, "attemptId")
	if err != nil {
		return respondError(c, err)
	}
	var attempt models.Attempt
	err = database.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&attempt, attemptID).Error
	if err != nil {
		return respondError(c, notFound(err, "attempt"))
	}

	id := middleware.CurrentIdentity(c)
	if attempt.UserID != id.UserID {
		qc, err := loadQuizContext(attempt.QuizID)
		if err != nil {
			return respondError(c, err)
		}
		if !services.CanManageCourse(id, qc.course) {
			return respondError(c, services.Forbidden("you cannot view this attempt"))
		}
	}
	return c.JSON(attempt)
}
