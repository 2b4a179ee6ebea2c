package services

import (
	"encoding/json"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/anjiri1684/corporate_training/utils"
	"gorm.io/gorm"
)

type RAGSource struct {
	DocumentID uint    `json:"document_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
}

type RAGResponse struct {
	Response   string      `json:"response"`
	Sources    []RAGSource `json:"sources"`
	ModelUsed  string      `json:"model_used"`
	TokensUsed *int        `json:"tokens_used"`
}

// AnswerQuery answers from the company's documents. Retrieval is not wired
// yet, so the answer echoes the query with no sources. Every query is logged.
func AnswerQuery(db *gorm.DB, id Identity, query string, companyID *uint) (RAGResponse, error) {
	if companyID == nil {
		companyID = id.CompanyID
	} else if !CanAccessCompany(id, *companyID) {
		return RAGResponse{}, Forbidden("you cannot query this company's documents")
	}

	res := RAGResponse{
		Response:  "Answer to: " + query,
		Sources:   []RAGSource{},
		ModelUsed: config.Config("RAG_MODEL"),
	}

	sources, err := json.Marshal(res.Sources)
	if err != nil {
		return RAGResponse{}, err
	}
	model := res.ModelUsed
	entry := models.ChatLog{
		UserID:    id.UserID,
		CompanyID: companyID,
		Query:     query,
		Response:  res.Response,
		Sources:   string(sources),
		ModelUsed: &model,
	}
	if err := db.Create(&entry).Error; err != nil {
		return RAGResponse{}, persistence("log rag query", err)
	}
	return res, nil
}

type RAGHistoryEntry struct {
	models.ChatLog
	Sources []RAGSource `json:"sources"`
}

// RAGHistory lists the caller's past queries, newest first.
func RAGHistory(db *gorm.DB, userID uint, skip, limit int) ([]RAGHistoryEntry, error) {
	var logs []models.ChatLog
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Offset(skip).Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, persistence("list rag history", err)
	}

	out := make([]RAGHistoryEntry, 0, len(logs))
	for _, l := range logs {
		e := RAGHistoryEntry{ChatLog: l, Sources: []RAGSource{}}
		if l.Sources != "" {
			if err := json.Unmarshal([]byte(l.Sources), &e.Sources); err != nil {
				utils.Log.WithField("chat_log_id", l.ID).WithError(err).Warn("stored rag sources are not valid JSON")
				e.Sources = []RAGSource{}
			}
		}
		out = append(out, e)
	}
	return out, nil
}
