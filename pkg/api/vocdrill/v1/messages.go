// Package vocdrillv1 holds the JSON messages exchanged by the vocdrill.v1 services.
package vocdrillv1

import "time"

type WordPair struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

type WordSet struct {
	Id        string     `json:"id"`
	Name      string     `json:"name"`
	Words     []WordPair `json:"words"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type IDRequest struct {
	Id string `json:"id"`
}

func (x *IDRequest) GetId() string {
	if x == nil {
		return ""
	}
	return x.Id
}

type Empty struct{}

type CreateWordSetRequest struct {
	Name  string     `json:"name"`
	Words []WordPair `json:"words"`
}

// UpdateWordSetRequest replaces the words only when Words is present in the payload.
type UpdateWordSetRequest struct {
	Id    string     `json:"id"`
	Name  string     `json:"name,omitempty"`
	Words []WordPair `json:"words,omitempty"`
}

type PaginationRequest struct {
	PageNo   int32 `json:"pageNo"`
	PageSize int32 `json:"pageSize"`
}

type PaginationResponse struct {
	PageNo   int32 `json:"pageNo"`
	PageSize int32 `json:"pageSize"`
	Total    int64 `json:"total"`
}

type ListWordSetsRequest struct {
	Pagination *PaginationRequest `json:"pagination,omitempty"`
	Filter     string             `json:"filter,omitempty"`
	OrderBy    string             `json:"orderBy,omitempty"`
}

func (x *ListWordSetsRequest) GetPagination() *PaginationRequest {
	if x == nil {
		return nil
	}
	return x.Pagination
}

func (x *ListWordSetsRequest) GetFilter() string {
	if x == nil {
		return ""
	}
	return x.Filter
}

func (x *ListWordSetsRequest) GetOrderBy() string {
	if x == nil {
		return ""
	}
	return x.OrderBy
}

type ListWordSetsResponse struct {
	WordSets   []*WordSet          `json:"wordSets"`
	Pagination *PaginationResponse `json:"pagination"`
}

type StartSessionRequest struct {
	WordSetId string `json:"wordSetId"`
}

type Session struct {
	Id        string `json:"id"`
	WordSetId string `json:"wordSetId"`
	ItemCount int32  `json:"itemCount"`
}

type SessionRequest struct {
	SessionId string `json:"sessionId"`
}

type Choice struct {
	ItemId string `json:"itemId"`
	Text   string `json:"text"`
}

type Round struct {
	Id      string    `json:"id"`
	Index   int32     `json:"index"`
	Prompt  string    `json:"prompt"`
	Choices []*Choice `json:"choices"`
}

type AnswerRequest struct {
	SessionId string `json:"sessionId"`
	RoundId   string `json:"roundId"`
	ChosenId  string `json:"chosenId"`
}

type SkipRequest struct {
	SessionId string `json:"sessionId"`
	RoundId   string `json:"roundId"`
}

type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectItemId string `json:"correctItemId"`
	CorrectAnswer string `json:"correctAnswer"`
	CanEnd        bool   `json:"canEnd"`
}

type ItemStats struct {
	Id              string  `json:"id"`
	Prompt          string  `json:"prompt"`
	Answer          string  `json:"answer"`
	Shown           int32   `json:"shown"`
	Correct         int32   `json:"correct"`
	Wrong           int32   `json:"wrong"`
	Accuracy        float64 `json:"accuracy"`
	CorrectStreak   int32   `json:"correctStreak"`
	WrongStreak     int32   `json:"wrongStreak"`
	Need            float64 `json:"need"`
	AnswerScore     float64 `json:"answerScore"`
	DistractorScore float64 `json:"distractorScore"`
}

type Report struct {
	Items           []*ItemStats `json:"items"`
	Rounds          int32        `json:"rounds"`
	AverageAccuracy float64      `json:"averageAccuracy"`
	AverageNeed     float64      `json:"averageNeed"`
	CanEnd          bool         `json:"canEnd"`
}
