package service

import (
	"encoding/json"
	"errors"

	"github.com/jinzhu/copier"
	"github.com/sahabat-guru/backend/internal/apperror"
	"github.com/sahabat-guru/backend/internal/dto"
	"github.com/sahabat-guru/backend/internal/model"
	"github.com/sahabat-guru/backend/internal/repository"
	"gorm.io/gorm"
)

// QuestionService owns the teacher's question bank.
type QuestionService interface {
	Create(teacherID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	Get(questionID, teacherID uint) (*dto.QuestionResponse, error)
	List(teacherID uint, filter dto.QuestionFilter) ([]dto.QuestionResponse, int64, error)
	Update(questionID, teacherID uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	Delete(questionID, teacherID uint) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo}
}

func (s *questionService) Create(teacherID uint, req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if req.Type == model.QuestionTypePG {
		if len(req.Options) < 2 {
			return nil, apperror.BadRequestf("a multiple-choice question needs at least two options")
		}
		if req.AnswerKey == "" {
			return nil, apperror.BadRequestf("a multiple-choice question needs an answer key")
		}
	}

	question := model.Question{
		TeacherID:  teacherID,
		Type:       req.Type,
		Prompt:     req.Prompt,
		AnswerKey:  req.AnswerKey,
		Rubric:     req.Rubric,
		Difficulty: req.Difficulty,
		Category:   req.Category,
		IsHOTS:     req.IsHOTS,
	}
	if len(req.Options) > 0 {
		options, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}

	if err := s.questionRepo.Create(&question); err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

func (s *questionService) ownedQuestion(questionID, teacherID uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("question %d not found", questionID)
		}
		return nil, err
	}
	if question.TeacherID != teacherID {
		return nil, apperror.NotFoundf("question %d not found", questionID)
	}
	return question, nil
}

func (s *questionService) Get(questionID, teacherID uint) (*dto.QuestionResponse, error) {
	question, err := s.ownedQuestion(questionID, teacherID)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) List(teacherID uint, filter dto.QuestionFilter) ([]dto.QuestionResponse, int64, error) {
	questions, total, err := s.questionRepo.FindAllByTeacher(teacherID, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.QuestionResponse, len(questions))
	copier.Copy(&resp, &questions)
	return resp, total, nil
}

func (s *questionService) Update(questionID, teacherID uint, req dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.ownedQuestion(questionID, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Prompt != "" {
		question.Prompt = req.Prompt
	}
	if len(req.Options) > 0 {
		options, err := json.Marshal(req.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}
	if req.AnswerKey != "" {
		question.AnswerKey = req.AnswerKey
	}
	if len(req.Rubric) > 0 {
		question.Rubric = req.Rubric
	}
	if req.Difficulty != "" {
		question.Difficulty = req.Difficulty
	}
	if req.Category != "" {
		question.Category = req.Category
	}
	if req.IsHOTS != nil {
		question.IsHOTS = *req.IsHOTS
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) Delete(questionID, teacherID uint) error {
	if _, err := s.ownedQuestion(questionID, teacherID); err != nil {
		return err
	}
	return s.questionRepo.Delete(questionID)
}
