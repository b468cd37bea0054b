package service

import (
	"context"
	"errors"

	"github.com/edu-planet/edu-service/internal/domain"
	"github.com/edu-planet/edu-service/internal/metrics"
	"github.com/edu-planet/edu-service/internal/postgres"
)

var ErrNoQuestions = errors.New("test has no questions")

// Submission — ответы студента на весь тест.
type Submission struct {
	TestID    int64
	StudentID domain.UserID
	Answers   []QuestionSubmission
}

type QuestionSubmission struct {
	QuestionID int64
	OptionIDs  []int64      // single: ровно один, multiple: несколько
	Pairs      []PairChoice // matching
}

// PairChoice — выбранная правая часть для пары PairID.
type PairChoice struct {
	PairID int64
	Chosen string
}

type ScoringService struct {
	tests *postgres.TestRepository

	// scoreOnFirstRowOnly: у multiple-вопроса балл записывается только в
	// первую сохранённую строку, остальные — по нулям. Так ведёт себя
	// действующая схема; выключать без решения владельцев продукта нельзя.
	scoreOnFirstRowOnly bool
}

func NewScoringService(tests *postgres.TestRepository) *ScoringService {
	return &ScoringService{
		tests:               tests,
		scoreOnFirstRowOnly: true,
	}
}

// SubmitTest прогоняет автоматическую проверку и пишет все строки ответов
// плюс итоговый балл одной транзакцией.
func (s *ScoringService) SubmitTest(ctx context.Context, sub Submission) (*domain.TestResult, error) {
	if _, err := s.tests.Get(ctx, sub.TestID); err != nil {
		return nil, err
	}
	questions, err := s.tests.ListQuestions(ctx, sub.TestID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	rows, total := s.Score(questions, sub)

	result := &domain.TestResult{
		TestID:    sub.TestID,
		StudentID: sub.StudentID,
		Score:     total,
	}
	if err := s.tests.SaveResult(ctx, rows, result); err != nil {
		return nil, err
	}

	metrics.ScoringRuns.Inc()
	return result, nil
}

// Score считает баллы по всем вопросам. Каждый присланный ответ попадает в
// строки результата независимо от правильности; итог — сумма вкладов всех
// вопросов, усечённая до целого.
func (s *ScoringService) Score(questions []domain.Question, sub Submission) ([]domain.SubmittedAnswer, int64) {
	byID := make(map[int64]*domain.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var rows []domain.SubmittedAnswer
	var total float64

	for _, qs := range sub.Answers {
		q, ok := byID[qs.QuestionID]
		if !ok {
			continue
		}

		switch q.Kind {
		case domain.QuestionSingle:
			r, score := scoreSingle(q, qs, sub.StudentID)
			rows = append(rows, r...)
			total += score
		case domain.QuestionMultiple:
			r, score := s.scoreMultiple(q, qs, sub.StudentID)
			rows = append(rows, r...)
			total += score
		case domain.QuestionMatching:
			r, score := scoreMatching(q, qs, sub.StudentID)
			rows = append(rows, r...)
			total += score
		}
	}

	return rows, int64(total)
}

// scoreSingle: полный вес вопроса, если выбран единственный правильный
// вариант, иначе ноль.
func scoreSingle(q *domain.Question, qs QuestionSubmission, student domain.UserID) ([]domain.SubmittedAnswer, float64) {
	if len(qs.OptionIDs) == 0 {
		return nil, 0
	}

	var correctID int64
	for _, o := range q.Options {
		if o.Correct {
			correctID = o.ID
			break
		}
	}

	chosen := qs.OptionIDs[0]
	var score float64
	if chosen == correctID {
		score = float64(q.Weight)
	}

	optID := chosen
	return []domain.SubmittedAnswer{{
		QuestionID: q.ID,
		StudentID:  student,
		OptionID:   &optID,
		Score:      score,
	}}, score
}

// scoreMultiple: вес делится на число правильных вариантов; каждый верный
// выбор прибавляет долю, каждый неверный — вычитает, итог не ниже нуля.
func (s *ScoringService) scoreMultiple(q *domain.Question, qs QuestionSubmission, student domain.UserID) ([]domain.SubmittedAnswer, float64) {
	if len(qs.OptionIDs) == 0 {
		return nil, 0
	}

	correct := make(map[int64]struct{})
	for _, o := range q.Options {
		if o.Correct {
			correct[o.ID] = struct{}{}
		}
	}
	if len(correct) == 0 {
		return nil, 0
	}
	perOption := float64(q.Weight) / float64(len(correct))

	var hits, misses int
	for _, id := range qs.OptionIDs {
		if _, ok := correct[id]; ok {
			hits++
		} else {
			misses++
		}
	}

	net := float64(hits)*perOption - float64(misses)*perOption
	if net < 0 {
		net = 0
	}

	rows := make([]domain.SubmittedAnswer, 0, len(qs.OptionIDs))
	for i, id := range qs.OptionIDs {
		optID := id
		row := domain.SubmittedAnswer{
			QuestionID: q.ID,
			StudentID:  student,
			OptionID:   &optID,
		}
		if i == 0 || !s.scoreOnFirstRowOnly {
			row.Score = net
		}
		rows = append(rows, row)
	}
	return rows, net
}

// scoreMatching: вес делится на число левых частей; пара засчитывается,
// если выбранная правая часть совпала с записанной правильной.
func scoreMatching(q *domain.Question, qs QuestionSubmission, student domain.UserID) ([]domain.SubmittedAnswer, float64) {
	if len(qs.Pairs) == 0 || len(q.Pairs) == 0 {
		return nil, 0
	}

	byID := make(map[int64]*domain.MatchPair, len(q.Pairs))
	for i := range q.Pairs {
		byID[q.Pairs[i].ID] = &q.Pairs[i]
	}
	perPair := float64(q.Weight) / float64(len(q.Pairs))

	var sum float64
	rows := make([]domain.SubmittedAnswer, 0, len(qs.Pairs))
	for _, pc := range qs.Pairs {
		pair, ok := byID[pc.PairID]
		if !ok {
			continue
		}
		var score float64
		if pc.Chosen == pair.Right {
			score = perPair
		}
		sum += score

		pairID := pc.PairID
		chosen := pc.Chosen
		rows = append(rows, domain.SubmittedAnswer{
			QuestionID: q.ID,
			StudentID:  student,
			PairID:     &pairID,
			Chosen:     &chosen,
			Score:      score,
		})
	}
	return rows, sum
}
