package service

import (
	"testing"

	"github.com/edu-planet/edu-service/internal/domain"
)

func singleQuestion(id, weight int64) domain.Question {
	return domain.Question{
		ID:     id,
		Kind:   domain.QuestionSingle,
		Weight: weight,
		Options: []domain.Option{
			{ID: 1, Correct: true},
			{ID: 2},
			{ID: 3},
		},
	}
}

func TestScore_SingleChoice(t *testing.T) {
	svc := NewScoringService(nil)
	questions := []domain.Question{singleQuestion(100, 10)}

	// правильный вариант — полный вес
	rows, total := svc.Score(questions, Submission{
		StudentID: 5,
		Answers:   []QuestionSubmission{{QuestionID: 100, OptionIDs: []int64{1}}},
	})
	if total != 10 {
		t.Fatalf("correct answer: got %d, want 10", total)
	}
	if len(rows) != 1 || rows[0].Score != 10 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	// неправильный — ноль
	_, total = svc.Score(questions, Submission{
		StudentID: 5,
		Answers:   []QuestionSubmission{{QuestionID: 100, OptionIDs: []int64{3}}},
	})
	if total != 0 {
		t.Fatalf("wrong answer: got %d, want 0", total)
	}
}

func multipleQuestion(id, weight int64) domain.Question {
	return domain.Question{
		ID:     id,
		Kind:   domain.QuestionMultiple,
		Weight: weight,
		Options: []domain.Option{
			{ID: 1, Correct: true},
			{ID: 2, Correct: true},
			{ID: 3},
			{ID: 4},
		},
	}
}

func TestScore_MultipleChoice(t *testing.T) {
	svc := NewScoringService(nil)
	questions := []domain.Question{multipleQuestion(200, 10)}

	// оба правильных — полный вес
	_, total := svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{QuestionID: 200, OptionIDs: []int64{1, 2}}},
	})
	if total != 10 {
		t.Fatalf("all correct: got %d, want 10", total)
	}

	// один правильный и один неправильный гасят друг друга
	_, total = svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{QuestionID: 200, OptionIDs: []int64{1, 3}}},
	})
	if total != 0 {
		t.Fatalf("hit+miss: got %d, want 0", total)
	}

	// итог не уходит в минус
	_, total = svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{QuestionID: 200, OptionIDs: []int64{3, 4}}},
	})
	if total != 0 {
		t.Fatalf("all wrong: got %d, want 0", total)
	}
}

func TestScore_MultipleChoice_ScoreOnFirstRowOnly(t *testing.T) {
	svc := NewScoringService(nil)
	questions := []domain.Question{multipleQuestion(200, 10)}

	rows, _ := svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{QuestionID: 200, OptionIDs: []int64{1, 2}}},
	})
	if len(rows) != 2 {
		t.Fatalf("expected row per chosen option, got %d", len(rows))
	}
	// балл лежит только в первой строке, остальные по нулям
	if rows[0].Score != 10 {
		t.Fatalf("first row score: got %v, want 10", rows[0].Score)
	}
	if rows[1].Score != 0 {
		t.Fatalf("second row must carry zero, got %v", rows[1].Score)
	}
}

func TestScore_Matching(t *testing.T) {
	svc := NewScoringService(nil)
	questions := []domain.Question{{
		ID:     300,
		Kind:   domain.QuestionMatching,
		Weight: 6,
		Pairs: []domain.MatchPair{
			{ID: 1, Left: "H2O", Right: "вода"},
			{ID: 2, Left: "NaCl", Right: "соль"},
			{ID: 3, Left: "CO2", Right: "углекислый газ"},
		},
	}}

	// две пары из трёх верны: 6/3 * 2 = 4
	rows, total := svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{
			QuestionID: 300,
			Pairs: []PairChoice{
				{PairID: 1, Chosen: "вода"},
				{PairID: 2, Chosen: "углекислый газ"},
				{PairID: 3, Chosen: "углекислый газ"},
			},
		}},
	})
	if total != 4 {
		t.Fatalf("got %d, want 4", total)
	}
	if len(rows) != 3 {
		t.Fatalf("expected a row per pair, got %d", len(rows))
	}
	if rows[1].Score != 0 {
		t.Fatalf("wrong pair must score zero, got %v", rows[1].Score)
	}
}

func TestScore_SkipsUnknownQuestions(t *testing.T) {
	svc := NewScoringService(nil)
	questions := []domain.Question{singleQuestion(100, 10)}

	rows, total := svc.Score(questions, Submission{
		Answers: []QuestionSubmission{
			{QuestionID: 999, OptionIDs: []int64{1}},
			{QuestionID: 100, OptionIDs: []int64{1}},
		},
	})
	if total != 10 {
		t.Fatalf("got %d, want 10", total)
	}
	if len(rows) != 1 {
		t.Fatalf("unknown question must not produce rows, got %d", len(rows))
	}
}

func TestScore_TotalTruncatesFraction(t *testing.T) {
	svc := NewScoringService(nil)
	// 2 правильных из 3, вес 10: 10/3*2 = 6.66 -> 6
	questions := []domain.Question{{
		ID:     400,
		Kind:   domain.QuestionMultiple,
		Weight: 10,
		Options: []domain.Option{
			{ID: 1, Correct: true},
			{ID: 2, Correct: true},
			{ID: 3, Correct: true},
			{ID: 4},
		},
	}}

	_, total := svc.Score(questions, Submission{
		Answers: []QuestionSubmission{{QuestionID: 400, OptionIDs: []int64{1, 2}}},
	})
	if total != 6 {
		t.Fatalf("got %d, want 6", total)
	}
}
