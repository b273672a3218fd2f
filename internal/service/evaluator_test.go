package service

import (
	"classquiz_backend/internal/model"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and lowers", "  Paris ", "paris"},
		{"collapses inner whitespace", "the   quick\tbrown", "the quick brown"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.in); got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"spacing around operators", "int x = 1;", "int x=1;"},
		{"line comments ignored", "int x=1; // init\nreturn x;", "int x=1;\nreturn x;"},
		{"block comments ignored", "/* setup */int x=1;", "int x=1;"},
		{"blank lines dropped", "int x=1;\n\n\nreturn x;", "int x=1;\nreturn x;"},
		{"case insensitive", "INT X=1;", "int x=1;"},
		{"tabs collapsed", "if (x\t> 0) {", "if(x>0){"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := normalizeCode(tt.a), normalizeCode(tt.b); got != want {
				t.Errorf("normalizeCode mismatch:\n a=%q -> %q\n b=%q -> %q", tt.a, got, tt.b, want)
			}
		})
	}
}

func TestEvaluateAnswerMCQ(t *testing.T) {
	q := &model.Question{
		Type:   model.MCQ,
		Points: 2,
		Choices: []model.Choice{
			{BaseModel: model.BaseModel{ID: 11}, Text: "堆", IsCorrect: false},
			{BaseModel: model.BaseModel{ID: 12}, Text: "栈", IsCorrect: true},
		},
	}

	tests := []struct {
		name        string
		raw         string
		wantCorrect bool
		wantAwarded float64
	}{
		{"correct choice", "12", true, 2},
		{"wrong choice", "11", false, 0},
		{"non-member id", "99", false, 0},
		{"non-numeric", "abc", false, 0},
		{"empty", "", false, 0},
		{"padded id", " 12 ", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := EvaluateAnswer(q, tt.raw)
			if ev.Correct != tt.wantCorrect || ev.Awarded != tt.wantAwarded {
				t.Errorf("EvaluateAnswer(%q) = {Correct:%v Awarded:%v}, want {%v %v}",
					tt.raw, ev.Correct, ev.Awarded, tt.wantCorrect, tt.wantAwarded)
			}
		})
	}
}

// 多个选项都标记为正确时，命中任意一个都算对
func TestEvaluateAnswerMCQMultipleCorrect(t *testing.T) {
	q := &model.Question{
		Type:   model.MCQ,
		Points: 1,
		Choices: []model.Choice{
			{BaseModel: model.BaseModel{ID: 1}, Text: "A", IsCorrect: true},
			{BaseModel: model.BaseModel{ID: 2}, Text: "a", IsCorrect: true},
		},
	}

	for _, raw := range []string{"1", "2"} {
		if ev := EvaluateAnswer(q, raw); !ev.Correct {
			t.Errorf("choice %s should be accepted", raw)
		}
	}
}

func TestEvaluateAnswerTextTypes(t *testing.T) {
	tests := []struct {
		name        string
		qType       model.QuestionType
		correct     string
		raw         string
		wantCorrect bool
	}{
		{"identification exact", model.Identification, "Paris", "Paris", true},
		{"identification normalized", model.Identification, "paris", "  Paris ", true},
		{"identification wrong", model.Identification, "Paris", "London", false},
		{"identification empty", model.Identification, "Paris", "", false},
		{"true_false match", model.TrueFalse, "true", "TRUE", true},
		{"true_false mismatch", model.TrueFalse, "true", "false", false},
		{"coding spacing ignored", model.Coding, "int x = 1;", "int x=1;", true},
		{"coding comments ignored", model.Coding, "int x=1;", "int x=1; // answer", true},
		{"coding different body", model.Coding, "int x=1;", "int x=2;", false},
		{"coding empty", model.Coding, "int x=1;", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &model.Question{Type: tt.qType, CorrectAnswer: tt.correct, Points: 3}
			ev := EvaluateAnswer(q, tt.raw)
			if ev.Correct != tt.wantCorrect {
				t.Errorf("EvaluateAnswer(%q) correct = %v, want %v", tt.raw, ev.Correct, tt.wantCorrect)
			}
			wantAwarded := 0.0
			if tt.wantCorrect {
				wantAwarded = 3
			}
			if ev.Awarded != wantAwarded {
				t.Errorf("awarded = %v, want %v", ev.Awarded, wantAwarded)
			}
		})
	}
}

func TestEvaluateAnswerEssayAndUnknown(t *testing.T) {
	essay := &model.Question{Type: model.Essay, Points: 10}
	if ev := EvaluateAnswer(essay, "my long answer"); ev.Correct || ev.Awarded != 0 {
		t.Errorf("essay must never auto-score, got {Correct:%v Awarded:%v}", ev.Correct, ev.Awarded)
	}

	unknown := &model.Question{Type: "RIDDLE", CorrectAnswer: "x", Points: 5}
	if ev := EvaluateAnswer(unknown, "x"); ev.Correct || ev.Awarded != 0 {
		t.Errorf("unknown type must be incorrect, got {Correct:%v Awarded:%v}", ev.Correct, ev.Awarded)
	}
}
