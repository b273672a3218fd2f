package service

import (
	"classquiz_backend/internal/model"
	"regexp"
	"strconv"
	"strings"
)

// Evaluation 单题自动判分结果
type Evaluation struct {
	Correct  bool
	Awarded  float64
	ChoiceID *uint
}

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	spaceTabRe     = regexp.MustCompile(`[ \t]+`)
	punctSpaceRe   = regexp.MustCompile(`\s*([{};(),=+\-*/<>!&|])\s*`)
)

// normalizeText 去首尾空白、转小写、内部空白折叠为单个空格
func normalizeText(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// normalizeCode 代码题比对前的归一化：
// 去掉 // 和 /* */ 注释，折叠空格和制表符，
// 去掉标点符号两侧的空白，丢弃空行，最后转小写。
func normalizeCode(s string) string {
	s = lineCommentRe.ReplaceAllString(s, "")
	s = blockCommentRe.ReplaceAllString(s, "")
	s = spaceTabRe.ReplaceAllString(s, " ")
	s = punctSpaceRe.ReplaceAllString(s, "$1")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	return strings.ToLower(strings.Join(kept, "\n"))
}

// EvaluateAnswer 按题型对一份作答做自动判分。纯函数，不触库。
// 作答缺失或格式非法一律按答错处理，不返回错误；
// 作文题恒为未得分，等待教师人工评分。
func EvaluateAnswer(q *model.Question, raw string) Evaluation {
	switch q.Type {
	case model.MCQ:
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			return Evaluation{}
		}
		choiceID := uint(id)
		for _, c := range q.Choices {
			if c.ID == choiceID {
				ev := Evaluation{ChoiceID: &choiceID}
				if c.IsCorrect {
					ev.Correct = true
					ev.Awarded = q.Points
				}
				return ev
			}
		}
		return Evaluation{}

	case model.TrueFalse, model.Identification:
		if raw == "" {
			return Evaluation{}
		}
		if normalizeText(raw) == normalizeText(q.CorrectAnswer) {
			return Evaluation{Correct: true, Awarded: q.Points}
		}
		return Evaluation{}

	case model.Coding:
		if raw == "" {
			return Evaluation{}
		}
		if normalizeCode(raw) == normalizeCode(q.CorrectAnswer) {
			return Evaluation{Correct: true, Awarded: q.Points}
		}
		return Evaluation{}

	case model.Essay:
		return Evaluation{}

	default:
		return Evaluation{}
	}
}
