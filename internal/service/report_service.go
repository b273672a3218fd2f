package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reportCacheTTL = 5 * time.Minute

// ReportService 汇总试卷成绩。汇总结果按试卷缓存在 redis，
// 提交、作文评分和题目变更时失效。Redis 可为 nil（测试场景），此时直接回源。
type ReportService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	Redis       *redis.Client
}

func NewReportService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, rdb *redis.Client) *ReportService {
	return &ReportService{QuizRepo: quizRepo, AttemptRepo: attemptRepo, Redis: rdb}
}

// GradeBandCounts 各档次人数。档次按百分比划分：
// ≥90 优秀，≥80 良好，≥70 中等，其余为待提高。
type GradeBandCounts struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Average   int `json:"average"`
	Poor      int `json:"poor"`
}

type QuizResultsView struct {
	Quiz           *model.Quiz     `json:"quiz"`
	Attempts       []model.Attempt `json:"attempts"`
	AveragePercent float64         `json:"averagePercent"`
	MinScore       float64         `json:"minScore"`
	MaxScore       float64         `json:"maxScore"`
	Bands          GradeBandCounts `json:"bands"`
}

func reportCacheKey(quizID uint) string {
	return fmt.Sprintf("report:quiz:%d", quizID)
}

// InvalidateQuiz 使某试卷的汇总缓存失效
func (s *ReportService) InvalidateQuiz(quizID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), reportCacheKey(quizID)).Err(); err != nil {
		logger.Log.Warn("删除成绩汇总缓存失败", zap.Uint("quiz_id", quizID), zap.Error(err))
	}
}

// AverageScorePercent 平均得分率（百分制）。
// 没有提交或试卷总分为 0 时返回 0。
func (s *ReportService) AverageScorePercent(quizID uint) (float64, error) {
	quiz, attempts, err := s.load(quizID)
	if err != nil {
		return 0, err
	}
	return averagePercent(quiz, attempts), nil
}

func (s *ReportService) GradeBands(quizID uint) (GradeBandCounts, error) {
	quiz, attempts, err := s.load(quizID)
	if err != nil {
		return GradeBandCounts{}, err
	}
	return gradeBands(quiz, attempts), nil
}

// MinMaxScore 最低分和最高分（原始分）。
// 没有任何提交时最低分取试卷总分、最高分取 0。
func (s *ReportService) MinMaxScore(quizID uint) (float64, float64, error) {
	quiz, attempts, err := s.load(quizID)
	if err != nil {
		return 0, 0, err
	}
	min, max := minMaxScore(quiz, attempts)
	return min, max, nil
}

// QuizResults 成绩汇总视图，命中缓存时直接返回
func (s *ReportService) QuizResults(quizID uint) (*QuizResultsView, error) {
	ctx := context.Background()
	key := reportCacheKey(quizID)

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var view QuizResultsView
			if err := json.Unmarshal([]byte(cached), &view); err == nil {
				return &view, nil
			}
		}
	}

	quiz, attempts, err := s.load(quizID)
	if err != nil {
		return nil, err
	}

	min, max := minMaxScore(quiz, attempts)
	view := &QuizResultsView{
		Quiz:           quiz,
		Attempts:       attempts,
		AveragePercent: averagePercent(quiz, attempts),
		MinScore:       min,
		MaxScore:       max,
		Bands:          gradeBands(quiz, attempts),
	}

	if s.Redis != nil {
		if data, err := json.Marshal(view); err == nil {
			if err := s.Redis.Set(ctx, key, data, reportCacheTTL).Err(); err != nil {
				logger.Log.Warn("写入成绩汇总缓存失败", zap.Uint("quiz_id", quizID), zap.Error(err))
			}
		}
	}
	return view, nil
}

func (s *ReportService) load(quizID uint) (*model.Quiz, []model.Attempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	attempts, err := s.AttemptRepo.FindByQuizID(quizID)
	if err != nil {
		return nil, nil, err
	}
	return quiz, attempts, nil
}

func averagePercent(quiz *model.Quiz, attempts []model.Attempt) float64 {
	if quiz.TotalPoints == 0 {
		return 0
	}
	sum := 0.0
	n := 0
	for _, a := range attempts {
		if a.Score == nil {
			continue
		}
		sum += *a.Score / quiz.TotalPoints * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func gradeBands(quiz *model.Quiz, attempts []model.Attempt) GradeBandCounts {
	var bands GradeBandCounts
	for _, a := range attempts {
		if a.Score == nil {
			continue
		}
		percent := 0.0
		if quiz.TotalPoints > 0 {
			percent = *a.Score / quiz.TotalPoints * 100
		}
		switch {
		case percent >= 90:
			bands.Excellent++
		case percent >= 80:
			bands.Good++
		case percent >= 70:
			bands.Average++
		default:
			bands.Poor++
		}
	}
	return bands
}

func minMaxScore(quiz *model.Quiz, attempts []model.Attempt) (float64, float64) {
	min := quiz.TotalPoints
	max := 0.0
	for _, a := range attempts {
		if a.Score == nil {
			continue
		}
		if *a.Score < min {
			min = *a.Score
		}
		if *a.Score > max {
			max = *a.Score
		}
	}
	return min, max
}
