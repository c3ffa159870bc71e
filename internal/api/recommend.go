package api

import (
	"context"

	"github.com/nqoctai/bookstore-gateway/internal/backend"
	"github.com/nqoctai/bookstore-gateway/internal/models"
)

const (
	// сегмент "AI" у бэкенда в верхнем регистре, роуты регистрозависимы
	pathRecommend         = "api/v1/AI/recommend"
	pathRecommendFeedback = "api/v1/AI/feedback"
)

// RecommendAPI — AI-рекомендации; внутренности модели непрозрачны,
// шлюз фиксирует только request/response контракт.
type RecommendAPI struct {
	cl *backend.Client
}

func (r *RecommendAPI) Recommend(ctx context.Context, body models.RecommendRequest, opts ...backend.Option) (*backend.Response, error) {
	return r.cl.Post(ctx, pathRecommend, body, opts...)
}

func (r *RecommendAPI) Feedback(ctx context.Context, body models.RecommendFeedbackRequest, opts ...backend.Option) (*backend.Response, error) {
	return r.cl.Post(ctx, pathRecommendFeedback, body, opts...)
}
