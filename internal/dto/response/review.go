package response

import (
	"math"

	"movie-sentiment/internal/data/entity"
)

type ReviewResponse struct {
	ID        int64  `json:"id"`
	MovieID   int64  `json:"movie_id"`
	Text      string `json:"review"`
	Sentiment string `json:"sentiment"`
}

type SentimentStatsResponse struct {
	MovieID         int64   `json:"movie_id"`
	Total           int64   `json:"total"`
	Positive        int64   `json:"positive"`
	Negative        int64   `json:"negative"`
	PositivePercent float64 `json:"positive_percent"`
}

// Helper converters
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		MovieID:   review.MovieID,
		Text:      review.Text,
		Sentiment: review.Sentiment.String(),
	}
}

func ReviewsToResponse(reviews []*entity.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewToResponse(r))
	}
	return out
}

func StatsToResponse(stats *entity.SentimentStats) SentimentStatsResponse {
	resp := SentimentStatsResponse{
		MovieID:  stats.MovieID,
		Total:    stats.Total,
		Positive: stats.Positive,
		Negative: stats.Negative,
	}
	if stats.Total > 0 {
		// one decimal place
		resp.PositivePercent = math.Round(float64(stats.Positive)/float64(stats.Total)*1000) / 10
	}
	return resp
}
