package inference

import "movie-sentiment/internal/data/entity"

// Logits is the raw two-class model output for one review.
type Logits struct {
	Negative float32
	Positive float32
}

// Decide picks the label with the larger logit. Ties and NaN fall to
// Negative.
func Decide(l Logits) entity.Sentiment {
	if l.Positive > l.Negative {
		return entity.SentimentPositive
	}
	return entity.SentimentNegative
}
