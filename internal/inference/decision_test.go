package inference

import (
	"math"
	"testing"

	"movie-sentiment/internal/data/entity"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		name   string
		logits Logits
		want   entity.Sentiment
	}{
		{"positive wins", Logits{Negative: -1.2, Positive: 2.3}, entity.SentimentPositive},
		{"negative wins", Logits{Negative: 0.9, Positive: -0.4}, entity.SentimentNegative},
		{"tie", Logits{Negative: 0.5, Positive: 0.5}, entity.SentimentNegative},
		{"both zero", Logits{}, entity.SentimentNegative},
		{"smallest margin", Logits{Negative: 0, Positive: math.SmallestNonzeroFloat32}, entity.SentimentPositive},
		{"nan positive", Logits{Negative: 0, Positive: nan}, entity.SentimentNegative},
		{"nan negative", Logits{Negative: nan, Positive: 1}, entity.SentimentNegative},
		{"inf positive", Logits{Negative: 3, Positive: inf}, entity.SentimentPositive},
		{"inf both", Logits{Negative: inf, Positive: inf}, entity.SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.logits))
		})
	}
}
