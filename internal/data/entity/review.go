package entity

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"

	// SentimentError is reported when inference fails. It is never stored.
	SentimentError Sentiment = "Error"
)

// Valid reports whether s can be persisted.
func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative
}

func (s Sentiment) String() string {
	return string(s)
}

type Review struct {
	ID        int64     `db:"id"`
	MovieID   int64     `db:"movie_id"`
	Text      string    `db:"review"`
	Sentiment Sentiment `db:"sentiment"`
}

// SentimentStats aggregates the labels of one movie's reviews.
type SentimentStats struct {
	MovieID  int64
	Total    int64
	Positive int64
	Negative int64
}
