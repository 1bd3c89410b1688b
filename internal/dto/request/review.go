package request

type AnalyzeReviewRequest struct {
	MovieID int64  `json:"movie_id" validate:"gt=0"`
	Text    string `json:"review" validate:"required,notblank"`
}

type UpdateReviewRequest struct {
	MovieID  int64  `json:"movie_id" validate:"gt=0"`
	ReviewID int64  `json:"review_id" validate:"gt=0"`
	Text     string `json:"review" validate:"required,notblank"`
}
