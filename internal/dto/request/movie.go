package request

type CreateMovieRequest struct {
	Title string `json:"title" validate:"required,notblank,max=255"`
}
