package response

import "movie-sentiment/internal/data/entity"

type MovieResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:    movie.ID,
		Title: movie.Title,
	}
}

func MoviesToResponse(movies []*entity.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, MovieToResponse(m))
	}
	return out
}
