package entity

import (
	"errors"
	"fmt"
)

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrDuplicateMovie = errors.New("movie already exists")
)

type Movie struct {
	ID    int64  `db:"movie_id"`
	Title string `db:"title"`
}

// String renders the movie as a menu line, e.g. "1. Inception".
func (m Movie) String() string {
	return fmt.Sprintf("%d. %s", m.ID, m.Title)
}
