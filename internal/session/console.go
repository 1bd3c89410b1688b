package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"movie-sentiment/internal/dto/response"
	"movie-sentiment/pkg/apperror"
	"movie-sentiment/pkg/middleware"

	"go.uber.org/zap"
)

const invalidInput = "invalid input"

// errInputClosed stops the console when input is exhausted mid-action.
var errInputClosed = errors.New("input closed")

// Console drives a Session from line-oriented text input.
type Console struct {
	session *Session
	in      io.Reader
	lines   chan line
	readErr error
	out     io.Writer
	styles  styles
	log     *zap.Logger
}

// NewConsole reads commands from in and writes menus to out. styled enables
// terminal colours.
func NewConsole(session *Session, in io.Reader, out io.Writer, styled bool, log *zap.Logger) *Console {
	return &Console{
		session: session,
		in:      in,
		out:     out,
		styles:  newStyles(styled),
		log:     log.With(zap.String("component", "console")),
	}
}

// Run shows menus until the user quits, input ends or ctx is cancelled.
// Recoverable errors are printed and the loop continues.
func (c *Console) Run(ctx context.Context) error {
	defer c.session.Exit()

	done := make(chan struct{})
	defer close(done)
	c.lines = make(chan line)
	go readLines(c.in, maxLineBytes, c.lines, done)

	for c.session.State() != StateExited {
		if ctx.Err() != nil {
			return nil
		}

		var ok bool
		switch c.session.State() {
		case StateMainMenu:
			ok = c.mainMenu(ctx)
		case StateMovieSelected:
			ok = c.movieMenu(ctx)
		}
		if !ok {
			c.println("")
			break
		}
	}

	if c.readErr != nil {
		return fmt.Errorf("read input: %w", c.readErr)
	}
	return nil
}

// mainMenu returns false when input is exhausted.
func (c *Console) mainMenu(ctx context.Context) bool {
	c.println(c.styles.render(c.styles.title, "=== Movie Sentiment Analyzer ==="))
	if !c.do(ctx, "list_movies", c.showMovies) {
		return false
	}
	c.println(c.styles.render(c.styles.muted, "n. New movie   q. Quit"))

	choice, err := c.prompt(ctx, "Select a movie: ")
	if errors.Is(err, errInputClosed) {
		return false
	}
	if err != nil {
		c.printError(err)
		return true
	}

	switch strings.ToLower(choice) {
	case "q":
		c.session.Exit()
		return true
	case "n":
		return c.do(ctx, "create_movie", c.createMovie)
	}

	id, valid := c.parseID(choice)
	if !valid {
		return true
	}
	return c.do(ctx, "select_movie", func(ctx context.Context) error {
		return c.session.SelectMovie(ctx, id)
	})
}

func (c *Console) movieMenu(ctx context.Context) bool {
	c.println("")
	c.println(c.styles.render(c.styles.title, fmt.Sprintf("--- %s ---", c.session.Movie().Title)))
	c.println("1. Analyze a review")
	c.println("2. List reviews")
	c.println("3. Update a review")
	c.println("4. Delete a review")
	c.println("5. Show statistics")
	c.println(c.styles.render(c.styles.muted, "b. Back   q. Quit"))

	choice, err := c.prompt(ctx, "Choice: ")
	if errors.Is(err, errInputClosed) {
		return false
	}
	if err != nil {
		c.printError(err)
		return true
	}

	switch strings.ToLower(choice) {
	case "1":
		return c.do(ctx, "analyze", c.analyze)
	case "2":
		return c.do(ctx, "list_reviews", c.listReviews)
	case "3":
		return c.do(ctx, "update_review", c.updateReview)
	case "4":
		return c.do(ctx, "delete_review", c.deleteReview)
	case "5":
		return c.do(ctx, "stats", c.stats)
	case "b":
		return c.do(ctx, "back", func(context.Context) error { return c.session.Back() })
	case "q":
		c.session.Exit()
	default:
		c.println(c.styles.render(c.styles.errText, invalidInput))
	}

	return true
}

// do runs one menu action, printing any recoverable error. It returns false
// when the action ran out of input.
func (c *Console) do(ctx context.Context, name string, action middleware.Action) bool {
	err := middleware.Chain(action,
		middleware.Recover(c.log, name),
		middleware.Logger(c.log, name),
	)(ctx)

	if errors.Is(err, errInputClosed) {
		return false
	}
	if err != nil {
		c.printError(err)
	}
	return true
}

func (c *Console) showMovies(ctx context.Context) error {
	movies, err := c.session.Movies(ctx)
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		c.println(c.styles.render(c.styles.muted, "No movies yet."))
	}
	for _, m := range movies {
		c.println(fmt.Sprintf("%d. %s", m.ID, m.Title))
	}
	return nil
}

func (c *Console) createMovie(ctx context.Context) error {
	title, err := c.prompt(ctx, "Movie title: ")
	if err != nil {
		return err
	}

	movie, err := c.session.CreateMovie(ctx, title)
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("Created %d. %s", movie.ID, movie.Title))
	return nil
}

func (c *Console) analyze(ctx context.Context) error {
	text, err := c.prompt(ctx, "Review: ")
	if err != nil {
		return err
	}

	review, err := c.session.Analyze(ctx, text)
	if review != nil {
		c.println("Sentiment: " + c.styles.label(review.Sentiment))
	}
	return err
}

func (c *Console) listReviews(ctx context.Context) error {
	reviews, err := c.session.ListReviews(ctx)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		c.println(c.styles.render(c.styles.muted, "No reviews yet."))
		return nil
	}
	for _, r := range reviews {
		c.println(c.formatReview(r))
	}
	return nil
}

func (c *Console) updateReview(ctx context.Context) error {
	raw, err := c.prompt(ctx, "Review id: ")
	if err != nil {
		return err
	}
	id, valid := c.parseID(raw)
	if !valid {
		return nil
	}

	text, err := c.prompt(ctx, "New review: ")
	if err != nil {
		return err
	}

	review, err := c.session.UpdateReview(ctx, id, text)
	if review != nil {
		c.println("Updated: " + c.formatReview(*review))
	}
	return err
}

func (c *Console) deleteReview(ctx context.Context) error {
	raw, err := c.prompt(ctx, "Review id: ")
	if err != nil {
		return err
	}
	id, valid := c.parseID(raw)
	if !valid {
		return nil
	}

	if err := c.session.DeleteReview(ctx, id); err != nil {
		return err
	}
	c.println(fmt.Sprintf("Deleted review %d", id))
	return nil
}

func (c *Console) stats(ctx context.Context) error {
	stats, err := c.session.Stats(ctx)
	if err != nil {
		return err
	}
	c.println(fmt.Sprintf("Reviews: %d   %s: %d (%.1f%%)   %s: %d",
		stats.Total,
		c.styles.label("Positive"), stats.Positive, stats.PositivePercent,
		c.styles.label("Negative"), stats.Negative,
	))
	return nil
}

func (c *Console) formatReview(r response.ReviewResponse) string {
	return fmt.Sprintf("[%d] %s -> %s", r.ID, r.Text, c.styles.label(r.Sentiment))
}

// prompt writes label and reads one trimmed line. It returns errInputClosed
// on EOF or when ctx is cancelled, and an input error for an over-long line.
func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)

	select {
	case <-ctx.Done():
		return "", errInputClosed
	case l, ok := <-c.lines:
		if !ok {
			return "", errInputClosed
		}
		if errors.Is(l.err, errLineTooLong) {
			return "", apperror.Inputf("%s: line longer than %d bytes", invalidInput, maxLineBytes)
		}
		if l.err != nil {
			c.readErr = l.err
			return "", errInputClosed
		}
		return strings.TrimSpace(l.text), nil
	}
}

func (c *Console) parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.println(c.styles.render(c.styles.errText, invalidInput))
		return 0, false
	}
	return id, true
}

func (c *Console) printError(err error) {
	c.println(c.styles.render(c.styles.errText, "Error: "+apperror.UserMessage(err)))
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}
