package server

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"blog/internal/models"
)

func TestSplitCategories(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 7} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			cats := make([]models.Category, n)
			for i := range cats {
				cats[i] = models.Category{ID: i + 1, Name: fmt.Sprintf("cat-%d", i)}
			}
			first, second := splitCategories(cats)
			require.Len(t, first, n/2)
			require.Len(t, second, n-n/2)

			// original order, full coverage, no overlap
			joined := append(append([]models.Category{}, first...), second...)
			require.Equal(t, cats, joined)
		})
	}
}

func TestFormValidation(t *testing.T) {
	require.Empty(t, RegisterForm{
		Email: "a@b.com", Username: "alice", Password: "secret-pass", Confirm: "secret-pass",
	}.Validate())

	errs := RegisterForm{Email: "nope", Password: "short", Confirm: "other"}.Validate()
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "username")
	require.Contains(t, errs, "password")
	require.Contains(t, errs, "confirm")

	require.Empty(t, PostForm{Title: "t", Content: "c", Category: "g"}.Validate())
	require.Len(t, PostForm{}.Validate(), 3)

	require.NotEmpty(t, CommentForm{Content: "  \t "}.Validate())
	require.Empty(t, CommentForm{Content: "hi"}.Validate())

	require.NotEmpty(t, SubscribeForm{Email: "bad"}.Validate())
	require.Empty(t, SubscribeForm{Email: "a@b.com"}.Validate())

	errs = PasswordChangeForm{Current: "x", New: "new-password", Confirm: "mismatch"}.Validate()
	require.Contains(t, errs, "confirm")
	require.Empty(t, PasswordChangeForm{Current: "x", New: "new-password", Confirm: "new-password"}.Validate())
}
