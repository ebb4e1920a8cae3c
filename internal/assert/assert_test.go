package assert

import (
	"errors"
	"fmt"
	"testing"
)

type pair struct {
	First, Second int
}

func TestAssertions(t *testing.T) {
	t.Run("equal", func(t *testing.T) {
		Equal(t, 1, 1)
		NotEqual(t, 1, 2)
		Equal(t, pair{1, 2}, pair{1, 2}, Sprintf("pairs with %s fields", "equal"))
	})

	t.Run("nil", func(t *testing.T) {
		Nil(t, nil)
		Nil(t, (*chan int)(nil))
		Nil(t, (*func())(nil))
		Nil(t, (*map[int]int)(nil))
		Nil(t, (*pair)(nil))
		Nil(t, (*[]int)(nil))

		NotNil(t, make(chan int))
		NotNil(t, func() {})
		NotNil(t, any(1))
		NotNil(t, make(map[int]int))
		NotNil(t, &pair{})
		NotNil(t, make([]int, 0))

		NotNil(t, "foo")
		NotNil(t, 0)
		NotNil(t, false)
		NotNil(t, pair{})
	})

	t.Run("bool", func(t *testing.T) {
		True(t, true)
		False(t, false)
	})

	t.Run("error chain", func(t *testing.T) {
		want := errors.New("base error")
		ErrorIs(t, fmt.Errorf("context: %w", want), want)
	})

	t.Run("panics", func(t *testing.T) {
		Panics(t, func() { panic("boom") })
	})
}
