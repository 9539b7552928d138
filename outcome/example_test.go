package outcome_test

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/justme8code/catchy/outcome"
)

func ExampleFrom() {
	parse := func(s string) (int, error) { return strconv.Atoi(s) }

	doubled := outcome.From(parse("21")).
		Map(func(v int) (int, error) { return v * 2, nil })

	fmt.Println(doubled.OrElse(0))
	// Output: 42
}

func ExampleOutcome_Recover() {
	lookup := func() (string, error) { return "", errors.New("cache miss") }

	greeting := outcome.From(lookup()).
		Recover(func() (string, error) { return "hello, stranger", nil })

	fmt.Println(greeting.OrElse(""))
	// Output: hello, stranger
}

func ExampleMap() {
	o := outcome.Map(outcome.Success(404), func(code int) (string, error) {
		return fmt.Sprintf("status %d", code), nil
	})

	o.OnSuccess(func(s string) { fmt.Println(s) })
	// Output: status 404
}
