package limiter

import (
	"context"
	"fmt"
)

func ExampleRateLimiter() {
	rl, err := New("reports.export", RateSpec{Requests: 2, Seconds: 60}, NewMemoryCounter())
	if err != nil {
		panic(err)
	}

	for _i := 0; _i < 3; _i++ {
		err := rl.Acquire(context.Background())
		fmt.Println(err == nil)
	}
	// Output:
	// true
	// true
	// false
}

func ExampleWrap() {
	rl, err := New("reports.export", RateSpec{Requests: 1, Seconds: 60}, NewMemoryCounter())
	if err != nil {
		panic(err)
	}

	export := Wrap(rl, func(ctx context.Context) (string, error) {
		return "report.csv", nil
	})

	name, err := export(context.Background())
	fmt.Println(name, err == nil)

	_, err = export(context.Background())
	fmt.Println(IsRateLimited(err))
	// Output:
	// report.csv true
	// true
}
