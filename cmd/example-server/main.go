package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ratelib/redis-rate-limit/middleware"
	"github.com/ratelib/redis-rate-limit/pkg/limiter"
)

func main() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	store, err := limiter.NewRedisCounter(client)
	if err != nil {
		log.Fatal(err)
	}

	limiters := limiter.NewRegistry(store,
		limiter.WithCachePrefix("demo:"),
		limiter.WithTimeout(100*time.Millisecond),
	)

	// 5 requests per second per client IP.
	rateLimited := middleware.New(middleware.Config{
		Limiters: limiters,
		Spec:     limiter.RateSpec{Requests: 5, Seconds: 1},
		KeyFunc: func(r *http.Request) string {
			return "ping:" + r.RemoteAddr
		},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Pong!\n"))
	})

	log.Printf("Server listening on :8080 (Redis: %s)", redisAddr)
	if err := http.ListenAndServe(":8080", rateLimited(mux)); err != nil {
		log.Fatal(err)
	}
}
