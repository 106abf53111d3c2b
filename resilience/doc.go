// Package resilience protects the service from slow or failing dependencies.
//
// Checks that call out to other systems run through an Executor combining a
// CircuitBreaker, so a dependency that keeps failing is skipped until it
// recovers, with a Timeout that bounds each call. The HTTP layer uses a
// RateLimiter, built on golang.org/x/time/rate, to shed excess status
// requests.
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  3,
//	        ResetTimeout: time.Minute,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	nodes, err := resilience.Do(ctx, exec, listNodes)
package resilience
