/*
Package resilience provides the per-host circuit breakers used by the page
fetcher.

A Group hands out one Breaker per key, created on first use. The fetcher
keys by upstream host, so a failing site is rejected with ErrCircuitOpen
while every other host keeps being fetched. Settings.IsFailure decides which
errors count against a host; the fetcher only counts transport errors and
5xx or 429 responses.

	hosts := resilience.NewGroup(resilience.Settings{
		Cooldown:   30 * time.Second,
		ShouldTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 10 },
		IsFailure:  isHostFailure,
	})

	err := hosts.Execute(target.Host, func() error {
		return get(ctx, target)
	})

States move as follows:

	Closed --[ShouldTrip]--> Open --[Cooldown]--> Half-Open --[HalfOpenRequests successes]--> Closed
	                                                  |
	                                              [failure]--> Open

A panic inside the guarded function counts as a failure and keeps unwinding.
*/
package resilience
