// Package healthcheck drives automatic recovery detection by probing
// dependency health endpoints through their circuit breakers.
//
// Without a probe, an open breaker only recovers when real traffic
// arrives after the recovery timeout. A probe keeps ticking in the
// background, so the breaker closes again as soon as the dependency is
// back, even during quiet periods.
package healthcheck
