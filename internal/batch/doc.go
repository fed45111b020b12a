// Package batch owns the multi-directory run: job validation, the
// sequential directory loop, per-directory outcomes, and cancellation.
//
// One [Orchestrator] drives one [Job]. Directories are processed strictly
// in order, one at a time; a failing directory is reported and the batch
// continues. [Orchestrator.RequestStop] stops the batch from any goroutine
// with at most one line of tool output of latency. All observable behavior
// flows through the [Events] sink; the package itself never prints.
package batch
