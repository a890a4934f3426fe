// Package retention removes finished tasks once their retention deadline
// has passed.
//
// A Sweeper deletes every task in the done status whose auto-delete
// deadline is at or before the current time, in a single statement. It runs
// on a cron schedule evaluated in a configured time zone and can also be
// triggered synchronously with RunOnce. Sweeps are idempotent: a second run
// at the same instant deletes nothing. Failures are recorded in the returned
// Result and logged; they never stop the schedule.
package retention
