// Package internaldefs exposes stable metric name definitions shared by
// exporter implementations.
//
// Counter definitions live here so every exporter renders identical metric
// names. Changes to definitions in this package affect all exporters
// simultaneously.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs

import (
	authkit "github.com/fieldform/authkit"
)

// CounterDef binds one engine counter to its stable exposition name.
type CounterDef struct {
	ID   authkit.MetricID
	Name string
	Help string
}

// CounterDefs lists every engine counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: authkit.MetricLoginSuccess, Name: "authkit_login_success_total", Help: "Successful login attempts."},
	{ID: authkit.MetricLoginFailure, Name: "authkit_login_failure_total", Help: "Failed login attempts."},
	{ID: authkit.MetricSignupSuccess, Name: "authkit_signup_success_total", Help: "Successful signups, acknowledgement-only included."},
	{ID: authkit.MetricSignupFailure, Name: "authkit_signup_failure_total", Help: "Failed signups."},
	{ID: authkit.MetricRefreshSuccess, Name: "authkit_refresh_success_total", Help: "Successful refresh-token exchanges."},
	{ID: authkit.MetricRefreshFailure, Name: "authkit_refresh_failure_total", Help: "Refresh failures that forced a logout."},
	{ID: authkit.MetricRefreshCoalesced, Name: "authkit_refresh_coalesced_total", Help: "Refresh callers that shared an in-flight exchange."},
	{ID: authkit.MetricRefreshSuperseded, Name: "authkit_refresh_superseded_total", Help: "Refreshes discarded because a logout won the race."},
	{ID: authkit.MetricRetryAfterRefresh, Name: "authkit_retry_after_refresh_total", Help: "Requests resubmitted after a 401-triggered refresh."},
	{ID: authkit.MetricLogout, Name: "authkit_logout_total", Help: "Logout operations."},
	{ID: authkit.MetricRestoreSuccess, Name: "authkit_restore_success_total", Help: "Startup restorations that re-established a session."},
	{ID: authkit.MetricRestoreFailure, Name: "authkit_restore_failure_total", Help: "Startup restorations that found tokens but could not revive them."},
	{ID: authkit.MetricRestoreSkipped, Name: "authkit_restore_skipped_total", Help: "Clean logged-out startups."},
	{ID: authkit.MetricProfileRefreshFailure, Name: "authkit_profile_refresh_failure_total", Help: "Swallowed profile re-fetch failures."},
	{ID: authkit.MetricProfileUpdateSuccess, Name: "authkit_profile_update_success_total", Help: "Applied profile mutations."},
	{ID: authkit.MetricProfileUpdateFailure, Name: "authkit_profile_update_failure_total", Help: "Rejected profile mutations."},
	{ID: authkit.MetricSubmitSuccess, Name: "authkit_submit_success_total", Help: "Accepted form submissions."},
	{ID: authkit.MetricSubmitFailure, Name: "authkit_submit_failure_total", Help: "Rejected form submissions."},
}
