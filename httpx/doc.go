// Package httpx is the transport boundary of the SDK.
//
// It owns three things the session engine builds on:
//
//   - a closed, tagged [Error] variant produced for every failed exchange, so
//     upstream code matches on [Kind] instead of sniffing error shapes;
//   - the bearer-credential interceptor: an access token supplied by a
//     [TokenSource] is attached to outgoing requests, a 401 response triggers
//     exactly one token renewal and one resubmission;
//   - multipart encoding for file-carrying endpoints.
//
// Retry state travels in an explicit [Attempt] wrapper rather than as a
// hidden flag on the request object, so a request can never be replayed more
// than once regardless of how many interceptor layers observe it.
package httpx
