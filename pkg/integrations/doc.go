// Package integrations provides HTTP clients for upstream metadata APIs.
//
// # Overview
//
// The [Client] type carries the plumbing shared by every upstream client:
// default headers, a bounded request timeout, status-code mapping and
// optional retries. Each upstream API lives in its own subpackage:
//
//   - [discogs]: Discogs music database
//
// # Errors
//
// Upstream failures surface as two sentinels that callers test with
// [errors.Is]:
//
//   - [ErrNotFound]: the upstream answered 404
//   - [ErrNetwork]: transport failure, timeout or any other non-200 status
//
// Transient failures (transport errors, 429 and 5xx) are additionally wrapped
// in [httputil.RetryableError]. They are retried only when the client was
// built with a positive retry count.
//
// # Observability
//
// Every request reports to the hooks registered with
// [observability.SetHTTPHooks]. Query strings are never reported.
//
// [discogs]: github.com/matzehuels/discograph/pkg/integrations/discogs
// [httputil.RetryableError]: github.com/matzehuels/discograph/pkg/httputil.RetryableError
// [observability.SetHTTPHooks]: github.com/matzehuels/discograph/pkg/observability.SetHTTPHooks
package integrations
