// Package llm is a minimal client for OpenAI-compatible chat completion
// endpoints.
//
// [Client.Complete] posts a model identifier and a system+user message pair
// and returns the first choice's content. Rate-limit (429) and server (5xx)
// responses are retried with exponential back-off; authentication failures
// are returned immediately as [*AuthError].
//
// Tests point the client at an httptest server through [Options.BaseURL]
// and [Options.HTTPClient].
package llm
