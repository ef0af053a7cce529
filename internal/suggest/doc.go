// Package suggest runs the commit message pipeline: collect the staged
// diff, truncate it, build the prompts, call the completion API and return
// the trimmed answer.
//
// [Engine.Run] has no error return. Failures are logged and the result
// falls back to [FallbackMessage]; the caller prints whatever it gets.
package suggest
