// Package prompt builds the system and user messages sent to the model.
//
// The requested answer has a verb-led title ([New|Update|Remove|Refactor|Fix|Misc]),
// a bullet-list description and, when a naming convention is configured, a
// list of variables that break it.
package prompt
