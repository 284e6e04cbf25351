// Package component defines the lifecycle interface shared by the agent's
// long-lived parts and a Registry that starts them in order and stops them
// in reverse.
//
//   - Component: Start/Stop/Health
//   - Describable: one-line summaries for startup output and /info
package component
