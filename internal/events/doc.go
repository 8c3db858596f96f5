// Package events provides a small in-process publish/subscribe mechanism.
//
// Study sessions publish facts such as "card rescheduled" without knowing who
// persists them; the task package subscribes and turns those facts into
// background work.
package events
