// Package domain contains the core study entities: cards, their spaced
// repetition memory state, and the recall ratings a learner can give.
// It has no knowledge of storage, transport or presentation.
package domain
