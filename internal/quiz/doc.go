// Package quiz builds multiple-choice self-test sessions from a card pool.
//
// Question content and question instances are kept apart: a Question is
// immutable, and every time it is put in front of the learner it is wrapped in
// an Instance with its own ID. A wrong answer re-queues the same Question,
// options included, as a new retry Instance at the tail.
package quiz
