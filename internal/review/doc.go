// Package review implements the flashcard review queue: the ordered working
// set of cards for one pass, where forgotten cards go back to the tail and
// recalled cards leave the session.
//
// The queue never touches the scheduler. Callers reschedule recalled cards
// themselves and may refresh the queued copy with UpdateCard.
package review
