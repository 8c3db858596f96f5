// Package srs implements the SM-2 variant used to schedule card reviews.
//
// The algorithm is date agnostic: Update maps a rating and a prior memory
// state to a new state, and callers derive the review date with NextReview.
// Service wraps both steps for the service layer.
package srs
