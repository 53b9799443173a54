// Package scheduler arms one randomized one-shot timer per reminder group
// and gates each expiry on the group's weekly schedule.
//
// All Coordinator and Chime methods must run on the event loop. Timer
// callbacks never touch state directly: they post back onto the loop, and
// each armed entry carries a generation number so a callback queued before
// its entry was cancelled or replaced is discarded. Sleep discards every
// pending entry; wake redraws them without catching up missed fires.
package scheduler
