// Package scheduler groups a phase's plans into waves and picks the next batch
// of plans to execute. Waves run strictly in ascending order and plans inside
// a wave run in file name order; the scheduler only decides what is runnable
// and why the rest was skipped, it never executes anything itself.
package scheduler
