// Package chaos advances the parametric time of a chaos equation and samples
// its trajectory into a render buffer.
//
// One frame consists of [StepsPerFrame] sub-steps. Each sub-step seeds
// x = y = t, applies the recurrence [Iters] times and writes one projected
// point per iteration. The time advance per sub-step is adaptive:
//
//   - if any iteration landed on screen, t advances by the rolling step,
//     which shrinks while the on-screen trajectory moves quickly compared to
//     the previous sub-step at the same iteration depth;
//   - otherwise t jumps by a fixed coarse increment to skip quickly through
//     parameter regions that draw nothing.
//
// Sub-steps depend on each other through the rolling step and the
// [History], so they run strictly in order.
//
// # Frame rate
//
// A batch always covers StepsPerFrame sub-steps regardless of wall-clock
// time, so the apparent speed of the animation scales with the frame rate.
package chaos
