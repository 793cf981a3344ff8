// SPDX-License-Identifier: EPL-2.0

// Package device defines the output binding the mixer schedules against.
//
// The mixer never touches samples. It loads sources, starts, pauses,
// resumes and stops them, and writes a per-source gain. Implementations
// live in the soft (software mixing) and speaker (sound card) packages.
package device
