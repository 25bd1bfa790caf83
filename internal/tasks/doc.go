// Package tasks loads, validates, and updates the task file.
//
// The task file (Tasks.json by default) is a JSON array of task objects:
//
//	[
//	    {
//	        "id": 1,
//	        "description": "Buy milk",
//	        "status": "todo",
//	        "createdAt": "2026-10-19T08:30:00.000000Z",
//	        "updatedAt": "2026-10-19T08:30:00.000000Z"
//	    }
//	]
//
// An empty array is the initial state. Load creates the file as [] the first
// time it is accessed; Read never creates it.
//
// Saving rewrites the whole file, but a task read from disk is written back
// from the object it was read from: keys this package does not know are kept, and
// only fields an operation changed are replaced.
//
// # Operations
//
// Every Store operation reads the whole file, mutates the in-memory slice,
// and writes the whole file back. There is no locking: two processes working
// on the same file race and the last writer wins. Writes go through a temp
// file in the same directory followed by a rename, so a crash mid-write
// leaves either the old or the new file, never a torn one.
//
// # Task IDs
//
// New tasks get len(tasks)+1. IDs are therefore not guaranteed unique once
// tasks have been deleted and re-added.
//
// # Status Values
//
//   - "todo": created, not started
//   - "in-progress": being worked on
//   - "done": complete
//
// The store persists whatever status string it is given. Validate reports
// non-canonical values as warnings.
//
// # Timestamps
//
// Timestamps are written in UTC with microsecond precision
// (2006-01-02T15:04:05.000000Z), which sorts lexically. Zone-less ISO-8601
// values are accepted on read and interpreted as local time. The text of a
// timestamp is kept as read until its task is changed.
package tasks
