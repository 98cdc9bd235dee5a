// Package cache implements a single-process, in-memory key–value cache with
// first-in-first-out eviction.
//
// Goals for this package:
//   - Make the core data structures explicit (map + doubly-linked list)
//   - Provide O(1) Set/Get/Remove via map index + list pointers
//   - Evict strictly by insertion order: reads and overwrites never renew an entry
//   - Validate capacity once, at construction, through an injectable validator
//   - Be concurrency-safe (RWMutex) with correctness as the primary goal
package cache
