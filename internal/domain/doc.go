// Package domain contains the core business entities of the task tracker:
// users and their roles, the status and category vocabularies, tasks, and
// the audit entries recorded for every task mutation. It is independent of
// any storage or transport concern.
package domain
