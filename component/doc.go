// Package component defines the lifecycle contract shared by long-running
// parts of a livesse process and a registry that starts them in order and
// stops them in reverse.
//
// A subscription.Manager is a Component: registering it means process
// shutdown always aborts its stream.
package component
